package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	chatx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/chat"
	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
	logx "github.com/tanpawarit/Northwind-Tool-Assistant/pkg/logger"
)

type ChatService interface {
	HandleQuery(ctx context.Context, query string) (string, error)
}

type chatRequest struct {
	Query *string `json:"query"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	chat    ChatService
	catalog contractx.ToolCatalog
}

func newHandler(chat ChatService, catalog contractx.ToolCatalog) *handler {
	return &handler{chat: chat, catalog: catalog}
}

func (h *handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Query == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
		return
	}

	ctx := chatx.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
	reply, err := h.chat.HandleQuery(ctx, *req.Query)
	if err != nil {
		logx.From(ctx).Error().Err(err).Msg("chat request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "chat failed"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}

func (h *handler) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Describe())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
