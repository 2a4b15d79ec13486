package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	contractx "github.com/tanpawarit/Northwind-Tool-Assistant/agent/contract"
)

// NewRouter wires POST /chat and GET /tools. CORS accepts every origin, method and header.
func NewRouter(chat ChatService, catalog contractx.ToolCatalog, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	h := newHandler(chat, catalog)
	r.Post("/chat", h.Chat)
	r.Get("/tools", h.Tools)

	return r
}
