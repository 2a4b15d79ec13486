package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToOutput(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	Init(Config{Output: &buf})

	From(WithRequestID(context.Background(), "req-7")).Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "req-7", entry["request_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitDebugLevel(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	Init(Config{Output: &buf})
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	Init(Config{Output: &buf, Debug: true})
	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
