package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOC_SERVICE_URL", "http://docs.internal:8080")
	t.Setenv("DOC_SERVICE_TIMEOUT", "15s")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("DOC_SERVICE_PAGE_SIZE", "25")

	cfg := Load()

	assert.Equal(t, "http://docs.internal:8080", cfg.DocService.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.DocService.Timeout)
	assert.Equal(t, 25, cfg.DocService.PageSize)
	assert.Equal(t, time.Hour, cfg.Session.TTL, "invalid duration falls back")
	assert.False(t, cfg.IsProduction())
}
