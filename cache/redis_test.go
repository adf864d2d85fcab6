package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuggestionKeyNormalizes(t *testing.T) {
	assert.Equal(t, "suggest:golang", SuggestionKey("  GoLang "))
	assert.Equal(t, SuggestionKey("REST"), SuggestionKey("rest"))
}

func TestDisabledCacheIsANoop(t *testing.T) {
	// no Init() call: client is nil
	ctx := context.Background()

	var out []string
	assert.False(t, GetJSON(ctx, "suggest:x", &out))

	// must not panic
	SetJSON(ctx, "suggest:x", []string{"a"}, time.Second)
	assert.False(t, Enabled())
}

func TestSuggestionTTL(t *testing.T) {
	t.Setenv("SUGGESTION_CACHE_TTL_SECONDS", "")
	assert.Equal(t, 60*time.Second, SuggestionTTL())

	t.Setenv("SUGGESTION_CACHE_TTL_SECONDS", "120")
	assert.Equal(t, 120*time.Second, SuggestionTTL())

	t.Setenv("SUGGESTION_CACHE_TTL_SECONDS", "bogus")
	assert.Equal(t, 60*time.Second, SuggestionTTL())
}
