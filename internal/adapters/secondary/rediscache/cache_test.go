package rediscache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
)

func TestCache_ImplementsResponseCache(t *testing.T) {
	var cache ports.ResponseCache = NewCache(nil)
	assert.NotNil(t, cache)
}

func TestCache_SetNonPositiveTTLIsNoop(t *testing.T) {
	// A nil client proves no Redis call happens for ttl <= 0.
	cache := NewCache(nil)

	require.NoError(t, cache.Set(context.Background(), "key", []byte("value"), 0))
	require.NoError(t, cache.Set(context.Background(), "key", []byte("value"), -1))
}

func TestRedisKey(t *testing.T) {
	a := redisKey("https://jira.example.com/rest/api/2/search?jql=one")
	b := redisKey("https://jira.example.com/rest/api/2/search?jql=two")

	assert.True(t, strings.HasPrefix(a, keyPrefix))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, redisKey("https://jira.example.com/rest/api/2/search?jql=one"))
}
