// Copyright (c) 2026 ScholarLink. All rights reserved.

package orcid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbadaoui/scholarlink/internal/platform/apperr"
	"github.com/hbadaoui/scholarlink/internal/platform/constants"
)

// fakeCache is a map-backed stand-in for the Redis profile cache.
type fakeCache struct {
	entries  map[string]string
	setErr   error
	setCalls int
	delCalls []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (cache *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	value, ok := cache.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (cache *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cache.setCalls++
	if cache.setErr != nil {
		return redis.NewStatusResult("", cache.setErr)
	}
	switch typed := value.(type) {
	case []byte:
		cache.entries[key] = string(typed)
	case string:
		cache.entries[key] = typed
	}
	return redis.NewStatusResult("OK", nil)
}

func (cache *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cache.delCalls = append(cache.delCalls, keys...)
	for _, key := range keys {
		delete(cache.entries, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestClient_FetchRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/0000-0002-1825-0097", request.URL.Path)
		assert.Equal(t, "application/json", request.Header.Get("Accept"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"orcid-identifier": {"path": "0000-0002-1825-0097"},
			"person": {"name": {"given-names": {"value": "Mounia"}, "family-name": {"value": "Abik"}}}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, discardLogger())
	record, err := client.FetchRecord(context.Background(), "0000-0002-1825-0097")

	require.NoError(t, err)
	assert.Equal(t, "0000-0002-1825-0097", record.OrcidIdentifier.Path)
	assert.Equal(t, "Mounia", record.Person.Name.GivenNames.Value)
}

func TestClient_FetchRecord_SecondCallServedFromCache(t *testing.T) {
	registryHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		registryHits++
		_, _ = writer.Write([]byte(`{"orcid-identifier": {"path": "0000-0002-1825-0097"}}`))
	}))
	defer server.Close()

	cache := newFakeCache()
	client := NewClient(server.URL, cache, discardLogger())

	first, err := client.FetchRecord(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)

	second, err := client.FetchRecord(context.Background(), "0000-0002-1825-0097")
	require.NoError(t, err)

	assert.Equal(t, 1, registryHits)
	assert.Equal(t, 1, cache.setCalls)
	assert.Equal(t, first.OrcidIdentifier.Path, second.OrcidIdentifier.Path)
}

func TestClient_FetchRecord_CorruptCacheEntryIsDiscarded(t *testing.T) {
	registryHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		registryHits++
		_, _ = writer.Write([]byte(`{"orcid-identifier": {"path": "0000-0002-1825-0097"}}`))
	}))
	defer server.Close()

	cacheKey := constants.RedisPrefixOrcidProfile + "0000-0002-1825-0097"
	cache := newFakeCache()
	cache.entries[cacheKey] = `{"orcid-identifier": truncated`

	client := NewClient(server.URL, cache, discardLogger())
	record, err := client.FetchRecord(context.Background(), "0000-0002-1825-0097")

	require.NoError(t, err)
	assert.Equal(t, "0000-0002-1825-0097", record.OrcidIdentifier.Path)
	assert.Equal(t, 1, registryHits)
	assert.Equal(t, []string{cacheKey}, cache.delCalls)
	assert.JSONEq(t, `{"orcid-identifier": {"path": "0000-0002-1825-0097"}}`, cache.entries[cacheKey])
}

func TestClient_FetchRecord_CacheWriteFailureIsTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"orcid-identifier": {"path": "0000-0002-1825-0097"}}`))
	}))
	defer server.Close()

	cache := newFakeCache()
	cache.setErr = errors.New("connection refused")

	client := NewClient(server.URL, cache, discardLogger())
	record, err := client.FetchRecord(context.Background(), "0000-0002-1825-0097")

	require.NoError(t, err)
	assert.Equal(t, "0000-0002-1825-0097", record.OrcidIdentifier.Path)
	assert.Equal(t, 1, cache.setCalls)
}

func TestClient_FetchRecord_UnknownIDIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, discardLogger())
	_, err := client.FetchRecord(context.Background(), "0000-0002-9999-9999")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.CodeOf(err))
}

func TestClient_FetchRecord_RegistryOutageIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, discardLogger())
	_, err := client.FetchRecord(context.Background(), "0000-0002-1825-0097")

	require.Error(t, err)
	assert.Equal(t, "PROVIDER_UNAVAILABLE", apperr.CodeOf(err))
	assert.True(t, apperr.IsRetryable(err))
}

func TestClient_ExpandedSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/expanded-search/", request.URL.Path)
		assert.Contains(t, request.URL.Query().Get("q"), "given-names:Mounia")
		assert.Contains(t, request.URL.Query().Get("q"), "family-name:Abik")

		_, _ = writer.Write([]byte(`{
			"expanded-result": [
				{"orcid-id": "0000-0002-1694-233X", "given-names": "Mounia", "family-names": "Abik", "institution-name": ["ENSIAS"]}
			],
			"num-found": 1
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, discardLogger())
	hits, err := client.ExpandedSearch(context.Background(), "Mounia", "Abik")

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "0000-0002-1694-233X", hits[0].OrcidID)
	assert.Equal(t, []string{"ENSIAS"}, hits[0].InstitutionName)
}

func TestClient_FetchWorks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/0000-0002-1825-0097/works", request.URL.Path)
		_, _ = writer.Write([]byte(`{"group": [{"work-summary": [{"title": {"title": {"value": "Some Paper"}}}]}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, discardLogger())
	works, err := client.FetchWorks(context.Background(), "0000-0002-1825-0097")

	require.NoError(t, err)
	require.Len(t, works.Group, 1)
	assert.Equal(t, "Some Paper", works.Group[0].WorkSummary[0].Title.Title.Value)
}
