package ics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchOneCachesAndRevalidates(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(icsBody())
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "cal", URL: srv.URL}

	res, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.NotEmpty(t, res.Body)

	res2, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res2.FromCache)
	assert.Equal(t, res.Body, res2.Body)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchOneFallsBackToCacheOnServerError(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(icsBody())
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "cal", URL: srv.URL}

	_, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)

	fail.Store(true)
	res, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.NotEmpty(t, res.Body)
}

func TestFetchAllCollectsPerSourceErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(icsBody())
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	results, errs := f.FetchAll(context.Background(), []Source{
		{ID: "good", URL: srv.URL},
		{ID: "empty"},
	})

	assert.Len(t, results, 1)
	assert.Len(t, errs, 1)
	assert.Equal(t, "good", results[0].Source.ID)
}

func TestRedactURLHidesPathAndQuery(t *testing.T) {
	t.Parallel()

	got := redactURL("https://example.com/private/cal.ics?token=secret")
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "private")
	assert.Contains(t, got, "example.com")
}
