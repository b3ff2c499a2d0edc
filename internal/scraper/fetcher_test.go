package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Shop", "test")
		_, _ = fmt.Fprintf(w, "<html><body><h1>Widget</h1><p>%s|%s</p></body></html>",
			r.Header.Get("User-Agent"), r.Header.Get("Accept-Language"))
	}))
	defer srv.Close()

	f := NewFetcher(WithUserAgent("shelfcheck-test"), WithTimeout(5*time.Second))

	page, err := f.Fetch(context.Background(), srv.URL+"/p/widget")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.URL, "/p/widget")
	assert.Equal(t, "test", page.Headers.Get("X-Shop"))
	assert.Contains(t, string(page.HTML), "<h1>Widget</h1>")
	assert.Contains(t, string(page.HTML), "shelfcheck-test|"+defaultAcceptLanguage)
}

func TestFetch_Revisit(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher()

	for range 2 {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestFetch_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrEmptyPage)
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher().Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(WithTimeout(time.Second)).Fetch(context.Background(), url)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
