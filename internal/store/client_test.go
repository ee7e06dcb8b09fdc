package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeStore is an in-memory stand-in for the store's HTTP API.
type fakeStore struct {
	mu      sync.Mutex
	nodes   map[string]json.RawMessage
	links   []LinkRequest
	deletes []string
	auth    []string
}

func newFakeStore(t *testing.T) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{nodes: make(map[string]json.RawMessage)}
	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeStore) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.auth = append(fs.auth, r.Header.Get("Authorization"))

	if r.URL.Path == "/links" {
		var req LinkRequest
		json.NewDecoder(r.Body).Decode(&req)
		fs.links = append(fs.links, req)
		w.WriteHeader(http.StatusCreated)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		fs.nodes[key] = req.Value
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var nodes []ListEntry
			for k, v := range fs.nodes {
				if strings.HasPrefix(k, prefix+"/") {
					nodes = append(nodes, ListEntry{Key: k, Value: v})
				}
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := fs.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(NodeResponse{Key: key, Value: v})
	case http.MethodDelete:
		fs.deletes = append(fs.deletes, r.URL.RequestURI())
		for k := range fs.nodes {
			if k == key || strings.HasPrefix(k, key+"/") {
				delete(fs.nodes, k)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestPageRoundTrip(t *testing.T) {
	fs, srv := newFakeStore(t)
	c := NewClient(srv.URL+"/", "secret")
	ctx := context.Background()

	rec := PageRecord{Title: "Go gopher", Sections: 2, Page: json.RawMessage(`{"root":{}}`)}
	if err := c.PutPage(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fs.nodes["wiki/pages/Go_gopher/json"]; !ok {
		t.Fatalf("expected page under its key, got %v", fs.nodes)
	}

	got, err := c.GetPage(ctx, "Go gopher")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Title != "Go gopher" || got.Sections != 2 {
		t.Fatalf("unexpected record %+v", got)
	}
	if string(got.Page) != `{"root":{}}` {
		t.Errorf("expected page json preserved, got %s", got.Page)
	}
	for _, a := range fs.auth {
		if a != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", a)
		}
	}

	if err := c.DeletePage(ctx, "Go gopher"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.deletes[0] != "/kv/wiki/pages/Go_gopher?children=true" {
		t.Errorf("expected recursive delete, got %q", fs.deletes[0])
	}
	if got, err := c.GetPage(ctx, "Go gopher"); err != nil || got != nil {
		t.Errorf("expected missing page after delete, got %+v %v", got, err)
	}
}

func TestLinkPagesAndHashIndex(t *testing.T) {
	fs, srv := newFakeStore(t)
	c := NewClient(srv.URL, "")
	ctx := context.Background()

	if err := c.LinkPages(ctx, "A", "B page"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.links) != 1 || fs.links[0].From != "wiki/pages/A" || fs.links[0].To != "wiki/pages/B_page" {
		t.Errorf("unexpected links %+v", fs.links)
	}
	if fs.auth[0] != "" {
		t.Errorf("expected no auth header without key, got %q", fs.auth[0])
	}

	if _, found, err := c.FindByHash(ctx, "abc"); err != nil || found {
		t.Fatalf("expected no match before indexing, got %v %v", found, err)
	}
	if err := c.PutHash(ctx, "abc", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slug, found, err := c.FindByHash(ctx, "abc")
	if err != nil || !found || slug != "A" {
		t.Errorf("expected hash match A, got %q %v %v", slug, found, err)
	}
}

func TestStatusErrors(t *testing.T) {
	status := http.StatusServiceUnavailable
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", status)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "k")

	err := c.PutPage(context.Background(), PageRecord{Title: "X"})
	var rerr *RetryableError
	if !errors.As(err, &rerr) || rerr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected retryable 503, got %v", err)
	}

	status = http.StatusBadRequest
	err = c.PutPage(context.Background(), PageRecord{Title: "X"})
	if err == nil || errors.As(err, &rerr) {
		t.Errorf("expected non-retryable error, got %v", err)
	}
}

func TestEnabled(t *testing.T) {
	if NewClient("", "").Enabled() {
		t.Error("expected client without url to be disabled")
	}
	var c *Client
	if c.Enabled() {
		t.Error("expected nil client to be disabled")
	}
	if !NewClient("http://store", "").Enabled() {
		t.Error("expected configured client to be enabled")
	}
}
