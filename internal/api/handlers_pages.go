package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/wikitree/internal/store"
)

// pageStore returns the store client, or writes 503 when publishing is off.
func (s *Server) pageStore(w http.ResponseWriter) (*store.Client, bool) {
	st := s.orchestrator.Store()
	if !st.Enabled() {
		jsonError(w, "page store not configured", http.StatusServiceUnavailable)
		return nil, false
	}
	return st, true
}

func titleParam(r *http.Request) string {
	title := chi.URLParam(r, "title")
	if t, err := url.PathUnescape(title); err == nil {
		return t
	}
	return title
}

// handleListPages lists stored pages.
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	st, ok := s.pageStore(w)
	if !ok {
		return
	}
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	pages, err := st.ListPages(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list pages: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": pages}, false)
}

// handleGetPage returns a stored page record.
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	st, ok := s.pageStore(w)
	if !ok {
		return
	}
	rec, err := st.GetPage(r.Context(), titleParam(r))
	if err != nil {
		jsonError(w, "failed to read page: "+err.Error(), http.StatusBadGateway)
		return
	}
	if rec == nil {
		jsonError(w, "page not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec, r.URL.Query().Get("pretty") == "true")
}

// handleDeletePage deletes a stored page and its hash index entry.
func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	st, ok := s.pageStore(w)
	if !ok {
		return
	}
	ctx := r.Context()
	title := titleParam(r)

	rec, err := st.GetPage(ctx, title)
	if err != nil {
		jsonError(w, "failed to read page: "+err.Error(), http.StatusBadGateway)
		return
	}
	if rec == nil {
		jsonError(w, "page not found", http.StatusNotFound)
		return
	}
	if err := st.DeletePage(ctx, title); err != nil {
		jsonError(w, "failed to delete page: "+err.Error(), http.StatusBadGateway)
		return
	}
	hashDeleted := false
	if rec.ContentHash != "" {
		if err := st.DeleteHash(ctx, rec.ContentHash, title); err != nil {
			s.log.Warn("hash index delete failed", "title", title, "error", err)
		} else {
			hashDeleted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":      title,
		"hash_deleted": hashDeleted,
	}, false)
}
