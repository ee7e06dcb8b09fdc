package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/wikitree/internal/convert"
	"github.com/dgallion1/wikitree/internal/outline"
	"github.com/dgallion1/wikitree/internal/pagetree"
	"github.com/dgallion1/wikitree/internal/parser"
	"github.com/dgallion1/wikitree/internal/pipeline"
	"github.com/dgallion1/wikitree/internal/render"
)

// handleConvert converts the request body synchronously. The body is a JSON
// source tree unless ?format names another input format.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	output := q.Get("output")
	switch output {
	case "":
		output = "json"
	case "json", "html", "outline":
	default:
		jsonError(w, "unsupported output: "+output, http.StatusBadRequest)
		return
	}

	p, err := parser.ForFormat(q.Get("format"), parser.Options{FallbackPdftotext: s.cfg.PDFFallbackPdftotext})
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	doc, err := p.Parse(bytes.NewReader(data), "untitled")
	if err != nil {
		jsonError(w, "parse: "+err.Error(), http.StatusBadRequest)
		return
	}
	if title := q.Get("title"); title != "" {
		doc.Title = title
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ConvertTimeout)
	defer cancel()
	start := time.Now()
	page, err := pipeline.Convert(ctx, s.orchestrator.Converter(), doc)
	if err != nil {
		s.convertError(w, doc.Title, err)
		return
	}
	s.orchestrator.Stats().Record(time.Since(start).Milliseconds())

	w.Header().Set("X-Skipped-Nodes", strconv.Itoa(len(page.Skipped)))
	s.writePage(w, page, doc.Title, output, q.Get("pretty") == "true")
}

func (s *Server) convertError(w http.ResponseWriter, title string, err error) {
	var cerr *convert.ConversionError
	switch {
	case errors.Is(err, pipeline.ErrConvertTimeout):
		s.log.Warn("conversion timed out", "title", title, "timeout", s.cfg.ConvertTimeout)
		jsonError(w, err.Error(), http.StatusGatewayTimeout)
	case errors.As(err, &cerr):
		s.log.Error("conversion failed", "title", title, "error", err, "diagnostic", cerr.Diagnostic())
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   err.Error(),
			"partial": cerr.Snapshot,
		}, false)
	default:
		s.log.Error("conversion failed", "title", title, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

// writePage encodes page in the requested output form.
func (s *Server) writePage(w http.ResponseWriter, page *pagetree.Page, title, output string, pretty bool) {
	switch output {
	case "html":
		var buf bytes.Buffer
		if err := render.HTML(&buf, page, title); err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	case "outline":
		writeJSON(w, http.StatusOK, outline.Build(page, title), pretty)
	default:
		writeJSON(w, http.StatusOK, page, pretty)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg}, false)
}
