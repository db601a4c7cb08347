package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/pipeline"
	"github.com/matzehuels/skillgraph/pkg/render/sink"
	"github.com/matzehuels/skillgraph/pkg/storage"
)

type createLayoutRequest struct {
	Source        string `json:"source,omitempty"`
	Domain        string `json:"domain,omitempty"`
	Seed          *int64 `json:"seed,omitempty"`
	FocusCategory string `json:"focus_category,omitempty"`
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if !s.cfg.Library.Ready() {
		writeError(w, errors.New(errors.ErrCodeLibraryUnavailable, "rendering library is not ready"))
		return
	}

	opts := pipeline.Options{
		Source: req.Source,
		Domain: req.Domain,
		Layout: s.cfg.Layout,
		Logger: s.cfg.Logger,
	}
	if req.Seed != nil {
		opts.Layout.Tessellation.Seed = *req.Seed
	}
	if req.FocusCategory != "" {
		opts.Layout.FocusCategory = req.FocusCategory
	}
	if err := opts.ValidateForLayout(); err != nil {
		writeError(w, err)
		return
	}

	forest, err := s.loadForest(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := pipeline.View(forest, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	_, sc, _, err := s.cfg.Runner.SceneWithCacheInfo(r.Context(), view, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	doc := &storage.Document{
		Source:        opts.Source,
		Domain:        opts.Domain,
		HierarchyHash: pipeline.HashTree(view),
		Seed:          opts.Layout.Tessellation.Seed,
		Scene:         sc,
	}
	if err := s.cfg.Store.Save(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	doc, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	docs, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if docs == nil {
		docs = []storage.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// handleLayoutSVG draws a saved scene without solving it again.
func (s *Server) handleLayoutSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	_, _ = w.Write(sink.RenderSVG(doc.Scene))
}
