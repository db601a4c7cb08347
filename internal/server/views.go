package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/navigate"
	"github.com/matzehuels/skillgraph/pkg/pipeline"
	"github.com/matzehuels/skillgraph/pkg/present"
)

// viewSession is one dashboard's navigation state.
type viewSession struct {
	nav     *navigate.Navigator
	created time.Time
}

type createViewRequest struct {
	Source string `json:"source,omitempty"`
	Domain string `json:"domain,omitempty"`
}

type clickRequest struct {
	Path []string `json:"path"`
}

type sourceRequest struct {
	Source string `json:"source"`
}

type viewResponse struct {
	ID      string         `json:"id"`
	State   navigate.State `json:"state"`
	Changed bool           `json:"changed"`
	Cached  bool           `json:"cached"`
	Scene   present.Scene  `json:"scene"`
}

// snapshot is what a handler needs from a session once the lock is released.
// View trees are never mutated, so they are safe to share.
type snapshot struct {
	state navigate.State
	view  *hierarchy.Node
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createViewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	kind := pipeline.DefaultSource
	if req.Source != "" {
		k, err := hierarchy.ParseKind(req.Source)
		if err != nil {
			writeError(w, err)
			return
		}
		kind = k
	}

	forest, err := s.loadForest(r.Context(), false)
	if err != nil {
		writeError(w, err)
		return
	}
	nav := navigate.New(forest, kind)
	if req.Domain != "" {
		if err := nav.Drill(req.Domain); err != nil {
			writeError(w, err)
			return
		}
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.evictLocked()
	s.views[id] = &viewSession{nav: nav, created: time.Now()}
	snap := snapshot{state: nav.State(), view: nav.View()}
	s.mu.Unlock()

	s.respondView(w, r, http.StatusCreated, id, snap, true)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.withView(id, func(*navigate.Navigator) (bool, error) { return false, nil })
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondView(w, r, http.StatusOK, id, snap, false)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()
	if !ok {
		writeError(w, viewNotFound(id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Path) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "path is required"))
		return
	}
	s.mutateView(w, r, func(nav *navigate.Navigator) (bool, error) {
		return nav.ClickPath(req.Path...), nil
	})
}

func (s *Server) handleBackground(w http.ResponseWriter, r *http.Request) {
	s.mutateView(w, r, func(nav *navigate.Navigator) (bool, error) {
		return nav.Background(), nil
	})
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	var req sourceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	kind, err := hierarchy.ParseKind(req.Source)
	if err != nil {
		writeError(w, err)
		return
	}
	s.mutateView(w, r, func(nav *navigate.Navigator) (bool, error) {
		before := nav.State()
		if err := nav.SetSource(kind); err != nil {
			return false, err
		}
		return nav.State() != before, nil
	})
}

func (s *Server) handleViewSVG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.withView(id, func(*navigate.Navigator) (bool, error) { return false, nil })
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.viewOptions(snap.state)
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Interactive = r.URL.Query().Get("interactive") != "false"

	sc, _, err := s.scene(r.Context(), snap, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	artifacts, _, err := s.cfg.Runner.RenderWithCacheInfo(r.Context(), pipeline.HashTree(snap.view), sc, snap.view, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

// mutateView applies fn to the session's navigator and answers with the new
// view.
func (s *Server) mutateView(w http.ResponseWriter, r *http.Request, fn func(*navigate.Navigator) (bool, error)) {
	id := chi.URLParam(r, "id")
	var changed bool
	snap, err := s.withView(id, func(nav *navigate.Navigator) (bool, error) {
		c, err := fn(nav)
		changed = c
		return c, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondView(w, r, http.StatusOK, id, snap, changed)
}

// withView runs fn on the session under the lock and returns a snapshot taken
// afterwards.
func (s *Server) withView(id string, fn func(*navigate.Navigator) (bool, error)) (snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.views[id]
	if !ok {
		return snapshot{}, viewNotFound(id)
	}
	if _, err := fn(sess.nav); err != nil {
		return snapshot{}, err
	}
	return snapshot{state: sess.nav.State(), view: sess.nav.View()}, nil
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, status int, id string, snap snapshot, changed bool) {
	sc, hit, err := s.scene(r.Context(), snap, s.viewOptions(snap.state))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, viewResponse{
		ID:      id,
		State:   snap.state,
		Changed: changed,
		Cached:  hit,
		Scene:   sc,
	})
}

// scene solves the snapshot's view through the runner's cache.
func (s *Server) scene(ctx context.Context, snap snapshot, opts pipeline.Options) (present.Scene, bool, error) {
	if !s.cfg.Library.Ready() {
		return present.Scene{}, false, errors.New(errors.ErrCodeLibraryUnavailable, "rendering library is not ready")
	}
	if snap.view == nil {
		return present.Scene{}, false, errors.New(errors.ErrCodeNotFound, "no %s hierarchy loaded", snap.state.Source)
	}
	_, sc, hit, err := s.cfg.Runner.SceneWithCacheInfo(ctx, snap.view, opts)
	return sc, hit, err
}

func (s *Server) viewOptions(st navigate.State) pipeline.Options {
	return pipeline.Options{
		Source: string(st.Source),
		Domain: st.ActiveDomain,
		Layout: s.cfg.Layout,
		Logger: s.cfg.Logger,
	}
}

// evictLocked drops the oldest session once the cap is reached.
func (s *Server) evictLocked() {
	if len(s.views) < s.cfg.MaxViews {
		return
	}
	var oldestID string
	var oldest time.Time
	for id, v := range s.views {
		if oldestID == "" || v.created.Before(oldest) {
			oldestID, oldest = id, v.created
		}
	}
	delete(s.views, oldestID)
}

func viewNotFound(id string) error {
	return errors.New(errors.ErrCodeViewNotFound, "view %q not found", id)
}
