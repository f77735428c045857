// Package preview serves rendered frames over HTTP so an authoring tool can
// scrub a timeline without a batch render.
package preview

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/storyrig/internal/effects"
	"github.com/ivlev/storyrig/internal/render"
	"github.com/ivlev/storyrig/internal/scenegraph"
	"github.com/ivlev/storyrig/internal/timeline"
)

var log = logrus.WithField("component", "preview")

// Handler renders frames on request. The timeline and renderer are read-only,
// so requests are served concurrently without locking.
type Handler struct {
	timeline *timeline.Timeline
	renderer *render.Engine
	effects  effects.Config
}

// NewHandler returns a handler for tl.
func NewHandler(tl *timeline.Timeline, r *render.Engine, fx effects.Config) *Handler {
	if r == nil {
		r = render.New(nil)
	}
	return &Handler{timeline: tl, renderer: r, effects: fx}
}

// Router wires the routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/timeline", h.Timeline).Methods("GET")
	r.HandleFunc("/frames/{frame:[0-9]+}", h.Frame).Methods("GET")
	r.HandleFunc("/frames/{frame:[0-9]+}/commands", h.Commands).Methods("GET")
	r.HandleFunc("/scenes/{frame:[0-9]+}", h.Scene).Methods("GET")
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "frames": h.timeline.End()})
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.timeline)
}

// Frame returns the composited tree. The effects and mood query parameters
// override the configured selection for this request.
func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Commands returns the frame flattened to draw commands.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	g, ok := h.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, scenegraph.Compile(g))
}

// Scene returns the resolved timeline state at the frame.
func (h *Handler) Scene(w http.ResponseWriter, r *http.Request) {
	frame, ok := frameVar(w, r)
	if !ok {
		return
	}
	rf := h.renderer.Resolve(frame, h.timeline)
	if !rf.Active() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no scene at frame"})
		return
	}
	writeJSON(w, http.StatusOK, rf)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) (*scenegraph.Graph, bool) {
	frame, ok := frameVar(w, r)
	if !ok {
		return nil, false
	}
	fx := h.effects
	q := r.URL.Query()
	if v := q.Get("effects"); v != "" {
		fx.Preset = v
		fx.Stages = nil
	}
	if v := q.Get("mood"); v != "" {
		fx.Mood = v
	}
	return h.renderer.RenderFrameAt(frame, h.timeline, fx), true
}

func frameVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	frame, err := strconv.Atoi(mux.Vars(r)["frame"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame"})
		return 0, false
	}
	return frame, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("write response failed")
	}
}
