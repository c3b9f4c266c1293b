// Package workouts serves the local page and JSON API for the workout log.
package workouts

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/lildude/mapty/internal/collection"
	"github.com/lildude/mapty/internal/listview"
	"github.com/lildude/mapty/internal/mapview"
	"github.com/lildude/mapty/internal/middleware"
	"github.com/lildude/mapty/internal/totals"
	"github.com/lildude/mapty/internal/tracker"
	"github.com/lildude/mapty/internal/workout"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var page = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>mapty</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script defer src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
</head>
<body>
<div class="sidebar">
  <ul class="workouts">
{{.Rows}}
  </ul>
  <button class="reset__btn">Reset</button>
</div>
<div id="map" data-ready="{{.Map.Ready}}" data-lat="{{.Map.Center.Lat}}" data-lng="{{.Map.Center.Lng}}" data-zoom="{{.Map.Zoom}}"></div>
<script>
window.addEventListener("load", () => {
  const el = document.getElementById("map");
  if (el.dataset.ready !== "true") return;
  const map = L.map(el).setView([+el.dataset.lat, +el.dataset.lng], +el.dataset.zoom);
  L.tileLayer("https://{s}.tile.openstreetmap.fr/hot/{z}/{x}/{y}.png").addTo(map);
  const layer = L.layerGroup().addTo(map);
  const api = (method, url, body) => fetch(url, {method, body: body && JSON.stringify(body)});
  const notices = () => fetch("/api/notices").then(r => r.json()).then(ns => ns.forEach(n => alert(n.message)));
  const draw = () => fetch("/api/markers").then(r => r.json()).then(ms => {
    layer.clearLayers();
    ms.forEach(m => L.marker([m.coords.lat, m.coords.lng]).addTo(layer)
      .bindPopup(L.popup({autoClose: false, closeOnClick: false, className: m.popup.className}))
      .setPopupContent(m.popup.content).openPopup());
  });
  map.on("click", async e => {
    const res = await api("POST", "/api/map/click", {lat: e.latlng.lat, lng: e.latlng.lng});
    if (!res.ok) return notices();
    const kind = prompt("running or cycling?", "running");
    if (!kind) return api("DELETE", "/api/form");
    const n = q => +prompt(q);
    const body = {kind, distanceKm: n("Distance (km)"), durationMin: n("Duration (min)")};
    if (kind === "running") body.cadenceSpm = n("Cadence (spm)"); else body.elevationGainM = n("Elevation gain (m)");
    if ((await api("POST", "/api/workouts", body)).ok) location.reload(); else notices();
  });
  document.querySelector(".workouts").addEventListener("click", e => {
    const row = e.target.closest(".workout");
    if (row) api("POST", "/api/workouts/" + row.dataset.id + "/focus").then(() => fetch("/api/map")).then(r => r.json())
      .then(s => map.setView([s.center.lat, s.center.lng], s.zoom, {animate: true, pan: {duration: 1}}));
  });
  document.querySelector(".reset__btn").addEventListener("click", () => api("POST", "/api/reset").then(() => location.reload()));
  draw().then(notices);
});
</script>
</body>
</html>
`))

// Handler serves the workout routes.
type Handler struct {
	tracker *tracker.Tracker
	view    *mapview.Map
	list    *listview.List
	notices *Notices
	log     logrus.FieldLogger
}

// New returns a Handler. notices must be the Notifier the tracker reports to.
func New(t *tracker.Tracker, view *mapview.Map, list *listview.List, notices *Notices, log logrus.FieldLogger) *Handler {
	return &Handler{tracker: t, view: view, list: list, notices: notices, log: log}
}

// Routes returns the mux with every route registered and request logging applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /api/workouts", h.listWorkouts)
	mux.HandleFunc("POST /api/workouts", h.createWorkout)
	mux.HandleFunc("DELETE /api/workouts/{id}", h.deleteWorkout)
	mux.HandleFunc("POST /api/workouts/{id}/edit", h.startEdit)
	mux.HandleFunc("POST /api/workouts/{id}/focus", h.focus)
	mux.HandleFunc("PUT /api/edit", h.submitEdit)
	mux.HandleFunc("DELETE /api/edit", h.cancelEdit)
	mux.HandleFunc("GET /api/map", h.mapState)
	mux.HandleFunc("GET /api/markers", h.markers)
	mux.HandleFunc("POST /api/map/click", h.mapClick)
	mux.HandleFunc("DELETE /api/form", h.cancelCreate)
	mux.HandleFunc("GET /api/state", h.state)
	mux.HandleFunc("POST /api/reset", h.reset)
	mux.HandleFunc("GET /api/totals", h.totals)
	mux.HandleFunc("GET /api/notices", h.drainNotices)
	mux.Handle("GET /metrics", promhttp.Handler())
	return middleware.Logging(h.log)(mux)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	rows, err := h.list.HTML()
	if err != nil {
		h.log.WithError(err).Error("rendering workout list")
		http.Error(w, "Failed to render workouts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, struct {
		Rows template.HTML
		Map  mapview.Snapshot
	}{rows, h.view.Snapshot()}); err != nil {
		h.log.WithError(err).Error("rendering page")
	}
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.tracker.Workouts())
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	var in workout.Input
	if !h.decode(w, r, &in) {
		return
	}
	rec, err := h.tracker.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type editForm struct {
	ID    string        `json:"id"`
	Input workout.Input `json:"input"`
}

func (h *Handler) startEdit(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.tracker.StartEdit(r.PathValue("id"))
	if !ok {
		h.writeError(w, collection.ErrNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, editForm{ID: rec.ID, Input: rec.Input()})
}

func (h *Handler) focus(w http.ResponseWriter, r *http.Request) {
	if !h.tracker.Focus(r.PathValue("id")) {
		h.writeError(w, collection.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submitEdit(w http.ResponseWriter, r *http.Request) {
	var in workout.Input
	if !h.decode(w, r, &in) {
		return
	}
	rec, err := h.tracker.SubmitEdit(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) cancelEdit(w http.ResponseWriter, r *http.Request) {
	h.tracker.CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mapState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.view.Snapshot())
}

func (h *Handler) markers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.view.Snapshot().Markers)
}

func (h *Handler) mapClick(w http.ResponseWriter, r *http.Request) {
	var c workout.Coords
	if !h.decode(w, r, &c) {
		return
	}
	if err := h.tracker.OpenCreateForm(c); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) cancelCreate(w http.ResponseWriter, r *http.Request) {
	h.tracker.CancelCreate()
	w.WriteHeader(http.StatusNoContent)
}

type state struct {
	MapReady   bool            `json:"mapReady"`
	Editing    string          `json:"editing,omitempty"`
	CreateForm *workout.Coords `json:"createForm,omitempty"`
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	s := state{MapReady: h.tracker.MapAvailable()}
	_, s.Editing = h.tracker.EditState()
	if c, ok := h.tracker.CreateFormOpen(); ok {
		s.CreateForm = &c
	}
	h.writeJSON(w, http.StatusOK, s)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	h.tracker.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, totals.Compute(h.tracker.Workouts()))
}

func (h *Handler) drainNotices(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.notices.Drain())
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workout.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, collection.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrNoActiveEdit),
		errors.Is(err, tracker.ErrNoCreateForm),
		errors.Is(err, tracker.ErrMapUnavailable):
		status = http.StatusConflict
	default:
		h.log.WithError(err).Error("handling workout request")
	}
	h.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("encoding response")
	}
}
