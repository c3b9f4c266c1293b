// Package listview renders the workout list shown beside the map.
package listview

import (
	"bytes"
	"html/template"
	"strconv"
	"sync"

	"github.com/lildude/mapty/internal/workout"
)

var rowTmpl = template.Must(template.New("row").Parse(`<li class="workout workout--{{.Kind}}" id="{{.ID}}" data-id="{{.ID}}">
  <h2 class="workout__title">{{.Description}}</h2>
  <div class="workout__details">
    <span class="workout__icon">{{.Icon}}</span>
    <span class="workout__value--distance">{{.Distance}}</span>
    <span class="workout__unit">km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⏱</span>
    <span class="workout__value--duration">{{.Duration}}</span>
    <span class="workout__unit">min</span>
  </div>
{{- if eq .Kind "running"}}
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value--pace">{{.Metric}}</span>
    <span class="workout__unit">min/km</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">🦶🏼</span>
    <span class="workout__value--cadence">{{.Extra}}</span>
    <span class="workout__unit">spm</span>
  </div>
{{- else}}
  <div class="workout__details">
    <span class="workout__icon">⚡️</span>
    <span class="workout__value--speed">{{.Metric}}</span>
    <span class="workout__unit">km/h</span>
  </div>
  <div class="workout__details">
    <span class="workout__icon">⛰</span>
    <span class="workout__value--elevation">{{.Extra}}</span>
    <span class="workout__unit">m</span>
  </div>
{{- end}}
  <button class="edit__btn" data-id="{{.ID}}">Edit Workout</button>
  <button class="delete__btn" data-id="{{.ID}}">Delete</button>
</li>
`))

// row is the view model behind one list item.
type row struct {
	ID          string
	Kind        workout.Kind
	Description string
	Icon        string
	Distance    string
	Duration    string
	Metric      string
	Extra       string
}

func (r *row) setValues(w workout.Record) {
	r.Distance = formatNum(w.DistanceKm)
	r.Duration = formatNum(w.DurationMin)
	r.Metric = strconv.FormatFloat(w.Metric(), 'f', 1, 64)
	switch {
	case w.Running != nil:
		r.Extra = strconv.Itoa(w.Running.CadenceSpm)
	case w.Cycling != nil:
		r.Extra = formatNum(w.Cycling.ElevationGainM)
	}
}

func newRow(w workout.Record) *row {
	r := &row{ID: w.ID, Kind: w.Kind, Description: w.Description, Icon: workout.Icon(w.Kind)}
	r.setValues(w)
	return r
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// List keeps rendered rows, newest first. It is safe for concurrent use.
type List struct {
	mu   sync.RWMutex
	rows []*row
}

// New returns an empty list.
func New() *List {
	return &List{}
}

func (l *List) index(id string) int {
	for i, r := range l.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// RenderRow inserts a row for w at the top of the list.
func (l *List) RenderRow(w workout.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(w.ID); i >= 0 {
		l.rows[i] = newRow(w)
		return
	}
	l.rows = append([]*row{newRow(w)}, l.rows...)
}

// ReplaceRow re-renders the row for w in place, including its kind-specific
// fields and title.
func (l *List) ReplaceRow(w workout.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(w.ID); i >= 0 {
		l.rows[i] = newRow(w)
	}
}

// UpdateRowValues refreshes the numeric values of an existing row. The title,
// icon and kind-specific layout are left as rendered.
func (l *List) UpdateRowValues(w workout.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(w.ID); i >= 0 {
		l.rows[i].setValues(w)
	}
}

// RemoveRow drops the row for id, if present.
func (l *List) RemoveRow(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		l.rows = append(l.rows[:i], l.rows[i+1:]...)
	}
}

// Clear removes every row.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = nil
}

// IDs returns row IDs in display order.
func (l *List) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, len(l.rows))
	for i, r := range l.rows {
		ids[i] = r.ID
	}
	return ids
}

// HTML renders every row.
func (l *List) HTML() (template.HTML, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var buf bytes.Buffer
	for _, r := range l.rows {
		if err := rowTmpl.Execute(&buf, r); err != nil {
			return "", err
		}
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}
