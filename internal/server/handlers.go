package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/chart/svg"
	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// createWorkoutRequest is a workout form submission. Numbers arrive as typed
// and are coerced by models.ParseExercise.
type createWorkoutRequest struct {
	Location       string                 `json:"location"`
	Mode           string                 `json:"mode"`
	DateTimeISO    string                 `json:"dateTimeISO"`
	TrainingType   string                 `json:"trainingType"`
	SpecificMuscle string                 `json:"specificMuscle"`
	Equipment      []string               `json:"equipment"`
	Exercises      []models.ExerciseInput `json:"exercises"`
}

// draft builds a finalized workout. Mode "now" stamps the workout with now;
// "record" requires dateTimeISO.
func (req createWorkoutRequest) draft(now time.Time) (models.Workout, error) {
	d := models.NewDraft(now)

	var err error
	if d.Location, err = models.ParseLocation(req.Location); err != nil {
		return models.Workout{}, err
	}
	if d.Mode, err = models.ParseMode(req.Mode); err != nil {
		return models.Workout{}, err
	}
	if d.Mode == models.ModeRecord {
		if req.DateTimeISO == "" {
			return models.Workout{}, errors.New("dateTimeISO is required for recorded workouts")
		}
		if d.Timestamp, err = time.Parse(time.RFC3339, req.DateTimeISO); err != nil {
			return models.Workout{}, err
		}
	}
	d.TrainingType = req.TrainingType
	d.SpecificMuscle = req.SpecificMuscle
	d.Equipment = req.Equipment

	for _, in := range req.Exercises {
		ex, err := models.ParseExercise(in)
		if err != nil {
			return models.Workout{}, err
		}
		d = d.AddExercise(ex)
	}
	return d.Finalize()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, history.Recent(s.sess.History()))
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	workout, err := req.draft(time.Now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := s.sess.Append(r.Context(), workout); err != nil {
		if errors.Is(err, session.ErrDuplicateID) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("append workout", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sess.Remove(r.Context(), id); err != nil {
		s.log.Error("remove workout", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlphaIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha ingest error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ix.Catalog(s.sess.History()))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ix.Suggestions(s.sess.History()))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, history.Summarize(s.sess.History(), name))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, history.Series(s.sess.History(), name))
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	name, ok := requireName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, history.Volume(s.sess.History(), name))
}

func (s *Server) handleParseExercise(w http.ResponseWriter, r *http.Request) {
	var in models.ExerciseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	ex, err := models.ParseExercise(in)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// plan renders the chart for the name query parameter. An empty name gives
// the placeholder plan.
func (s *Server) plan(r *http.Request) chart.Plan {
	name := r.URL.Query().Get("name")
	return chart.Render(history.Series(s.sess.History(), name), name, s.vp)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.plan(r))
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := svg.Encode(&buf, s.plan(r)); err != nil {
		s.log.Error("svg encode", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, s.sess.History(), s.ix, s.vp.Location); err != nil {
		s.log.Error("xlsx export", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="liftlog.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func requireName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return "", false
	}
	return name, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
