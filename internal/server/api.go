package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/verte-zerg/flowtype/internal/generator"
	"github.com/verte-zerg/flowtype/internal/model"
	"github.com/verte-zerg/flowtype/internal/store"
)

// TextResponse is the body of GET /api/text.
type TextResponse struct {
	Mode  model.Mode `json:"mode"`
	Words int        `json:"words"`
	Text  string     `json:"text"`
}

// CreateResponse is the body returned after storing a result.
type CreateResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := parseMode(q.Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	count, err := optionalInt(q.Get("count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid count")
		return
	}
	if count > generator.MaxTargetCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be at most %d", generator.MaxTargetCount))
		return
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	text := s.generate(model.GenerationRequest{
		Mode:        mode,
		TargetCount: count,
		CustomText:  q.Get("custom"),
	})
	if limit > 0 {
		text = generator.TakeWords(text, limit)
	}
	writeJSON(w, http.StatusOK, TextResponse{Mode: mode, Words: generator.WordCount(text), Text: text})
}

func (s *Server) handleCreateResult(w http.ResponseWriter, r *http.Request) {
	var rec model.ResultRecord
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.Known(string(rec.Mode)) {
		writeError(w, http.StatusBadRequest, "unknown mode")
		return
	}
	if err := validateResult(rec.Result); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec.Mode = model.ParseMode(string(rec.Mode))
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.EndedAt.Add(-time.Duration(rec.Result.ElapsedSeconds * float64(time.Second)))
	}
	id, err := s.store.InsertResult(r.Context(), rec)
	if err != nil {
		s.log.Errorf("failed to store result: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store result")
		return
	}
	s.log.Infof("stored result %s for %q: %d wpm", id, rec.User, rec.Result.WPM)
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cfg := model.StatsConfig{User: q.Get("user")}
	if m := q.Get("mode"); m != "" {
		mode, err := parseMode(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg.Mode = string(mode)
	}
	if since := q.Get("since"); since != "" {
		t, err := parseSince(since)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since (use YYYY-MM-DD or RFC 3339)")
			return
		}
		cfg.Since = &t
	}
	last, err := optionalInt(q.Get("last"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid last")
		return
	}
	cfg.Last = last

	results, err := s.store.ListResults(r.Context(), cfg)
	if err != nil {
		s.log.Errorf("failed to list results: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if results == nil {
		results = []model.ResultRecord{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetResult(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		s.log.Errorf("failed to get result: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get result")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// validateResult rejects results no finished test can produce.
func validateResult(res model.TestResult) error {
	if res.WPM < 0 || res.RawWPM < 0 {
		return errors.New("wpm must be >= 0")
	}
	if res.CorrectChars < 0 || res.IncorrectChars < 0 || res.TotalChars < 0 {
		return errors.New("character counts must be >= 0")
	}
	if res.CorrectChars+res.IncorrectChars != res.TotalChars {
		return errors.New("correct_chars + incorrect_chars must equal total_chars")
	}
	if res.Accuracy < 0 || res.Accuracy > 100 {
		return errors.New("accuracy must be within 0-100")
	}
	if res.Consistency < 0 || res.Consistency > 100 {
		return errors.New("consistency must be within 0-100")
	}
	if res.ElapsedSeconds < 0 {
		return errors.New("elapsed_seconds must be >= 0")
	}
	return nil
}

func parseMode(s string) (model.Mode, error) {
	if s == "" {
		return model.ModeTime, nil
	}
	if !model.Known(s) {
		return "", errors.New("unknown mode")
	}
	return model.ParseMode(s), nil
}

func parseSince(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid number")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort response.
		_ = err
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
