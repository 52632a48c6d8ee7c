package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/interview-scorer/internal/config"
	"github.com/fairyhunter13/interview-scorer/internal/domain"
	"github.com/fairyhunter13/interview-scorer/internal/usecase"
)

// Server aggregates handlers dependencies.
type Server struct {
	Cfg   config.Config
	Score usecase.ScoreService
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, score usecase.ScoreService) *Server {
	return &Server{Cfg: cfg, Score: score}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type scoreRequestDTO struct {
	Question        string               `json:"question" validate:"max=2000"`
	QuestionID      string               `json:"question_id" validate:"max=100"`
	Transcript      string               `json:"transcript" validate:"required"`
	DurationSeconds int                  `json:"duration_seconds" validate:"gte=0"`
	History         []any                `json:"history"`
	VideoMetrics    *domain.VideoMetrics `json:"video_metrics"`
}

// ScoreHandler scores one answer synchronously.
func (s *Server) ScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Accept negotiation: only JSON responses supported
		if a := r.Header.Get("Accept"); a != "" && a != "*/*" && !strings.Contains(a, "application/json") {
			writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a},
			}})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxTranscriptBytes)
		var req scoreRequestDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			verrs := map[string]string{}
			if ve, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range ve {
					verrs[strings.ToLower(fe.Field())] = fe.Tag()
				}
			}
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
			return
		}
		result, err := s.Score.Score(r.Context(), domain.ScoreRequest{
			Question:        req.Question,
			QuestionID:      req.QuestionID,
			Transcript:      req.Transcript,
			DurationSeconds: req.DurationSeconds,
			History:         req.History,
			Video:           req.VideoMetrics,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyzHandler reports readiness of the scoring service.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := s.Score.Readiness(r.Context())
		ok := true
		for _, c := range checks {
			if !c.OK {
				ok = false
				break
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
