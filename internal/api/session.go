package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/surface"
	"github.com/segap/segap/pkg/survey"
)

type questionView struct {
	Index  int    `json:"index"`
	Number int    `json:"number"`
	Prompt string `json:"prompt"`
	Value  string `json:"value"`
}

type surveyView struct {
	SessionID  string          `json:"session_id,omitempty"`
	State      survey.State    `json:"state"`
	Label      string          `json:"label"` // "Page(n)" or "Completed"
	PageSize   int             `json:"page_size"`
	Progress   string          `json:"progress"`
	CanGoBack  bool            `json:"can_go_back"`
	IsLastPage bool            `json:"is_last_page"`
	Questions  []questionView  `json:"questions"`
	Report     *scoring.Report `json:"report,omitempty"`
}

// view must be called with s.mu held.
func (s *Server) view() surveyView {
	cur, total := s.ctrl.Progress()
	v := surveyView{
		SessionID:  s.sessionID,
		State:      s.ctrl.State(),
		Label:      s.ctrl.State().String(),
		PageSize:   s.ctrl.PageSize(),
		Progress:   fmt.Sprintf("page %d of %d", cur, total),
		CanGoBack:  !s.ctrl.Completed() && s.ctrl.Page() > 0,
		IsLastPage: s.ctrl.IsLastPage(),
		Questions:  []questionView{},
		Report:     s.ctrl.Report(),
	}
	for _, idx := range s.ctrl.PageQuestions() {
		v.Questions = append(v.Questions, questionView{
			Index:  idx,
			Number: idx + 1,
			Prompt: s.questions.Prompt(idx),
			Value:  s.ctrl.Value(idx),
		})
	}
	return v
}

func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.view())
}

// answer is one entered value. Value may be a JSON number or string; it is
// validated only when the page moves forward.
type answer struct {
	Index int `json:"index"`
	Value any `json:"value"`
}

type putAnswersRequest struct {
	Answers []answer `json:"answers"`
}

func (s *Server) handlePutAnswers(w http.ResponseWriter, r *http.Request) {
	var req putAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, http.StatusBadRequest, "answers is required")
		return
	}

	inputs := make([]survey.Input, 0, len(req.Answers))
	for _, a := range req.Answers {
		raw, ok := rawValue(a.Value)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("answer for question %d must be a number or string", a.Index+1))
			return
		}
		inputs = append(inputs, survey.Input{Index: a.Index, Raw: raw})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.EnterAll(inputs); err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view())
}

func rawValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

type validationResponse struct {
	Error      string             `json:"error"`
	Page       int                `json:"page"`
	Violations []survey.Violation `json:"violations"`
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.Forward(); err != nil {
		writeControllerError(w, err)
		return
	}
	if s.ctrl.Completed() {
		s.logger.Info("report ready",
			zap.String("session_id", s.sessionID),
			zap.String("highest_tier", string(s.ctrl.Report().Highest())))
	}
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.Back()
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctrl.Restart()
	writeJSON(w, http.StatusOK, s.view())
}

// handleGetReport renders the completed report. The format query parameter
// selects json (default), text or markdown.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = surface.FormatJSON
	}
	renderer := surface.ForFormat(format, surface.Meta{SessionID: s.sessionID, GeneratedAt: s.now().UTC()})
	if renderer == nil {
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
		return
	}

	s.mu.Lock()
	report := s.ctrl.Report()
	s.mu.Unlock()

	if report == nil {
		writeError(w, http.StatusConflict, "survey is not completed")
		return
	}

	switch strings.ToLower(format) {
	case surface.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case surface.FormatMarkdown, "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if err := renderer.Render(w, report); err != nil {
		s.logger.Error("failed to render report", zap.Error(err))
	}
}

func writeControllerError(w http.ResponseWriter, err error) {
	var verr *survey.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error:      verr.Error(),
			Page:       verr.Page,
			Violations: verr.Violations,
		})
	case errors.Is(err, survey.ErrQuestionNotOnPage), errors.Is(err, survey.ErrSurveyCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
