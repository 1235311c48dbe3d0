package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"surveystudio/internal/editor"
	"surveystudio/internal/model"
	"surveystudio/internal/scoring"
	"surveystudio/internal/service"
	"surveystudio/internal/transport/rest/middleware"
)

// EditorHandler handles the authoring endpoints of an open survey session.
// Every route operates on the session held by the editor service; the
// response carries the session state the client needs to redraw.
type EditorHandler struct {
	editorSvc *service.EditorService
}

// NewEditorHandler creates a new editor handler
func NewEditorHandler(editorSvc *service.EditorService) *EditorHandler {
	return &EditorHandler{editorSvc: editorSvc}
}

type conditionView struct {
	ID           string   `json:"id"`
	Points       float64  `json:"points"`
	Min          *float64 `json:"min"`
	Max          *float64 `json:"max"`
	CatchAll     bool     `json:"catchAll"`
	RangeEnabled bool     `json:"rangeEnabled"`
	Invalid      bool     `json:"invalid"`
	Reason       string   `json:"reason,omitempty"`
}

type fieldView struct {
	Type       model.ResponseType `json:"type"`
	Conditions []conditionView    `json:"conditions"`
}

type widgetView struct {
	ID         string            `json:"id"`
	Type       model.ElementType `json:"type"`
	Text       string            `json:"text"`
	Points     float64           `json:"points"`
	Attributes []model.Attribute `json:"attributes"`
	Fields     []fieldView       `json:"fields,omitempty"`
}

type ruleView struct {
	Attribute     model.Attribute `json:"attribute"`
	Levels        []string        `json:"levels"`
	ScoredOnTotal bool            `json:"scoredOnTotal"`
	ShowPoints    bool            `json:"showPoints"`
	TotalPoints   float64         `json:"totalPoints"`
	Percentages   []float64       `json:"percentages"`
	Absolutes     []float64       `json:"absolutes"`
}

type sessionView struct {
	SurveyID   string            `json:"surveyId"`
	Name       string            `json:"name"`
	Type       model.SurveyType  `json:"type"`
	Totals     scoring.Totals    `json:"totals"`
	Attributes []model.Attribute `json:"attributes"`
	Rules      []ruleView        `json:"rules"`
	Widgets    []widgetView      `json:"widgets"`
	LoadErrors []string          `json:"loadErrors,omitempty"`
}

func pathInt(vars map[string]string, key string) (int, bool) {
	n, err := strconv.Atoi(vars[key])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func newConditionView(c *scoring.RangeCondition) conditionView {
	return conditionView{
		ID:           c.ID(),
		Points:       c.Points,
		Min:          c.Min,
		Max:          c.Max,
		CatchAll:     c.CatchAll,
		RangeEnabled: c.RangeEnabled(),
		Invalid:      c.Invalid(),
		Reason:       c.InvalidReason(),
	}
}

func newWidgetView(w editor.Widget) widgetView {
	view := widgetView{
		ID:         w.ID(),
		Type:       w.Type(),
		Text:       w.Text(),
		Points:     w.PossibleTotalPoints(),
		Attributes: w.ScoringAttributes(),
	}
	if fr, ok := w.(*editor.FreeResponseWidget); ok {
		for _, rs := range fr.RangeSets() {
			fv := fieldView{Type: rs.ResponseType()}
			for _, c := range rs.Conditions() {
				fv.Conditions = append(fv.Conditions, newConditionView(c))
			}
			view.Fields = append(view.Fields, fv)
		}
	}
	return view
}

func newRuleView(r *scoring.Rule) ruleView {
	return ruleView{
		Attribute:     r.Attribute(),
		Levels:        r.Attribute().Levels(),
		ScoredOnTotal: r.ScoredOnTotal(),
		ShowPoints:    r.ShowPoints(),
		TotalPoints:   r.TotalPoints(),
		Percentages:   r.Percentages(),
		Absolutes:     r.Absolutes(),
	}
}

func newSessionView(s *editor.Session) sessionView {
	survey := s.Survey()
	view := sessionView{
		SurveyID:   survey.ID,
		Name:       survey.Name,
		Type:       survey.Type,
		Totals:     s.Totals(),
		Attributes: s.Rules().SelectedAttributes(),
	}
	for _, r := range s.Rules().Rules() {
		view.Rules = append(view.Rules, newRuleView(r))
	}
	for _, w := range s.Widgets() {
		view.Widgets = append(view.Widgets, newWidgetView(w))
	}
	for _, le := range s.LoadErrors() {
		view.LoadErrors = append(view.LoadErrors, le.Error())
	}
	return view
}

// writeEditorError maps service and editor errors onto HTTP statuses.
func writeEditorError(w http.ResponseWriter, err error) {
	var le *editor.LoadError
	switch {
	case errors.Is(err, service.ErrSurveyNotFound),
		errors.Is(err, service.ErrNoOpenSession),
		errors.Is(err, editor.ErrNoSuchElement),
		errors.Is(err, editor.ErrNoSuchRule),
		errors.Is(err, scoring.ErrNoSuchCondition):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSurveyLocked):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, editor.ErrNotScored),
		errors.Is(err, scoring.ErrInvalidNumber),
		errors.Is(err, scoring.ErrBadThresholds),
		errors.As(err, &le):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// sessionResponse runs one operation and answers with the refreshed
// session state.
func (h *EditorHandler) sessionResponse(w http.ResponseWriter, surveyID string, fn func(*editor.Session) error) {
	var view sessionView
	err := h.editorSvc.Do(surveyID, func(s *editor.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = newSessionView(s)
		return nil
	})
	if err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Open handles POST /v1/surveys/{surveyId}/edit
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	authorID := middleware.GetAuthorID(r.Context())

	session, err := h.editorSvc.Open(r.Context(), surveyID, authorID)
	if err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(session))
}

// Close handles DELETE /v1/surveys/{surveyId}/edit
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	if err := h.editorSvc.Close(r.Context(), surveyID); err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"surveyId": surveyID})
}

// Save handles POST /v1/surveys/{surveyId}/edit/save
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	surveyID := mux.Vars(r)["surveyId"]
	if err := h.editorSvc.Save(r.Context(), surveyID); err != nil {
		writeEditorError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"surveyId": surveyID})
}

// State handles GET /v1/surveys/{surveyId}/edit
func (h *EditorHandler) State(w http.ResponseWriter, r *http.Request) {
	h.sessionResponse(w, mux.Vars(r)["surveyId"], func(*editor.Session) error { return nil })
}

// AddPageRequest is the request body for adding a page
type AddPageRequest struct {
	Name string `json:"name"`
}

// AddPage handles POST /v1/surveys/{surveyId}/edit/pages
func (h *EditorHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	var req AddPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.sessionResponse(w, mux.Vars(r)["surveyId"], func(s *editor.Session) error {
		name := req.Name
		if name == "" {
			name = fmt.Sprintf("Page %d", len(s.Survey().Pages)+1)
		}
		s.AddPage(name)
		return nil
	})
}

// AddElementRequest is the request body for adding an element
type AddElementRequest struct {
	Page int               `json:"page"`
	Type model.ElementType `json:"type"`
}

// AddElement handles POST /v1/surveys/{surveyId}/edit/elements
func (h *EditorHandler) AddElement(w http.ResponseWriter, r *http.Request) {
	var req AddElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.sessionResponse(w, mux.Vars(r)["surveyId"], func(s *editor.Session) error {
		_, err := s.AddElement(req.Page, req.Type)
		return err
	})
}

// RemoveElement handles DELETE /v1/surveys/{surveyId}/edit/elements/{elementId}
func (h *EditorHandler) RemoveElement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.RemoveElement(vars["elementId"])
	})
}

// SetElementText handles PUT /v1/surveys/{surveyId}/edit/elements/{elementId}/text
func (h *EditorHandler) SetElementText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetElementText(vars["elementId"], req.Text)
	})
}

// TagQuestion handles PUT /v1/surveys/{surveyId}/edit/elements/{elementId}/attributes
func (h *EditorHandler) TagQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attributes []model.Attribute `json:"attributes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.TagQuestion(vars["elementId"], req.Attributes)
	})
}

// SetWeights handles PUT /v1/surveys/{surveyId}/edit/elements/{elementId}/weights
func (h *EditorHandler) SetWeights(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows [][]float64 `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetAnswerWeights(vars["elementId"], req.Rows)
	})
}

// SetFieldsRequest is the request body for resizing response fields
type SetFieldsRequest struct {
	Count       int                `json:"count"`
	DefaultType model.ResponseType `json:"defaultType"`
}

// SetFields handles PUT /v1/surveys/{surveyId}/edit/elements/{elementId}/fields
func (h *EditorHandler) SetFields(w http.ResponseWriter, r *http.Request) {
	var req SetFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DefaultType == "" {
		req.DefaultType = model.ResponseFreeText
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetResponseFields(vars["elementId"], req.Count, req.DefaultType)
	})
}

// SetFieldType handles PUT /v1/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/type
func (h *EditorHandler) SetFieldType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type model.ResponseType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	field, ok := pathInt(vars, "field")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid field index")
		return
	}
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetResponseFieldType(vars["elementId"], field, req.Type)
	})
}

// AddCondition handles POST /v1/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/conditions
func (h *EditorHandler) AddCondition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	field, ok := pathInt(vars, "field")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid field index")
		return
	}
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		_, err := s.AddRangeCondition(vars["elementId"], field)
		return err
	})
}

// RemoveCondition handles DELETE /v1/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/conditions/{conditionId}
func (h *EditorHandler) RemoveCondition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	field, ok := pathInt(vars, "field")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid field index")
		return
	}
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.RemoveRangeCondition(vars["elementId"], field, vars["conditionId"])
	})
}

// UpdateConditionRequest carries raw author input for one condition. A nil
// field is left untouched; an empty string clears the value.
type UpdateConditionRequest struct {
	Points *string `json:"points"`
	Min    *string `json:"min"`
	Max    *string `json:"max"`
}

// UpdateCondition handles PUT /v1/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/conditions/{conditionId}
func (h *EditorHandler) UpdateCondition(w http.ResponseWriter, r *http.Request) {
	var req UpdateConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	field, ok := pathInt(vars, "field")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid field index")
		return
	}
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		elementID := vars["elementId"]
		conditionID := vars["conditionId"]
		if req.Points != nil {
			if err := s.SetRangePoints(elementID, field, conditionID, *req.Points); err != nil {
				return err
			}
		}
		if req.Min != nil {
			if err := s.SetRangeMin(elementID, field, conditionID, *req.Min); err != nil {
				return err
			}
		}
		if req.Max != nil {
			if err := s.SetRangeMax(elementID, field, conditionID, *req.Max); err != nil {
				return err
			}
		}
		return nil
	})
}

// SelectAttributes handles PUT /v1/surveys/{surveyId}/edit/attributes
func (h *EditorHandler) SelectAttributes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attributes []model.Attribute `json:"attributes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.sessionResponse(w, mux.Vars(r)["surveyId"], func(s *editor.Session) error {
		return s.SelectAttributes(req.Attributes)
	})
}

// SetScoredOnTotal handles PUT /v1/surveys/{surveyId}/edit/rules/{attribute}/scored-on-total
func (h *EditorHandler) SetScoredOnTotal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScoredOnTotal bool `json:"scoredOnTotal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetScoredOnTotal(model.Attribute(vars["attribute"]), req.ScoredOnTotal)
	})
}

// SetThresholds handles PUT /v1/surveys/{surveyId}/edit/rules/{attribute}/thresholds
func (h *EditorHandler) SetThresholds(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percents []float64 `json:"percents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetThresholds(model.Attribute(vars["attribute"]), req.Percents...)
	})
}

// SetShowPoints handles PUT /v1/surveys/{surveyId}/edit/rules/{attribute}/show-points
func (h *EditorHandler) SetShowPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShowPoints bool `json:"showPoints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vars := mux.Vars(r)
	h.sessionResponse(w, vars["surveyId"], func(s *editor.Session) error {
		return s.SetShowPoints(model.Attribute(vars["attribute"]), req.ShowPoints)
	})
}
