package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"surveystudio/internal/model"
	"surveystudio/internal/service"
	"surveystudio/internal/transport/rest/middleware"
)

// QuestionHandler handles question bank endpoints
type QuestionHandler struct {
	questionSvc *service.QuestionService
}

// NewQuestionHandler creates a new question bank handler
func NewQuestionHandler(questionSvc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// Create handles POST /v1/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	authorID := middleware.GetAuthorID(r.Context())
	if authorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var question model.BankQuestion
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !question.Type.Valid() {
		writeError(w, http.StatusBadRequest, "unknown question type")
		return
	}
	question.ID = ""
	question.OwnerID = authorID

	id, err := h.questionSvc.Create(r.Context(), &question)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"questionId": id})
}

// List handles GET /v1/questions, optionally filtered by ?type=
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	authorID := middleware.GetAuthorID(r.Context())
	if authorID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if t := r.URL.Query().Get("type"); t != "" {
		questions, err := h.questionSvc.GetByType(r.Context(), model.ElementType(t))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
		return
	}

	questions, err := h.questionSvc.GetByOwnerID(r.Context(), authorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// Get handles GET /v1/questions/{questionId}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	question, err := h.questionSvc.GetByID(r.Context(), questionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Update handles PUT /v1/questions/{questionId}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	existing, err := h.questionSvc.GetByID(r.Context(), questionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	if existing.OwnerID != middleware.GetAuthorID(r.Context()) {
		writeError(w, http.StatusForbidden, "question belongs to another author")
		return
	}

	var question model.BankQuestion
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !question.Type.Valid() {
		writeError(w, http.StatusBadRequest, "unknown question type")
		return
	}
	question.ID = questionID
	question.OwnerID = existing.OwnerID

	if err := h.questionSvc.Update(r.Context(), &question); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Delete handles DELETE /v1/questions/{questionId}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	question, err := h.questionSvc.GetByID(r.Context(), questionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	if question.OwnerID != middleware.GetAuthorID(r.Context()) {
		writeError(w, http.StatusForbidden, "question belongs to another author")
		return
	}

	if err := h.questionSvc.Delete(r.Context(), questionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"questionId": questionID})
}
