package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"surveystudio/internal/service"
	"surveystudio/internal/transport/rest/handler"
	"surveystudio/internal/transport/rest/middleware"
	"surveystudio/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	SurveyService   *service.SurveyService
	QuestionService *service.QuestionService
	EditorService   *service.EditorService
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	editorHandler := handler.NewEditorHandler(c.EditorService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/surveys/{surveyId}", wsHandler.SurveyWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Author routes (require auth)
	authorRoutes := v1.NewRoute().Subrouter()
	authorRoutes.Use(authMW.RequireAuthor)

	authorRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")

	// Question bank routes
	authorRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/questions/{questionId}", questionHandler.Get).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/questions/{questionId}", questionHandler.Update).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/questions/{questionId}", questionHandler.Delete).Methods("DELETE", "OPTIONS")

	// Editing session routes
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit", editorHandler.Open).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit", editorHandler.State).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit", editorHandler.Close).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/save", editorHandler.Save).Methods("POST", "OPTIONS")

	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/pages", editorHandler.AddPage).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements", editorHandler.AddElement).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}", editorHandler.RemoveElement).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/text", editorHandler.SetElementText).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/attributes", editorHandler.TagQuestion).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/weights", editorHandler.SetWeights).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/fields", editorHandler.SetFields).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/type", editorHandler.SetFieldType).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/conditions", editorHandler.AddCondition).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/conditions/{conditionId}", editorHandler.UpdateCondition).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/elements/{elementId}/fields/{field}/conditions/{conditionId}", editorHandler.RemoveCondition).Methods("DELETE", "OPTIONS")

	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/attributes", editorHandler.SelectAttributes).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/rules/{attribute}/scored-on-total", editorHandler.SetScoredOnTotal).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/rules/{attribute}/thresholds", editorHandler.SetThresholds).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/surveys/{surveyId}/edit/rules/{attribute}/show-points", editorHandler.SetShowPoints).Methods("PUT", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
