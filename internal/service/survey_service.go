package service

import (
	"context"
	"log"

	"surveystudio/internal/cache"
	"surveystudio/internal/model"
	"surveystudio/internal/repository"
)

// SurveyService handles survey CRUD operations, with a read-through cache
// in front of MongoDB.
type SurveyService struct {
	surveyRepo  repository.SurveyRepo
	surveyCache cache.SurveyCache
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo, surveyCache cache.SurveyCache) *SurveyService {
	return &SurveyService{
		surveyRepo:  surveyRepo,
		surveyCache: surveyCache,
	}
}

// Create creates a new survey
func (s *SurveyService) Create(ctx context.Context, survey *model.Survey) (string, error) {
	return s.surveyRepo.Create(ctx, survey)
}

// GetByID retrieves a survey by ID
func (s *SurveyService) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.surveyCache.Get(ctx, id)
	if err != nil {
		log.Printf("survey cache get %s: %v", id, err)
	}
	if survey != nil {
		return survey, nil
	}

	survey, err = s.surveyRepo.GetByID(ctx, id)
	if err != nil || survey == nil {
		return survey, err
	}
	if err := s.surveyCache.Set(ctx, survey); err != nil {
		log.Printf("survey cache set %s: %v", id, err)
	}
	return survey, nil
}

// GetByOwnerID retrieves all surveys for an author
func (s *SurveyService) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByOwnerID(ctx, ownerID)
}

// Update updates an existing survey and invalidates its cache entry
func (s *SurveyService) Update(ctx context.Context, survey *model.Survey) error {
	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return err
	}
	if err := s.surveyCache.Delete(ctx, survey.ID); err != nil {
		log.Printf("survey cache delete %s: %v", survey.ID, err)
	}
	return nil
}

// Delete deletes a survey
func (s *SurveyService) Delete(ctx context.Context, id string) error {
	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.surveyCache.Delete(ctx, id); err != nil {
		log.Printf("survey cache delete %s: %v", id, err)
	}
	return nil
}
