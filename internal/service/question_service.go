package service

import (
	"context"

	"surveystudio/internal/model"
	"surveystudio/internal/repository"
)

// QuestionService handles question bank operations
type QuestionService struct {
	questionRepo repository.QuestionRepo
}

// NewQuestionService creates a new question bank service
func NewQuestionService(questionRepo repository.QuestionRepo) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
	}
}

// Create adds a question to the bank
func (s *QuestionService) Create(ctx context.Context, question *model.BankQuestion) (string, error) {
	return s.questionRepo.Create(ctx, question)
}

// GetByID retrieves a bank question by ID
func (s *QuestionService) GetByID(ctx context.Context, id string) (*model.BankQuestion, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// GetByOwnerID retrieves an author's bank questions
func (s *QuestionService) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.BankQuestion, error) {
	return s.questionRepo.GetByOwnerID(ctx, ownerID)
}

// GetByType retrieves bank questions of one element type
func (s *QuestionService) GetByType(ctx context.Context, t model.ElementType) ([]*model.BankQuestion, error) {
	return s.questionRepo.GetByType(ctx, t)
}

// Update updates a bank question
func (s *QuestionService) Update(ctx context.Context, question *model.BankQuestion) error {
	return s.questionRepo.Update(ctx, question)
}

// Delete removes a question from the bank
func (s *QuestionService) Delete(ctx context.Context, id string) error {
	return s.questionRepo.Delete(ctx, id)
}
