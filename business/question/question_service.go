package question

import (
	"context"
	"fmt"
	"strings"

	"wildNest/domain"
	"wildNest/pkg/logger"
)

const (
	minOptionWeight = 0.10
	maxOptionWeight = 2.00
)

// QuestionRepository contract interface
type QuestionRepository interface {
	Create(ctx context.Context, question *domain.Question) error
	FindByID(ctx context.Context, id uint64) (domain.Question, error)
	// FindAll preloads options. activeOnly filters both questions and options.
	FindAll(ctx context.Context, activeOnly bool) ([]domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id uint64) error
	SetStatus(ctx context.Context, ids []uint64, active bool) error
}

// OptionRepository contract interface
type OptionRepository interface {
	Create(ctx context.Context, option *domain.Option) error
	FindByID(ctx context.Context, id uint64) (domain.Option, error)
	FindByQuestionID(ctx context.Context, questionID uint64) ([]domain.Option, error)
	Update(ctx context.Context, option *domain.Option) error
	Delete(ctx context.Context, id uint64) error
	SetStatus(ctx context.Context, ids []uint64, active bool) error
}

type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

type questionService struct {
	questionRepo QuestionRepository
	optionRepo   OptionRepository
	catalog      CatalogInvalidator
}

func NewQuestionService(questionRepo QuestionRepository, optionRepo OptionRepository, catalog CatalogInvalidator) *questionService {
	return &questionService{
		questionRepo: questionRepo,
		optionRepo:   optionRepo,
		catalog:      catalog,
	}
}

func (s *questionService) invalidate(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		logger.Warn("failed to invalidate catalog cache", err)
	}
}

func validateQuestion(q *domain.Question) error {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return domain.ErrQuestionTitleRequired
	}
	if q.QuestionType == "" {
		q.QuestionType = domain.QuestionTypeSingle
	}
	if q.QuestionType != domain.QuestionTypeSingle && q.QuestionType != domain.QuestionTypeMultiple {
		return domain.ErrInvalidQuestionType
	}
	return nil
}

func validateOption(o *domain.Option) error {
	o.Content = strings.TrimSpace(o.Content)
	if o.Content == "" {
		return domain.ErrOptionContentRequired
	}
	if o.QuestionID == 0 {
		return domain.ErrInvalidID
	}
	if o.WeightValue != nil && (*o.WeightValue < minOptionWeight || *o.WeightValue > maxOptionWeight) {
		return domain.ErrInvalidOptionWeight
	}
	o.TagKeywords = domain.JoinTags(domain.SplitTags(o.TagKeywords))
	return nil
}

// GetQuiz returns the active questions with their active options, in
// display order.
func (s *questionService) GetQuiz(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get quiz")
		return nil, fmt.Errorf("context error: %w", err)
	}

	questions, err := s.questionRepo.FindAll(ctx, true)
	if err != nil {
		logger.Error("Failed to find active questions", err)
		return nil, err
	}

	return questions, nil
}

func (s *questionService) GetAllQuestions(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	questions, err := s.questionRepo.FindAll(ctx, false)
	if err != nil {
		logger.Error("Failed to find all questions", err)
		return nil, err
	}

	return questions, nil
}

func (s *questionService) GetQuestionByID(ctx context.Context, id uint64) (domain.Question, error) {
	if id == 0 {
		return domain.Question{}, domain.ErrInvalidID
	}

	question, err := s.questionRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find question", err)
		return domain.Question{}, err
	}

	return question, nil
}

func (s *questionService) CreateQuestion(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create question")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateQuestion(question); err != nil {
		logger.Error("Invalid question data", err)
		return nil, err
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		logger.Error("failed to create new question", err)
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	logger.Info("question created successfully", "question_id", question.ID)

	return question, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if question.ID == 0 {
		return nil, domain.ErrInvalidID
	}

	if err := validateQuestion(question); err != nil {
		logger.Error("Invalid question data", err)
		return nil, err
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		logger.Error("failed to update question", err)
		return nil, err
	}

	updated, err := s.questionRepo.FindByID(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated question: %w", err)
	}

	logger.Info("question updated successfully", "question_id", question.ID)

	return &updated, nil
}

// DeleteQuestion removes the question and, through the foreign key, its
// options.
func (s *questionService) DeleteQuestion(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete question", err)
		return err
	}

	s.invalidate(ctx)
	logger.Info("question deleted successfully", "question_id", id)

	return nil
}

func (s *questionService) SetQuestionStatus(ctx context.Context, ids []uint64, active bool) error {
	if len(ids) == 0 {
		return domain.ErrInvalidID
	}

	if err := s.questionRepo.SetStatus(ctx, ids, active); err != nil {
		logger.Error("failed to update question status", err)
		return err
	}

	return nil
}

func (s *questionService) GetOptions(ctx context.Context, questionID uint64) ([]domain.Option, error) {
	if questionID == 0 {
		return nil, domain.ErrInvalidID
	}

	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		return nil, err
	}

	options, err := s.optionRepo.FindByQuestionID(ctx, questionID)
	if err != nil {
		logger.Error("Failed to find options", err)
		return nil, err
	}

	return options, nil
}

func (s *questionService) CreateOption(ctx context.Context, option *domain.Option) (*domain.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := validateOption(option); err != nil {
		logger.Error("Invalid option data", err)
		return nil, err
	}

	if _, err := s.questionRepo.FindByID(ctx, option.QuestionID); err != nil {
		logger.Error("question not found for option", err)
		return nil, err
	}

	if err := s.optionRepo.Create(ctx, option); err != nil {
		logger.Error("failed to create new option", err)
		return nil, fmt.Errorf("failed to create option: %w", err)
	}

	s.invalidate(ctx)
	logger.Info("option created successfully", "option_id", option.ID)

	return option, nil
}

func (s *questionService) UpdateOption(ctx context.Context, option *domain.Option) (*domain.Option, error) {
	if option.ID == 0 {
		return nil, domain.ErrInvalidID
	}

	if err := validateOption(option); err != nil {
		logger.Error("Invalid option data", err)
		return nil, err
	}

	if _, err := s.questionRepo.FindByID(ctx, option.QuestionID); err != nil {
		return nil, err
	}

	if err := s.optionRepo.Update(ctx, option); err != nil {
		logger.Error("failed to update option", err)
		return nil, err
	}

	updated, err := s.optionRepo.FindByID(ctx, option.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated option: %w", err)
	}

	s.invalidate(ctx)

	return &updated, nil
}

func (s *questionService) DeleteOption(ctx context.Context, id uint64) error {
	if id == 0 {
		return domain.ErrInvalidID
	}

	if err := s.optionRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete option", err)
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *questionService) SetOptionStatus(ctx context.Context, ids []uint64, active bool) error {
	if len(ids) == 0 {
		return domain.ErrInvalidID
	}

	if err := s.optionRepo.SetStatus(ctx, ids, active); err != nil {
		logger.Error("failed to update option status", err)
		return err
	}

	s.invalidate(ctx)
	return nil
}
