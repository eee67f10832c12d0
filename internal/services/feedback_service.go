package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"policeapp/internal/domain/entities"
	"policeapp/internal/repository"
	"policeapp/pkg/utils"
)

type FeedbackService struct {
	feedback repository.FeedbackRepository
	users    repository.UserRepository
	log      *zap.Logger
}

func NewFeedbackService(feedback repository.FeedbackRepository, users repository.UserRepository, log *zap.Logger) *FeedbackService {
	return &FeedbackService{feedback: feedback, users: users, log: log}
}

// Submit stores a rating from 1 to 5 with an optional message. The email is
// taken from the account, not from the request.
func (s *FeedbackService) Submit(ctx context.Context, userID int64, rating int, message string) (*entities.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	fb := entities.NewFeedback(utils.GenerateID(), userID, user.Email, rating, strings.TrimSpace(message))
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, err
	}
	s.log.Info("feedback_submitted", zap.Int64("user_id", userID), zap.Int("rating", rating))
	return fb, nil
}

func (s *FeedbackService) ListMine(ctx context.Context, userID int64) ([]*entities.Feedback, error) {
	return s.feedback.ListByUser(ctx, userID)
}

