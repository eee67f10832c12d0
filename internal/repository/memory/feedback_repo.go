package memory

import (
	"context"
	"sync"

	"policeapp/internal/domain/entities"
)

type FeedbackRepository struct {
	mu       sync.RWMutex
	feedback []*entities.Feedback
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *entities.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.feedback = append(r.feedback, f)
	return nil
}

func (r *FeedbackRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Feedback
	for _, f := range r.feedback {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}
