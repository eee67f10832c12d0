package postgres

import (
	"context"
	"database/sql"

	"policeapp/internal/domain/entities"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *entities.Feedback) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (id, user_id, email, rating, message, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.UserID, f.Email, f.Rating, f.Message, f.CreatedAt)
	return mapError(err)
}

func (r *FeedbackRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Feedback, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, email, rating, message, created_at
         FROM feedback WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entities.Feedback
	for rows.Next() {
		var f entities.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.Email, &f.Rating, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
