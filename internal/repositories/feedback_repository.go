package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	f.Prepare()

	query := `
		INSERT INTO feedback (id, user_id, entity_type, entity_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		f.ID,
		f.UserID,
		f.EntityType,
		f.EntityID,
		f.Rating,
		f.Comment,
		f.CreatedAt,
	)
	return translate(err)
}

// ListForEntity returns feedback newest first. A nil entityID selects rows
// without an entity (general feedback).
func (r *FeedbackRepository) ListForEntity(ctx context.Context, entityType string, entityID *uuid.UUID, limit int) ([]models.Feedback, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, entity_type, entity_id, rating, comment, created_at
		FROM feedback
		WHERE entity_type = $1 AND entity_id IS NOT DISTINCT FROM $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.UserID, &f.EntityType, &f.EntityID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// RatingCounts returns how many ratings of each value an entity received.
func (r *FeedbackRepository) RatingCounts(ctx context.Context, entityType string, entityID *uuid.UUID) (map[int]int, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM feedback
		WHERE entity_type = $1 AND entity_id IS NOT DISTINCT FROM $2
		GROUP BY rating
	`

	rows, err := r.pool.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[int]int{}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		counts[rating] = count
	}
	return counts, rows.Err()
}

func (r *FeedbackRepository) CreateSuggestion(ctx context.Context, s *models.Suggestion) error {
	s.Prepare()

	query := `
		INSERT INTO improvement_suggestions (id, user_id, category, title, description, status, upvotes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.Category,
		s.Title,
		s.Description,
		s.Status,
		s.Upvotes,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return translate(err)
}

const suggestionColumns = `id, user_id, category, title, description, status, upvotes, created_at, updated_at`

func scanSuggestion(row pgx.Row) (models.Suggestion, error) {
	var s models.Suggestion
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Category,
		&s.Title,
		&s.Description,
		&s.Status,
		&s.Upvotes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *FeedbackRepository) GetSuggestion(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	s, err := scanSuggestion(r.pool.QueryRow(ctx, "SELECT "+suggestionColumns+" FROM improvement_suggestions WHERE id = $1", id))
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// ListSuggestions orders by upvotes, then newest first. An empty status
// lists all.
func (r *FeedbackRepository) ListSuggestions(ctx context.Context, status string) ([]models.Suggestion, error) {
	query := "SELECT " + suggestionColumns + ` FROM improvement_suggestions
		WHERE ($1 = '' OR status = $1)
		ORDER BY upvotes DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Suggestion{}
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Upvote records one vote per user. It returns the suggestion's current
// vote count and whether this call added a vote.
func (r *FeedbackRepository) Upvote(ctx context.Context, suggestionID, userID uuid.UUID) (int, bool, error) {
	var (
		upvotes int
		added   bool
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO suggestion_votes (suggestion_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, suggestionID, userID)
		if err != nil {
			return translate(err)
		}
		added = tag.RowsAffected() == 1

		query := `SELECT upvotes FROM improvement_suggestions WHERE id = $1`
		if added {
			query = `UPDATE improvement_suggestions SET upvotes = upvotes + 1, updated_at = NOW()
				WHERE id = $1 RETURNING upvotes`
		}
		return translate(tx.QueryRow(ctx, query, suggestionID).Scan(&upvotes))
	})
	return upvotes, added, err
}

func (r *FeedbackRepository) UpdateSuggestionStatus(ctx context.Context, id uuid.UUID, status string) (*models.Suggestion, error) {
	query := `UPDATE improvement_suggestions SET status = $2, updated_at = NOW()
		WHERE id = $1 RETURNING ` + suggestionColumns

	s, err := scanSuggestion(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}
