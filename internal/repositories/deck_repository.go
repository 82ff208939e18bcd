package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

type DeckRepository struct {
	pool *pgxpool.Pool
}

func NewDeckRepository(pool *pgxpool.Pool) *DeckRepository {
	return &DeckRepository{pool: pool}
}

func (r *DeckRepository) Create(ctx context.Context, d *models.Deck) error {
	d.Prepare()

	query := `
		INSERT INTO decks (id, owner_id, company_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query, d.ID, d.OwnerID, d.CompanyID, d.Title, d.CreatedAt, d.UpdatedAt)
	return translate(err)
}

func (r *DeckRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Deck, error) {
	query := `
		SELECT id, owner_id, company_id, title, created_at, updated_at
		FROM decks WHERE owner_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := []models.Deck{}
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.CompanyID, &d.Title, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *DeckRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Deck, error) {
	query := `
		SELECT id, owner_id, company_id, title, created_at, updated_at
		FROM decks WHERE id = $1 AND owner_id = $2
	`

	var d models.Deck
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(&d.ID, &d.OwnerID, &d.CompanyID, &d.Title, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *DeckRepository) ListSlides(ctx context.Context, deckID uuid.UUID) ([]models.Slide, error) {
	query := `
		SELECT id, deck_id, position, kind, title, body, width, height
		FROM deck_slides WHERE deck_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slides := []models.Slide{}
	for rows.Next() {
		var s models.Slide
		if err := rows.Scan(&s.ID, &s.DeckID, &s.Position, &s.Kind, &s.Title, &s.Body, &s.Width, &s.Height); err != nil {
			return nil, err
		}
		slides = append(slides, s)
	}
	return slides, rows.Err()
}

// AddSlide appends the slide after the deck's last position.
func (r *DeckRepository) AddSlide(ctx context.Context, s *models.Slide) error {
	s.Prepare()

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock the deck row so concurrent appends get distinct positions.
		if err := lockDeck(ctx, tx, s.DeckID); err != nil {
			return err
		}

		query := `
			INSERT INTO deck_slides (id, deck_id, position, kind, title, body, width, height)
			VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM deck_slides WHERE deck_id = $2), $3, $4, $5, $6, $7)
			RETURNING position
		`
		err := tx.QueryRow(ctx, query, s.ID, s.DeckID, s.Kind, s.Title, s.Body, s.Width, s.Height).Scan(&s.Position)
		if err != nil {
			return translate(err)
		}
		return touchDeck(ctx, tx, s.DeckID)
	})
}

// SetPositions rewrites slide positions in one transaction. order lists the
// deck's slide ids in their new order; ids not in the deck yield ErrNotFound.
func (r *DeckRepository) SetPositions(ctx context.Context, deckID uuid.UUID, order []uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockDeck(ctx, tx, deckID); err != nil {
			return err
		}
		for i, id := range order {
			tag, err := tx.Exec(ctx, `UPDATE deck_slides SET position = $3 WHERE id = $1 AND deck_id = $2`, id, deckID, i)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		return touchDeck(ctx, tx, deckID)
	})
}

func (r *DeckRepository) ResizeSlide(ctx context.Context, deckID, slideID uuid.UUID, width, height int) (*models.Slide, error) {
	query := `
		UPDATE deck_slides SET width = $3, height = $4
		WHERE id = $1 AND deck_id = $2
		RETURNING id, deck_id, position, kind, title, body, width, height
	`

	var s models.Slide
	err := r.pool.QueryRow(ctx, query, slideID, deckID, width, height).Scan(
		&s.ID, &s.DeckID, &s.Position, &s.Kind, &s.Title, &s.Body, &s.Width, &s.Height,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// DeleteSlide removes a slide and closes the gap it leaves.
func (r *DeckRepository) DeleteSlide(ctx context.Context, deckID, slideID uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockDeck(ctx, tx, deckID); err != nil {
			return err
		}

		var position int
		err := tx.QueryRow(ctx, `DELETE FROM deck_slides WHERE id = $1 AND deck_id = $2 RETURNING position`, slideID, deckID).Scan(&position)
		if err != nil {
			return translate(err)
		}
		if _, err := tx.Exec(ctx, `UPDATE deck_slides SET position = position - 1 WHERE deck_id = $1 AND position > $2`, deckID, position); err != nil {
			return err
		}
		return touchDeck(ctx, tx, deckID)
	})
}

func lockDeck(ctx context.Context, tx pgx.Tx, deckID uuid.UUID) error {
	var id uuid.UUID
	return translate(tx.QueryRow(ctx, `SELECT id FROM decks WHERE id = $1 FOR UPDATE`, deckID).Scan(&id))
}

func touchDeck(ctx context.Context, tx pgx.Tx, deckID uuid.UUID) error {
	_, err := tx.Exec(ctx, `UPDATE decks SET updated_at = NOW() WHERE id = $1`, deckID)
	return err
}
