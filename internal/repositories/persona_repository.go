package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

type PersonaRepository struct {
	pool *pgxpool.Pool
}

func NewPersonaRepository(pool *pgxpool.Pool) *PersonaRepository {
	return &PersonaRepository{pool: pool}
}

const personaColumns = `id, user_id, name, role, description, is_active, created_at`

func scanPersona(row pgx.Row) (models.Persona, error) {
	var p models.Persona
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Role, &p.Description, &p.IsActive, &p.CreatedAt)
	return p, err
}

func (r *PersonaRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Persona, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+personaColumns+" FROM user_personas WHERE user_id = $1 ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	personas := []models.Persona{}
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (r *PersonaRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Persona, error) {
	p, err := scanPersona(r.pool.QueryRow(ctx, "SELECT "+personaColumns+" FROM user_personas WHERE id = $1 AND user_id = $2", id, userID))
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PersonaRepository) Active(ctx context.Context, userID uuid.UUID) (*models.Persona, error) {
	p, err := scanPersona(r.pool.QueryRow(ctx, "SELECT "+personaColumns+" FROM user_personas WHERE user_id = $1 AND is_active", userID))
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create inserts a persona. When the user has no active persona yet the new
// one becomes active in the same transaction.
func (r *PersonaRepository) Create(ctx context.Context, p *models.Persona) error {
	p.Prepare()

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var hasActive bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_personas WHERE user_id = $1 AND is_active)`, p.UserID).Scan(&hasActive)
		if err != nil {
			return err
		}
		p.IsActive = !hasActive

		_, err = tx.Exec(ctx, `
			INSERT INTO user_personas (id, user_id, name, role, description, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.UserID, p.Name, p.Role, p.Description, p.IsActive, p.CreatedAt)
		return translate(err)
	})
}

// Activate makes id the user's only active persona.
func (r *PersonaRepository) Activate(ctx context.Context, id, userID uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE user_personas SET is_active = FALSE WHERE user_id = $1 AND is_active AND id <> $2`, userID, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE user_personas SET is_active = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return translate(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Delete removes a persona. If it was active, the user's oldest remaining
// persona takes over.
func (r *PersonaRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var wasActive bool
		err := tx.QueryRow(ctx, `DELETE FROM user_personas WHERE id = $1 AND user_id = $2 RETURNING is_active`, id, userID).Scan(&wasActive)
		if err != nil {
			return translate(err)
		}
		if !wasActive {
			return nil
		}
		_, err = tx.Exec(ctx, `
			UPDATE user_personas SET is_active = TRUE
			WHERE id = (SELECT id FROM user_personas WHERE user_id = $1 ORDER BY created_at, id LIMIT 1)
		`, userID)
		return err
	})
}

const sectionColumns = `id, persona_id, section_key, title, content, order_index, is_visible, updated_at`

func scanSection(row pgx.Row) (models.ProfileSection, error) {
	var s models.ProfileSection
	err := row.Scan(&s.ID, &s.PersonaID, &s.SectionKey, &s.Title, &s.Content, &s.OrderIndex, &s.IsVisible, &s.UpdatedAt)
	return s, err
}

func (r *PersonaRepository) ListSections(ctx context.Context, personaID uuid.UUID) ([]models.ProfileSection, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+sectionColumns+" FROM profile_sections WHERE persona_id = $1 ORDER BY order_index, section_key", personaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []models.ProfileSection{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpsertSection writes a section by key. New sections are appended after the
// existing ones; updates keep their position.
func (r *PersonaRepository) UpsertSection(ctx context.Context, s *models.ProfileSection) error {
	s.Prepare()

	query := `
		INSERT INTO profile_sections (id, persona_id, section_key, title, content, order_index, is_visible, updated_at)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(order_index) + 1, 0) FROM profile_sections WHERE persona_id = $2),
			$6, $7)
		ON CONFLICT (persona_id, section_key) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			is_visible = EXCLUDED.is_visible,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + sectionColumns

	out, err := scanSection(r.pool.QueryRow(ctx, query,
		s.ID,
		s.PersonaID,
		s.SectionKey,
		s.Title,
		s.Content,
		s.IsVisible,
		s.UpdatedAt,
	))
	if err != nil {
		return translate(err)
	}
	*s = out
	return nil
}

// ReorderSections assigns order_index by position in keys.
func (r *PersonaRepository) ReorderSections(ctx context.Context, personaID uuid.UUID, keys []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for i, key := range keys {
			tag, err := tx.Exec(ctx, `UPDATE profile_sections SET order_index = $3, updated_at = NOW()
				WHERE persona_id = $1 AND section_key = $2`, personaID, key, i)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
}

func (r *PersonaRepository) DeleteSection(ctx context.Context, personaID uuid.UUID, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profile_sections WHERE persona_id = $1 AND section_key = $2`, personaID, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
