package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

type ToolRepository struct {
	pool *pgxpool.Pool
}

func NewToolRepository(pool *pgxpool.Pool) *ToolRepository {
	return &ToolRepository{pool: pool}
}

const toolColumns = `t.id, t.name, t.description, t.category, t.url, t.pricing_model,
	t.monthly_cost_cents, t.rating, t.tags, t.created_at`

func scanTool(row pgx.Row, extra ...any) (models.Tool, error) {
	var t models.Tool
	dest := []any{
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Category,
		&t.URL,
		&t.PricingModel,
		&t.MonthlyCostCents,
		&t.Rating,
		&t.Tags,
		&t.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return t, err
}

func (r *ToolRepository) ListTools(ctx context.Context, filter models.ToolFilter) ([]models.Tool, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("t.category = $%d", len(args)))
	}
	if filter.PricingModel != "" {
		args = append(args, filter.PricingModel)
		where = append(where, fmt.Sprintf("t.pricing_model = $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(t.tags)", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(t.name ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args)))
	}

	query := "SELECT " + toolColumns + " FROM journey_tools_catalog t"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tools := []models.Tool{}
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

func (r *ToolRepository) GetTool(ctx context.Context, id uuid.UUID) (*models.Tool, error) {
	query := "SELECT " + toolColumns + " FROM journey_tools_catalog t WHERE t.id = $1"
	t, err := scanTool(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *ToolRepository) CreateTool(ctx context.Context, tool *models.Tool) error {
	tool.Prepare()

	query := `
		INSERT INTO journey_tools_catalog
			(id, name, description, category, url, pricing_model, monthly_cost_cents, rating, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		tool.ID,
		tool.Name,
		tool.Description,
		tool.Category,
		tool.URL,
		tool.PricingModel,
		tool.MonthlyCostCents,
		tool.Rating,
		tool.Tags,
	).Scan(&tool.CreatedAt)

	return translate(err)
}

const recommendedFrom = `
	FROM journey_step_tool_recommendations r
	JOIN journey_tools_catalog t ON t.id = r.tool_id
`

func scanRecommended(row pgx.Row) (models.RecommendedTool, error) {
	var rt models.RecommendedTool
	t, err := scanTool(row, &rt.StepID, &rt.RelevanceScore, &rt.IsPrimary, &rt.Rationale)
	rt.Tool = t
	return rt, err
}

// StepRecommendations lists the tools recommended for a step, primary
// recommendations first, then by relevance.
func (r *ToolRepository) StepRecommendations(ctx context.Context, stepID uuid.UUID) ([]models.RecommendedTool, error) {
	query := "SELECT " + toolColumns + ", r.step_id, r.relevance_score, r.is_primary, r.rationale" +
		recommendedFrom + `
		WHERE r.step_id = $1
		ORDER BY r.is_primary DESC, r.relevance_score DESC, t.name
	`
	return r.queryRecommended(ctx, query, stepID)
}

// AllRecommendations returns every recommendation, used by the offline
// generators.
func (r *ToolRepository) AllRecommendations(ctx context.Context) ([]models.RecommendedTool, error) {
	query := "SELECT " + toolColumns + ", r.step_id, r.relevance_score, r.is_primary, r.rationale" +
		recommendedFrom + " ORDER BY r.step_id, r.relevance_score DESC, t.name"
	return r.queryRecommended(ctx, query)
}

func (r *ToolRepository) queryRecommended(ctx context.Context, query string, args ...any) ([]models.RecommendedTool, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.RecommendedTool{}
	for rows.Next() {
		rt, err := scanRecommended(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *ToolRepository) UpsertRecommendation(ctx context.Context, rec *models.Recommendation) error {
	rec.Prepare()

	query := `
		INSERT INTO journey_step_tool_recommendations (id, step_id, tool_id, relevance_score, is_primary, rationale)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (step_id, tool_id) DO UPDATE SET
			relevance_score = EXCLUDED.relevance_score,
			is_primary = EXCLUDED.is_primary,
			rationale = EXCLUDED.rationale
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		rec.ID,
		rec.StepID,
		rec.ToolID,
		rec.RelevanceScore,
		rec.IsPrimary,
		rec.Rationale,
	).Scan(&rec.ID, &rec.CreatedAt)

	return translate(err)
}

func (r *ToolRepository) Relationships(ctx context.Context, toolID uuid.UUID) ([]models.ToolRelationship, error) {
	query := `
		SELECT tr.id, tr.tool_id, tr.related_tool_id, tr.relationship_type, tr.strength, tr.created_at, t.name
		FROM journey_tool_relationships tr
		JOIN journey_tools_catalog t ON t.id = tr.related_tool_id
		WHERE tr.tool_id = $1
		ORDER BY tr.strength DESC, t.name
	`

	rows, err := r.pool.Query(ctx, query, toolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rels := []models.ToolRelationship{}
	for rows.Next() {
		var rel models.ToolRelationship
		err := rows.Scan(
			&rel.ID,
			&rel.ToolID,
			&rel.RelatedToolID,
			&rel.RelationshipType,
			&rel.Strength,
			&rel.CreatedAt,
			&rel.RelatedToolName,
		)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

// ReplaceRelationships swaps the whole generated relationship set in one
// transaction.
func (r *ToolRepository) ReplaceRelationships(ctx context.Context, rels []models.ToolRelationship) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM journey_tool_relationships`); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i := range rels {
			rels[i].Prepare()
			batch.Queue(`
				INSERT INTO journey_tool_relationships (id, tool_id, related_tool_id, relationship_type, strength)
				VALUES ($1, $2, $3, $4, $5)
			`, rels[i].ID, rels[i].ToolID, rels[i].RelatedToolID, rels[i].RelationshipType, rels[i].Strength)
		}
		return translate(tx.SendBatch(ctx, batch).Close())
	})
}

// ReplacePathways stores generated pathways as the complete set. A cell that
// already had a pathway keeps its row id, which is written back into
// pathways; cells missing from pathways are removed.
func (r *ToolRepository) ReplacePathways(ctx context.Context, pathways []models.Pathway) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range pathways {
			p := &pathways[i]
			p.Prepare()
			batch.Queue(`
				INSERT INTO journey_tool_pathways (id, name, phase_id, domain_id, step_ids, tool_ids, score)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				ON CONFLICT (phase_id, domain_id) DO UPDATE SET
					name = EXCLUDED.name,
					step_ids = EXCLUDED.step_ids,
					tool_ids = EXCLUDED.tool_ids,
					score = EXCLUDED.score,
					created_at = NOW()
				RETURNING id, created_at
			`, p.ID, p.Name, p.PhaseID, p.DomainID, p.StepIDs, p.ToolIDs, p.Score).QueryRow(func(row pgx.Row) error {
				return row.Scan(&p.ID, &p.CreatedAt)
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translate(err)
		}

		kept := make([]uuid.UUID, len(pathways))
		for i := range pathways {
			kept[i] = pathways[i].ID
		}
		_, err := tx.Exec(ctx, `DELETE FROM journey_tool_pathways WHERE id <> ALL($1)`, kept)
		return err
	})
}

func (r *ToolRepository) ListPathways(ctx context.Context) ([]models.Pathway, error) {
	query := `
		SELECT id, name, phase_id, domain_id, step_ids, tool_ids, score, created_at
		FROM journey_tool_pathways
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pathways := []models.Pathway{}
	for rows.Next() {
		var p models.Pathway
		if err := rows.Scan(&p.ID, &p.Name, &p.PhaseID, &p.DomainID, &p.StepIDs, &p.ToolIDs, &p.Score, &p.CreatedAt); err != nil {
			return nil, err
		}
		pathways = append(pathways, p)
	}
	return pathways, rows.Err()
}
