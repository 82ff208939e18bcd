package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

// Result counts the rows written by Apply.
type Result struct {
	Phases          int `json:"phases"`
	Domains         int `json:"domains"`
	Tools           int `json:"tools"`
	Steps           int `json:"steps"`
	Recommendations int `json:"recommendations"`
}

// Apply upserts the fixture on natural keys inside one transaction, so
// running it twice leaves the database unchanged.
func Apply(ctx context.Context, pool *pgxpool.Pool, f *Fixture) (Result, error) {
	var res Result
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		phaseIDs := make(map[string]uuid.UUID, len(f.Phases))
		for _, p := range f.Phases {
			var id uuid.UUID
			err := tx.QueryRow(ctx, `
				INSERT INTO journey_phases_new (name, description, order_index, color, icon)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (name) DO UPDATE SET
					description = EXCLUDED.description,
					order_index = EXCLUDED.order_index,
					color = EXCLUDED.color,
					icon = EXCLUDED.icon
				RETURNING id
			`, p.Name, p.Description, p.Order, p.Color, p.Icon).Scan(&id)
			if err != nil {
				return fmt.Errorf("phase %q: %w", p.Name, err)
			}
			phaseIDs[p.Name] = id
			res.Phases++
		}

		domainIDs := make(map[string]uuid.UUID, len(f.Domains))
		for _, d := range f.Domains {
			var id uuid.UUID
			err := tx.QueryRow(ctx, `
				INSERT INTO journey_domains (name, description, color)
				VALUES ($1, $2, $3)
				ON CONFLICT (name) DO UPDATE SET
					description = EXCLUDED.description,
					color = EXCLUDED.color
				RETURNING id
			`, d.Name, d.Description, d.Color).Scan(&id)
			if err != nil {
				return fmt.Errorf("domain %q: %w", d.Name, err)
			}
			domainIDs[d.Name] = id
			res.Domains++
		}

		toolIDs := make(map[string]uuid.UUID, len(f.Tools))
		for _, t := range f.Tools {
			tool := models.Tool{
				Name:             t.Name,
				Description:      t.Description,
				Category:         t.Category,
				URL:              t.URL,
				PricingModel:     t.PricingModel,
				MonthlyCostCents: t.MonthlyCostCents,
				Rating:           t.Rating,
				Tags:             t.Tags,
			}
			tool.Prepare()

			var id uuid.UUID
			err := tx.QueryRow(ctx, `
				INSERT INTO journey_tools_catalog
					(name, description, category, url, pricing_model, monthly_cost_cents, rating, tags)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (name) DO UPDATE SET
					description = EXCLUDED.description,
					category = EXCLUDED.category,
					url = EXCLUDED.url,
					pricing_model = EXCLUDED.pricing_model,
					monthly_cost_cents = EXCLUDED.monthly_cost_cents,
					rating = EXCLUDED.rating,
					tags = EXCLUDED.tags
				RETURNING id
			`, tool.Name, tool.Description, tool.Category, tool.URL, tool.PricingModel,
				tool.MonthlyCostCents, tool.Rating, tool.Tags).Scan(&id)
			if err != nil {
				return fmt.Errorf("tool %q: %w", t.Name, err)
			}
			toolIDs[t.Name] = id
			res.Tools++
		}

		for _, s := range f.Steps {
			step := models.Step{
				PhaseID:         phaseIDs[s.Phase],
				DomainID:        domainIDs[s.Domain],
				Name:            s.Name,
				Description:     s.Description,
				Objective:       s.Objective,
				OrderIndex:      s.Order,
				EstimatedDays:   s.EstimatedDays,
				Difficulty:      s.Difficulty,
				Deliverables:    s.Deliverables,
				SuccessCriteria: s.SuccessCriteria,
			}
			step.Prepare()

			var stepID uuid.UUID
			err := tx.QueryRow(ctx, `
				INSERT INTO journey_canonical_steps
					(phase_id, domain_id, name, description, objective, order_index,
					 estimated_days, difficulty, deliverables, success_criteria)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (phase_id, name) DO UPDATE SET
					domain_id = EXCLUDED.domain_id,
					description = EXCLUDED.description,
					objective = EXCLUDED.objective,
					order_index = EXCLUDED.order_index,
					estimated_days = EXCLUDED.estimated_days,
					difficulty = EXCLUDED.difficulty,
					deliverables = EXCLUDED.deliverables,
					success_criteria = EXCLUDED.success_criteria,
					updated_at = NOW()
				RETURNING id
			`, step.PhaseID, step.DomainID, step.Name, step.Description, step.Objective, step.OrderIndex,
				step.EstimatedDays, step.Difficulty, step.Deliverables, step.SuccessCriteria).Scan(&stepID)
			if err != nil {
				return fmt.Errorf("step %q: %w", s.Name, err)
			}
			res.Steps++

			batch := &pgx.Batch{}
			for _, r := range s.Tools {
				batch.Queue(`
					INSERT INTO journey_step_tool_recommendations (step_id, tool_id, relevance_score, is_primary, rationale)
					VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT (step_id, tool_id) DO UPDATE SET
						relevance_score = EXCLUDED.relevance_score,
						is_primary = EXCLUDED.is_primary,
						rationale = EXCLUDED.rationale
				`, stepID, toolIDs[r.Name], r.Relevance, r.Primary, r.Rationale)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("recommendations for %q: %w", s.Name, err)
			}
			res.Recommendations += len(s.Tools)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	slog.Info("seed applied",
		"phases", res.Phases,
		"domains", res.Domains,
		"tools", res.Tools,
		"steps", res.Steps,
		"recommendations", res.Recommendations,
	)
	return res, nil
}
