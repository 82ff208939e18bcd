package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"startup_journey/internal/models"
)

type ChallengeStore interface {
	ChallengeCandidates(ctx context.Context) ([]models.Step, error)
	MigratedStepCount(ctx context.Context) (int, error)
	CreateChallenge(ctx context.Context, c *models.Challenge) (bool, error)
}

// MigrationService converts canonical steps into challenges.
type MigrationService struct {
	repo ChallengeStore
}

func NewMigrationService(repo ChallengeStore) *MigrationService {
	return &MigrationService{repo: repo}
}

// ChallengeMigrationReport counts every canonical step: Candidates is the
// total, Skipped covers steps that already had a challenge.
type ChallengeMigrationReport struct {
	DryRun     bool               `json:"dry_run"`
	Candidates int                `json:"candidates"`
	Created    int                `json:"created"`
	Skipped    int                `json:"skipped"`
	Challenges []models.Challenge `json:"challenges"`
}

// MigrateStepsToChallenges creates one challenge per step that has none.
// Running it again is a no-op; with dryRun nothing is written.
func (s *MigrationService) MigrateStepsToChallenges(ctx context.Context, dryRun bool) (*ChallengeMigrationReport, error) {
	steps, err := s.repo.ChallengeCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate steps: %w", err)
	}
	migrated, err := s.repo.MigratedStepCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count migrated steps: %w", err)
	}

	report := &ChallengeMigrationReport{
		DryRun:     dryRun,
		Candidates: migrated + len(steps),
		Skipped:    migrated,
		Challenges: make([]models.Challenge, 0, len(steps)),
	}
	for _, step := range steps {
		c := challengeFromStep(step)
		if dryRun {
			report.Challenges = append(report.Challenges, c)
			continue
		}

		created, err := s.repo.CreateChallenge(ctx, &c)
		if err != nil {
			return report, fmt.Errorf("failed to migrate step %q: %w", step.Name, err)
		}
		if !created {
			report.Skipped++
			continue
		}
		report.Created++
		report.Challenges = append(report.Challenges, c)
	}

	slog.Info("step migration finished",
		"dry_run", dryRun,
		"candidates", report.Candidates,
		"created", report.Created,
		"skipped", report.Skipped,
	)
	return report, nil
}

func challengeFromStep(step models.Step) models.Challenge {
	problem := strings.TrimSpace(step.Objective)
	if problem == "" {
		problem = strings.TrimSpace(step.Description)
	}
	id := step.ID
	return models.Challenge{
		LegacyStepID:     &id,
		PhaseID:          step.PhaseID,
		DomainID:         step.DomainID,
		Title:            step.Name,
		ProblemStatement: problem,
		OrderIndex:       step.OrderIndex,
		SuccessCriteria:  slices.Clone(step.SuccessCriteria),
	}
}
