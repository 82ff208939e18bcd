package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/llm"
	"startup_journey/internal/models"
	"startup_journey/internal/recommend"
)

type fakeChallenges struct {
	steps   []models.Step
	created map[uuid.UUID]bool
	// racing steps show up as candidates but are taken by the time they
	// are inserted
	racing map[uuid.UUID]bool
}

func (f *fakeChallenges) ChallengeCandidates(context.Context) ([]models.Step, error) {
	var out []models.Step
	for _, s := range f.steps {
		if !f.created[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeChallenges) MigratedStepCount(context.Context) (int, error) {
	return len(f.created), nil
}

func (f *fakeChallenges) CreateChallenge(_ context.Context, c *models.Challenge) (bool, error) {
	c.Prepare()
	if f.created[*c.LegacyStepID] || f.racing[*c.LegacyStepID] {
		return false, nil
	}
	f.created[*c.LegacyStepID] = true
	return true, nil
}

func TestMigrateStepsToChallenges(t *testing.T) {
	steps := []models.Step{
		{ID: uuid.New(), Name: "Define the problem", Objective: "Write a one-line problem statement", Description: "ignored"},
		{ID: uuid.New(), Name: "Interview customers", Description: "Talk to at least ten people"},
		{ID: uuid.New(), Name: "Ship the MVP"},
	}
	repo := &fakeChallenges{steps: steps, created: map[uuid.UUID]bool{steps[2].ID: true}}
	svc := NewMigrationService(repo)
	ctx := context.Background()

	dry, err := svc.MigrateStepsToChallenges(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Candidates)
	assert.Zero(t, dry.Created)
	assert.Equal(t, 1, dry.Skipped)
	require.Len(t, dry.Challenges, 2)
	assert.Equal(t, "Write a one-line problem statement", dry.Challenges[0].ProblemStatement)
	assert.Equal(t, "Talk to at least ten people", dry.Challenges[1].ProblemStatement)
	assert.Len(t, repo.created, 1, "dry run writes nothing")

	report, err := svc.MigrateStepsToChallenges(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Candidates)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, steps[0].ID, *report.Challenges[0].LegacyStepID)
	assert.Equal(t, "Define the problem", report.Challenges[0].Title)

	rerun, err := svc.MigrateStepsToChallenges(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, rerun.Candidates)
	assert.Zero(t, rerun.Created)
	assert.Equal(t, 3, rerun.Skipped)
	assert.Empty(t, rerun.Challenges)
}

func TestMigrateStepsToChallengesLosesRace(t *testing.T) {
	step := models.Step{ID: uuid.New(), Name: "Pick a name"}
	repo := &fakeChallenges{
		steps:   []models.Step{step},
		created: map[uuid.UUID]bool{},
		racing:  map[uuid.UUID]bool{step.ID: true},
	}

	report, err := NewMigrationService(repo).MigrateStepsToChallenges(context.Background(), false)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Equal(t, 1, report.Skipped)
}

func generatorFixture() (*fakeTools, *fakeJourney) {
	phase, domain := uuid.New(), uuid.New()
	notion := models.Tool{ID: uuid.New(), Name: "Notion", Category: "docs", Tags: []string{"wiki", "notes"}}
	confluence := models.Tool{ID: uuid.New(), Name: "Confluence", Category: "docs", Tags: []string{"wiki"}}
	figma := models.Tool{ID: uuid.New(), Name: "Figma", Category: "design", Tags: []string{"prototyping"}}

	s1 := models.Step{ID: uuid.New(), PhaseID: phase, DomainID: domain, PhaseName: "Ideation", DomainName: "Product"}
	s2 := models.Step{ID: uuid.New(), PhaseID: phase, DomainID: domain, PhaseName: "Ideation", DomainName: "Product"}

	tools := &fakeTools{
		tools: []models.Tool{notion, confluence, figma},
		recs: []models.RecommendedTool{
			{Tool: notion, StepID: s1.ID, RelevanceScore: 0.9},
			{Tool: figma, StepID: s2.ID, RelevanceScore: 0.8},
			{Tool: confluence, StepID: s2.ID, RelevanceScore: 0.6},
		},
	}
	return tools, &fakeJourney{steps: []models.Step{s1, s2}}
}

func TestGenerateRelationships(t *testing.T) {
	tools, steps := generatorFixture()
	cache := newMemoryCache()
	require.NoError(t, cache.SetJSON(context.Background(), keyTools, []string{"stale"}))
	svc := NewGeneratorService(tools, steps, cache)
	opts := recommend.RelationshipOptions{TopK: 3, Threshold: 0.2}

	dry, err := svc.GenerateRelationships(context.Background(), opts, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 3, dry.Tools)
	assert.NotEmpty(t, dry.Relationships)
	assert.False(t, tools.replaced)

	report, err := svc.GenerateRelationships(context.Background(), opts, nil, false)
	require.NoError(t, err)
	assert.True(t, tools.replaced)
	assert.Equal(t, report.Relationships, tools.rels)
	for _, rel := range report.Relationships {
		assert.Equal(t, models.RelationshipAlternative, rel.RelationshipType, "only the two docs tools are similar enough")
	}
	assert.Empty(t, cache.data, "catalog cache is invalidated")
}

func TestGeneratePathways(t *testing.T) {
	tools, steps := generatorFixture()
	svc := NewGeneratorService(tools, steps, nil)

	report, err := svc.GeneratePathways(context.Background(), recommend.PathwayOptions{RelevanceWeight: 0.5}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Steps)
	require.Len(t, report.Pathways, 1)

	p := report.Pathways[0]
	assert.Equal(t, "Ideation / Product", p.Name)
	require.Len(t, p.ToolIDs, 2)
	assert.Equal(t, tools.tools[0].ID, p.ToolIDs[0], "Notion first")
	assert.Equal(t, tools.tools[1].ID, p.ToolIDs[1], "Confluence follows Notion by similarity")
	assert.Equal(t, report.Pathways, tools.pathways)
}

type fakeDiagnostics struct {
	counts  map[string]int64
	orphans int64
	steps   []string
	phases  []string
	pingErr error
}

func (f *fakeDiagnostics) Ping(context.Context) (time.Duration, error) {
	return 3 * time.Millisecond, f.pingErr
}

func (f *fakeDiagnostics) CountRows(_ context.Context, table string) (int64, error) {
	n, ok := f.counts[table]
	if !ok {
		return 0, errors.New("relation does not exist")
	}
	return n, nil
}

func (f *fakeDiagnostics) OrphanRecommendations(context.Context) (int64, error) {
	return f.orphans, nil
}

func (f *fakeDiagnostics) StepsWithoutRecommendations(context.Context) ([]string, error) {
	return f.steps, nil
}

func (f *fakeDiagnostics) PhasesWithoutSteps(context.Context) ([]string, error) {
	return f.phases, nil
}

func TestDatabaseReportHealthy(t *testing.T) {
	repo := &fakeDiagnostics{counts: map[string]int64{"journey_phases_new": 5, "journey_canonical_steps": 13}}
	svc := NewDiagnosticsService(repo, newMemoryCache(), nil)
	svc.tables = []string{"journey_phases_new", "journey_canonical_steps"}

	report, err := svc.DatabaseReport(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy)
	assert.Empty(t, report.Issues)
	assert.Equal(t, "ok", report.Cache)
	assert.Equal(t, []TableCount{
		{Table: "journey_phases_new", Rows: 5},
		{Table: "journey_canonical_steps", Rows: 13},
	}, report.Tables)
}

func TestDatabaseReportIssues(t *testing.T) {
	repo := &fakeDiagnostics{
		counts:  map[string]int64{"journey_phases_new": 5},
		orphans: 2,
		steps:   []string{"Ship the MVP"},
		phases:  []string{"Scale"},
	}
	cache := newMemoryCache()
	cache.pingErr = errors.New("connection refused")
	svc := NewDiagnosticsService(repo, cache, nil)
	svc.tables = []string{"journey_phases_new", "decks"}

	report, err := svc.DatabaseReport(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Healthy)
	assert.Equal(t, []string{
		"table decks: relation does not exist",
		"2 recommendations reference a missing step or tool",
		`step "Ship the MVP" has no recommended tools`,
		`phase "Scale" has no steps`,
		"cache: connection refused",
	}, report.Issues)
}

func TestDatabaseReportUnreachable(t *testing.T) {
	svc := NewDiagnosticsService(&fakeDiagnostics{pingErr: errors.New("dial tcp: timeout")}, nil, nil)
	_, err := svc.DatabaseReport(context.Background())
	assert.ErrorContains(t, err, "database unreachable")
}

type fakeLLM struct {
	pingErr    error
	suggestErr error
}

func (f *fakeLLM) Model() string { return "test/model" }

func (f *fakeLLM) Ping(context.Context) (*llm.PingResult, error) {
	if f.pingErr != nil {
		return nil, f.pingErr
	}
	return &llm.PingResult{Model: "test/model", Latency: 40 * time.Millisecond, Reply: "OK"}, nil
}

func (f *fakeLLM) SuggestTools(_ context.Context, step models.Step, limit int) (*llm.Suggestions, error) {
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return &llm.Suggestions{
		Tools:    []llm.ToolSuggestion{{Name: "Typeform"}, {Name: "Calendly"}},
		Strategy: "extract",
	}, nil
}

func TestLLMReport(t *testing.T) {
	report := NewDiagnosticsService(&fakeDiagnostics{}, nil, nil).LLMReport(context.Background())
	assert.False(t, report.Configured)
	assert.NotEmpty(t, report.Error)

	report = NewDiagnosticsService(&fakeDiagnostics{}, nil, &fakeLLM{}).LLMReport(context.Background())
	assert.True(t, report.Configured)
	assert.True(t, report.Reachable)
	assert.Equal(t, "test/model", report.Model)
	assert.Equal(t, 2, report.SampleTools)
	assert.Equal(t, "extract", report.RepairStrategy)
	assert.Empty(t, report.Error)

	report = NewDiagnosticsService(&fakeDiagnostics{}, nil, &fakeLLM{pingErr: llm.ErrUnauthorized}).LLMReport(context.Background())
	assert.False(t, report.Reachable)
	assert.Equal(t, llm.ErrUnauthorized.Error(), report.Error)
}

func TestAssistantSuggestTools(t *testing.T) {
	journey := journeyFixture()
	stepID := journey.steps[0].ID

	_, err := NewAssistantService(journey, nil).SuggestTools(context.Background(), stepID, SuggestToolsRequest{})
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
	assert.ErrorIs(t, err, ErrUnavailable)

	svc := NewAssistantService(journey, &fakeLLM{})
	out, err := svc.SuggestTools(context.Background(), stepID, SuggestToolsRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Tools, 2)

	_, err = svc.SuggestTools(context.Background(), uuid.New(), SuggestToolsRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	failing := NewAssistantService(journey, &fakeLLM{suggestErr: llm.ErrEmptyResponse})
	_, err = failing.SuggestTools(context.Background(), stepID, SuggestToolsRequest{})
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}
