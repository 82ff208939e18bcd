package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"startup_journey/internal/llm"
	"startup_journey/internal/models"
	"startup_journey/internal/repositories"
)

type DiagnosticsStore interface {
	Ping(ctx context.Context) (time.Duration, error)
	CountRows(ctx context.Context, table string) (int64, error)
	OrphanRecommendations(ctx context.Context) (int64, error)
	StepsWithoutRecommendations(ctx context.Context) ([]string, error)
	PhasesWithoutSteps(ctx context.Context) ([]string, error)
}

type LLMProbe interface {
	Model() string
	Ping(ctx context.Context) (*llm.PingResult, error)
	SuggestTools(ctx context.Context, step models.Step, limit int) (*llm.Suggestions, error)
}

type DiagnosticsService struct {
	repo   DiagnosticsStore
	cache  repositories.Cache
	llm    LLMProbe
	tables []string
}

// NewDiagnosticsService accepts a nil probe when no LLM is configured.
func NewDiagnosticsService(repo DiagnosticsStore, cache repositories.Cache, probe LLMProbe) *DiagnosticsService {
	return &DiagnosticsService{
		repo:   repo,
		cache:  cache,
		llm:    probe,
		tables: repositories.Tables,
	}
}

type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
	Error string `json:"error,omitempty"`
}

type DatabaseReport struct {
	Healthy                     bool          `json:"healthy"`
	Latency                     time.Duration `json:"latency_ns"`
	Cache                       string        `json:"cache"`
	Tables                      []TableCount  `json:"tables"`
	OrphanRecommendations       int64         `json:"orphan_recommendations"`
	StepsWithoutRecommendations []string      `json:"steps_without_recommendations"`
	PhasesWithoutSteps          []string      `json:"phases_without_steps"`
	Issues                      []string      `json:"issues"`
}

// maxParallelCounts bounds the row-count fan-out so the report never
// takes more than a few pool connections.
const maxParallelCounts = 4

// DatabaseReport checks connectivity, counts every table and looks for
// dangling journey data. A failing table count is reported, not returned.
func (s *DiagnosticsService) DatabaseReport(ctx context.Context) (*DatabaseReport, error) {
	latency, err := s.repo.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	report := &DatabaseReport{
		Latency: latency,
		Tables:  make([]TableCount, len(s.tables)),
		Cache:   "ok",
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelCounts)
	for i, table := range s.tables {
		g.Go(func() error {
			tc := TableCount{Table: table}
			n, err := s.repo.CountRows(gctx, table)
			if err != nil {
				tc.Error = err.Error()
			}
			tc.Rows = n
			report.Tables[i] = tc
			return nil
		})
	}
	g.Go(func() error {
		n, err := s.repo.OrphanRecommendations(gctx)
		report.OrphanRecommendations = n
		return err
	})
	g.Go(func() error {
		names, err := s.repo.StepsWithoutRecommendations(gctx)
		report.StepsWithoutRecommendations = names
		return err
	})
	g.Go(func() error {
		names, err := s.repo.PhasesWithoutSteps(gctx)
		report.PhasesWithoutSteps = names
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("integrity checks failed: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			report.Cache = err.Error()
		}
	}

	report.Issues = collectIssues(report)
	report.Healthy = len(report.Issues) == 0
	return report, nil
}

func collectIssues(r *DatabaseReport) []string {
	issues := []string{}
	for _, tc := range r.Tables {
		if tc.Error != "" {
			issues = append(issues, fmt.Sprintf("table %s: %s", tc.Table, tc.Error))
		}
	}
	if r.OrphanRecommendations > 0 {
		issues = append(issues, fmt.Sprintf("%d recommendations reference a missing step or tool", r.OrphanRecommendations))
	}
	for _, name := range r.StepsWithoutRecommendations {
		issues = append(issues, fmt.Sprintf("step %q has no recommended tools", name))
	}
	for _, name := range r.PhasesWithoutSteps {
		issues = append(issues, fmt.Sprintf("phase %q has no steps", name))
	}
	if r.Cache != "ok" {
		issues = append(issues, "cache: "+r.Cache)
	}
	return issues
}

type LLMReport struct {
	Configured     bool          `json:"configured"`
	Model          string        `json:"model,omitempty"`
	Reachable      bool          `json:"reachable"`
	Latency        time.Duration `json:"latency_ns"`
	Reply          string        `json:"reply,omitempty"`
	SampleTools    int           `json:"sample_tools"`
	RepairStrategy string        `json:"repair_strategy,omitempty"`
	Error          string        `json:"error,omitempty"`
}

var sampleStep = models.Step{
	Name:        "Validate the problem",
	Objective:   "Interview potential customers to confirm the problem is worth solving",
	Difficulty:  models.DifficultyBeginner,
	Description: "Run customer discovery interviews and collect evidence.",
}

// LLMReport pings the model and runs one sample suggestion through the
// JSON repair chain. Endpoint failures are part of the report.
func (s *DiagnosticsService) LLMReport(ctx context.Context) *LLMReport {
	if s.llm == nil {
		return &LLMReport{Error: ErrAssistantUnavailable.Error()}
	}
	report := &LLMReport{Configured: true, Model: s.llm.Model()}

	ping, err := s.llm.Ping(ctx)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Reachable = true
	report.Latency = ping.Latency
	report.Reply = ping.Reply

	out, err := s.llm.SuggestTools(ctx, sampleStep, 3)
	if err != nil {
		report.Error = fmt.Sprintf("sample generation: %v", err)
		return report
	}
	report.SampleTools = len(out.Tools)
	report.RepairStrategy = string(out.Strategy)
	return report
}
