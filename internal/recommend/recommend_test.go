package recommend

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/models"
)

func tool(name, category string, tags ...string) models.Tool {
	return models.Tool{ID: uuid.New(), Name: name, Category: category, Tags: tags}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"one empty", []string{"notes"}, nil, 0},
		{"identical", []string{"notes", "wiki"}, []string{"wiki", "notes"}, 1},
		{"partial overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3},
		{"case and space folded", []string{" Notes "}, []string{"notes"}, 1},
		{"duplicates collapse", []string{"a", "a", "b"}, []string{"a"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarity(t *testing.T) {
	notion := tool("Notion", "docs", "notes", "wiki")
	confluence := tool("Confluence", "Docs", "wiki")
	slack := tool("Slack", "chat", "wiki")
	uncategorized := tool("Thing", "", "wiki")

	assert.InDelta(t, 0.8, Similarity(notion, confluence), 1e-9)
	assert.InDelta(t, 0.5, Similarity(notion, slack), 1e-9)
	assert.InDelta(t, 1.0, Similarity(uncategorized, tool("Other", "", "wiki")), 1e-9)
}

func TestRelationships(t *testing.T) {
	alpha := tool("Alpha", "docs", "notes", "wiki")
	beta := tool("Beta", "docs", "notes")
	gamma := tool("Gamma", "design", "wiki")
	delta := tool("Delta", "payments", "billing")
	tools := []models.Tool{gamma, delta, beta, alpha}

	opts := RelationshipOptions{TopK: 5, Threshold: 0.2}

	t.Run("scores and types", func(t *testing.T) {
		rels := Relationships(tools, opts, nil)
		require.Len(t, rels, 4)

		type edge struct {
			from, to uuid.UUID
			kind     string
			strength float64
		}
		var got []edge
		for _, r := range rels {
			got = append(got, edge{r.ToolID, r.RelatedToolID, r.RelationshipType, r.Strength})
		}
		assert.Equal(t, []edge{
			{alpha.ID, beta.ID, models.RelationshipAlternative, 0.8},
			{alpha.ID, gamma.ID, models.RelationshipComplements, 0.5},
			{beta.ID, alpha.ID, models.RelationshipAlternative, 0.8},
			{gamma.ID, alpha.ID, models.RelationshipComplements, 0.5},
		}, got)
	})

	t.Run("top k", func(t *testing.T) {
		rels := Relationships(tools, RelationshipOptions{TopK: 1, Threshold: 0.2}, nil)
		for _, r := range rels {
			if r.ToolID == alpha.ID {
				assert.Equal(t, beta.ID, r.RelatedToolID)
			}
		}
		assert.Len(t, rels, 3)
	})

	t.Run("threshold", func(t *testing.T) {
		rels := Relationships(tools, RelationshipOptions{TopK: 5, Threshold: 0.6}, nil)
		assert.Len(t, rels, 2)
	})

	t.Run("never self related", func(t *testing.T) {
		rels := Relationships(tools, RelationshipOptions{TopK: 10, Threshold: 0, Jitter: 0.5}, rand.New(rand.NewPCG(1, 2)))
		for _, r := range rels {
			assert.NotEqual(t, r.ToolID, r.RelatedToolID)
			assert.LessOrEqual(t, r.Strength, 1.0)
		}
		assert.Len(t, rels, 12)
	})

	t.Run("seeded source is reproducible", func(t *testing.T) {
		withJitter := RelationshipOptions{TopK: 2, Threshold: 0.1, Jitter: 0.3}
		first := Relationships(tools, withJitter, rand.New(rand.NewPCG(42, 42)))
		second := Relationships(tools, withJitter, rand.New(rand.NewPCG(42, 42)))
		assert.Equal(t, first, second)
	})
}

func recommended(t models.Tool, step uuid.UUID, relevance float64) models.RecommendedTool {
	return models.RecommendedTool{Tool: t, StepID: step, RelevanceScore: relevance}
}

func TestPathways(t *testing.T) {
	phase := uuid.New()
	product := uuid.New()
	marketing := uuid.New()

	step := func(name string, domain uuid.UUID, domainName string) models.Step {
		return models.Step{ID: uuid.New(), PhaseID: phase, DomainID: domain, Name: name, PhaseName: "Build", DomainName: domainName}
	}
	s1 := step("Write the PRD", product, "Product")
	s2 := step("Document decisions", product, "Product")
	s3 := step("Publish roadmap", product, "Product")
	s4 := step("Plan launch", marketing, "Marketing")

	notion := tool("Notion", "docs", "notes")
	slack := tool("Slack", "chat", "messaging")
	confluence := tool("Confluence", "docs", "notes", "wiki")
	discord := tool("Discord", "chat", "messaging", "community")

	recs := []models.RecommendedTool{
		recommended(notion, s1.ID, 0.9),
		recommended(slack, s1.ID, 0.8),
		recommended(notion, s2.ID, 0.7),
		recommended(confluence, s2.ID, 0.6),
		recommended(discord, s2.ID, 0.9),
		recommended(notion, s3.ID, 0.5),
	}

	pathways := Pathways([]models.Step{s1, s2, s3, s4}, recs, PathwayOptions{RelevanceWeight: 0.5}, nil)
	require.Len(t, pathways, 1, "cells without recommendations produce no pathway")

	p := pathways[0]
	assert.Equal(t, "Build / Product", p.Name)
	assert.Equal(t, phase, p.PhaseID)
	assert.Equal(t, product, p.DomainID)
	assert.Equal(t, []uuid.UUID{s1.ID, s2.ID, s3.ID}, p.StepIDs)
	// Notion first on relevance, Confluence is Notion's nearest unused
	// neighbour, and Notion comes back once it is the only option.
	assert.Equal(t, []uuid.UUID{notion.ID, confluence.ID, notion.ID}, p.ToolIDs)
	assert.InDelta(t, (0.9+1.1+1.05)/3, p.Score, 1e-4)
}

func TestPathwaysJitterOnlyAffectsFirstPick(t *testing.T) {
	phase, domain := uuid.New(), uuid.New()
	s1 := models.Step{ID: uuid.New(), PhaseID: phase, DomainID: domain}

	a := tool("A", "x", "t")
	b := tool("B", "y", "u")
	recs := []models.RecommendedTool{recommended(a, s1.ID, 0.50), recommended(b, s1.ID, 0.45)}

	// The second draw lifts B past A.
	src := &sequence{values: []float64{0, 1}}
	pathways := Pathways([]models.Step{s1}, recs, PathwayOptions{Jitter: 0.1, RelevanceWeight: 0.5}, src)
	require.Len(t, pathways, 1)
	assert.Equal(t, []uuid.UUID{b.ID}, pathways[0].ToolIDs)
	assert.InDelta(t, 0.45, pathways[0].Score, 1e-9)
}

type sequence struct {
	values []float64
	i      int
}

func (s *sequence) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestPersonalize(t *testing.T) {
	step := uuid.New()
	selected := tool("Xero", "accounting")

	notion := recommended(tool("Notion", "docs"), step, 0.8)
	notion.Rating = 4.5
	notion.IsPrimary = true

	slack := recommended(tool("Slack", "Chat"), step, 0.9)
	slack.Rating = 4
	slack.MonthlyCostCents = 5000

	salesforce := recommended(tool("Salesforce", "crm"), step, 0.9)
	salesforce.Rating = 5
	salesforce.MonthlyCostCents = 20000

	xero := recommended(selected, step, 1)
	xero.Rating = 5

	profile := NewProfile(models.BudgetSummary{
		HasBudget:      true,
		RemainingCents: 10000,
		Selections: []models.ToolSelection{
			{ToolID: selected.ID, Category: "accounting"},
			{ToolID: uuid.New(), Category: "chat"},
		},
	})

	got := Personalize([]models.RecommendedTool{xero, slack, salesforce, notion}, profile, 0)
	require.Len(t, got, 4)

	names := []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name}
	assert.Equal(t, []string{"Notion", "Salesforce", "Slack", "Xero"}, names)

	assert.InDelta(t, 0.97, got[0].Score, 1e-4)
	assert.Equal(t, []string{"primary recommendation for this step", "free"}, got[0].Reasons)
	assert.True(t, got[0].Affordable)

	assert.InDelta(t, 0.75, got[1].Score, 1e-4)
	assert.False(t, got[1].Affordable)
	assert.Equal(t, []string{"exceeds remaining budget"}, got[1].Reasons)

	assert.InDelta(t, 0.64, got[2].Score, 1e-4)
	assert.Equal(t, []string{"category already covered"}, got[2].Reasons)

	assert.InDelta(t, 0.5, got[3].Score, 1e-4)
	assert.Equal(t, []string{"free", "already selected"}, got[3].Reasons)
}

func TestPersonalizeLimitAndTies(t *testing.T) {
	step := uuid.New()
	b := recommended(tool("Beta", "x"), step, 0.5)
	a := recommended(tool("Alpha", "x"), step, 0.5)
	c := recommended(tool("Gamma", "x"), step, 0.1)

	got := Personalize([]models.RecommendedTool{b, c, a}, Profile{}, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Beta", got[1].Name)
}

func TestPersonalizeWithoutBudget(t *testing.T) {
	step := uuid.New()
	paid := recommended(tool("Paid", "x"), step, 0)
	paid.MonthlyCostCents = 100_000

	got := Personalize([]models.RecommendedTool{paid}, Profile{}, 0)
	require.Len(t, got, 1)
	assert.True(t, got[0].Affordable)
	assert.InDelta(t, 0.1, got[0].Score, 1e-9)
}
