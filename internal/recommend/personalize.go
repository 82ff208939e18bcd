package recommend

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

// Score weights for personalized recommendations.
const (
	relevanceWeight = 0.5
	ratingWeight    = 0.3
	budgetWeight    = 0.2
	primaryBonus    = 0.1

	selectedPenalty = 0.5
	categoryPenalty = 0.2
)

// Profile is what a company has already committed to.
type Profile struct {
	HasBudget          bool
	RemainingCents     int64
	SelectedTools      map[uuid.UUID]bool
	SelectedCategories map[string]bool
}

// NewProfile derives a profile from a budget summary.
func NewProfile(summary models.BudgetSummary) Profile {
	p := Profile{
		HasBudget:          summary.HasBudget,
		RemainingCents:     summary.RemainingCents,
		SelectedTools:      make(map[uuid.UUID]bool, len(summary.Selections)),
		SelectedCategories: make(map[string]bool, len(summary.Selections)),
	}
	for _, s := range summary.Selections {
		p.SelectedTools[s.ToolID] = true
		if s.Category != "" {
			p.SelectedCategories[strings.ToLower(s.Category)] = true
		}
	}
	return p
}

// Personalize ranks recommended tools for one company. The result is
// deterministic: ties are broken by tool name. limit <= 0 keeps everything.
func Personalize(recs []models.RecommendedTool, p Profile, limit int) []models.ScoredTool {
	out := make([]models.ScoredTool, 0, len(recs))
	for _, rec := range recs {
		out = append(out, scoreTool(rec, p))
	}

	slices.SortStableFunc(out, func(a, b models.ScoredTool) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func scoreTool(rec models.RecommendedTool, p Profile) models.ScoredTool {
	st := models.ScoredTool{RecommendedTool: rec, Reasons: []string{}}

	fit, affordable := budgetFit(int64(rec.MonthlyCostCents), p)
	st.Affordable = affordable

	score := relevanceWeight*rec.RelevanceScore +
		ratingWeight*(min(max(rec.Rating, 0), 5)/5) +
		budgetWeight*fit

	if rec.IsPrimary {
		score += primaryBonus
		st.Reasons = append(st.Reasons, "primary recommendation for this step")
	}
	switch {
	case rec.MonthlyCostCents == 0:
		st.Reasons = append(st.Reasons, "free")
	case !affordable:
		st.Reasons = append(st.Reasons, "exceeds remaining budget")
	}
	if p.SelectedTools[rec.ID] {
		score -= selectedPenalty
		st.Reasons = append(st.Reasons, "already selected")
	} else if p.SelectedCategories[strings.ToLower(rec.Category)] {
		score -= categoryPenalty
		st.Reasons = append(st.Reasons, "category already covered")
	}

	st.Score = round(score)
	return st
}

// budgetFit is 1 for free tools, 0.5 when no budget is set, and otherwise
// falls linearly from 1 to 0.5 as the tool eats the remaining budget. Tools
// over budget get 0.
func budgetFit(cost int64, p Profile) (float64, bool) {
	switch {
	case cost <= 0:
		return 1, true
	case !p.HasBudget:
		return 0.5, true
	case p.RemainingCents <= 0 || cost > p.RemainingCents:
		return 0, false
	default:
		return 1 - 0.5*float64(cost)/float64(p.RemainingCents), true
	}
}
