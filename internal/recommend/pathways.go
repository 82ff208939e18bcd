package recommend

import (
	"fmt"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

type PathwayOptions struct {
	// Jitter randomizes the first pick of each pathway.
	Jitter float64
	// RelevanceWeight scales a candidate's step relevance against its
	// similarity to the previous pick.
	RelevanceWeight float64
}

func DefaultPathwayOptions() PathwayOptions {
	return PathwayOptions{Jitter: 0.1, RelevanceWeight: 0.5}
}

type cell struct {
	phaseID  uuid.UUID
	domainID uuid.UUID
}

// Pathways builds one tool chain per phase/domain cell. steps must be in
// journey order; recs are the step/tool recommendations for any steps.
//
// The first tool is the most relevant one for the cell's first step that has
// recommendations, with jitter. Every following step takes its nearest
// neighbour to the previous pick, scored as similarity plus weighted
// relevance, and never reuses a tool while an unused one is available. A
// pathway's score is the mean of its edge scores. Cells whose steps have no
// recommendations produce no pathway.
func Pathways(steps []models.Step, recs []models.RecommendedTool, opts PathwayOptions, src Source) []models.Pathway {
	src = sourceOrZero(src)

	byStep := make(map[uuid.UUID][]models.RecommendedTool)
	for _, rec := range recs {
		byStep[rec.StepID] = append(byStep[rec.StepID], rec)
	}

	var (
		order  []cell
		groups = make(map[cell][]models.Step)
	)
	for _, step := range steps {
		key := cell{phaseID: step.PhaseID, domainID: step.DomainID}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], step)
	}

	var out []models.Pathway
	for _, key := range order {
		cellSteps := groups[key]

		var (
			stepIDs []uuid.UUID
			toolIDs []uuid.UUID
			edges   []float64
			used    = make(map[uuid.UUID]bool)
			prev    *models.RecommendedTool
		)
		for _, step := range cellSteps {
			candidates := byStep[step.ID]
			if len(candidates) == 0 {
				continue
			}

			var (
				pick  models.RecommendedTool
				score float64
			)
			if prev == nil {
				pick, score = pickFirst(candidates, opts.Jitter, src)
			} else {
				pick, score = pickNext(*prev, candidates, used, opts.RelevanceWeight)
			}

			stepIDs = append(stepIDs, step.ID)
			toolIDs = append(toolIDs, pick.ID)
			edges = append(edges, score)
			used[pick.ID] = true
			prev = &pick
		}
		if len(toolIDs) == 0 {
			continue
		}

		first := cellSteps[0]
		out = append(out, models.Pathway{
			Name:     fmt.Sprintf("%s / %s", first.PhaseName, first.DomainName),
			PhaseID:  key.phaseID,
			DomainID: key.domainID,
			StepIDs:  stepIDs,
			ToolIDs:  toolIDs,
			Score:    round(mean(edges)),
		})
	}
	return out
}

// pickFirst draws src once per candidate, in slice order.
func pickFirst(candidates []models.RecommendedTool, jitter float64, src Source) (models.RecommendedTool, float64) {
	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		score := c.RelevanceScore + jitter*src.Float64()
		if best < 0 || better(score, c.Name, bestScore, candidates[best].Name) {
			best, bestScore = i, score
		}
	}
	return candidates[best], candidates[best].RelevanceScore
}

func pickNext(prev models.RecommendedTool, candidates []models.RecommendedTool, used map[uuid.UUID]bool, weight float64) (models.RecommendedTool, float64) {
	allUsed := true
	for _, c := range candidates {
		if !used[c.ID] {
			allUsed = false
			break
		}
	}

	best := -1
	bestScore := 0.0
	for i, c := range candidates {
		if used[c.ID] && !allUsed {
			continue
		}
		score := Similarity(prev.Tool, c.Tool) + weight*c.RelevanceScore
		if best < 0 || better(score, c.Name, bestScore, candidates[best].Name) {
			best, bestScore = i, score
		}
	}
	return candidates[best], bestScore
}

// better orders by score, then by name so equal scores resolve the same
// way on every run.
func better(score float64, name string, bestScore float64, bestName string) bool {
	if score != bestScore {
		return score > bestScore
	}
	return name < bestName
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
