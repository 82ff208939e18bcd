package recommend

import (
	"cmp"
	"slices"

	"startup_journey/internal/models"
)

type RelationshipOptions struct {
	// TopK caps the relationships kept per tool.
	TopK int
	// Threshold is the minimum strength, jitter included.
	Threshold float64
	// Jitter is the width of the random term added to each pair's score.
	Jitter float64
}

func DefaultRelationshipOptions() RelationshipOptions {
	return RelationshipOptions{TopK: 5, Threshold: 0.2, Jitter: 0.1}
}

// Relationships scores every ordered pair of tools and keeps, per tool, the
// TopK strongest links at or above the threshold. Tools in the same category
// are alternatives; anything else complements.
//
// Tools are visited in name order and src is drawn once per ordered pair, so
// a seeded source reproduces the same output.
func Relationships(tools []models.Tool, opts RelationshipOptions, src Source) []models.ToolRelationship {
	src = sourceOrZero(src)
	if opts.TopK <= 0 {
		opts.TopK = DefaultRelationshipOptions().TopK
	}

	sorted := slices.Clone(tools)
	slices.SortFunc(sorted, func(a, b models.Tool) int { return cmp.Compare(a.Name, b.Name) })

	type candidate struct {
		tool     models.Tool
		strength float64
	}

	var out []models.ToolRelationship
	for i, tool := range sorted {
		var candidates []candidate
		for j, other := range sorted {
			if i == j || other.ID == tool.ID {
				continue
			}
			strength := Similarity(tool, other) + opts.Jitter*src.Float64()
			if strength < opts.Threshold {
				continue
			}
			candidates = append(candidates, candidate{tool: other, strength: min(round(strength), 1)})
		}

		slices.SortStableFunc(candidates, func(a, b candidate) int {
			if c := cmp.Compare(b.strength, a.strength); c != 0 {
				return c
			}
			return cmp.Compare(a.tool.Name, b.tool.Name)
		})
		if len(candidates) > opts.TopK {
			candidates = candidates[:opts.TopK]
		}

		for _, c := range candidates {
			relType := models.RelationshipComplements
			if SameCategory(tool, c.tool) {
				relType = models.RelationshipAlternative
			}
			out = append(out, models.ToolRelationship{
				ToolID:           tool.ID,
				RelatedToolID:    c.tool.ID,
				RelationshipType: relType,
				Strength:         c.strength,
				RelatedToolName:  c.tool.Name,
			})
		}
	}
	return out
}
