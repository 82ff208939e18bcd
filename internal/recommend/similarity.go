// Package recommend holds the scoring behind tool relationships, tool
// pathways and personalized recommendations. Everything here is pure: the
// callers load rows, pass them in and persist what comes back.
package recommend

import (
	"math"
	"strings"

	"startup_journey/internal/models"
)

// CategoryBonus is added to the tag similarity of two tools in the same
// category.
const CategoryBonus = 0.3

// Source provides the random jitter used to break ties between equally
// similar tools. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
}

// zeroSource disables jitter.
type zeroSource struct{}

func (zeroSource) Float64() float64 { return 0 }

func sourceOrZero(src Source) Source {
	if src == nil {
		return zeroSource{}
	}
	return src
}

// Jaccard returns |a ∩ b| / |a ∪ b| over case-folded, trimmed tags. Two
// empty sets have similarity 0.
func Jaccard(a, b []string) float64 {
	setA := tagSet(a)
	setB := tagSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	inter := 0
	for tag := range setA {
		if setB[tag] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = true
		}
	}
	return set
}

func SameCategory(a, b models.Tool) bool {
	return a.Category != "" && strings.EqualFold(a.Category, b.Category)
}

// Similarity scores two tools on shared tags, plus CategoryBonus when they
// share a category.
func Similarity(a, b models.Tool) float64 {
	s := Jaccard(a.Tags, b.Tags)
	if SameCategory(a, b) {
		s += CategoryBonus
	}
	return s
}

func round(v float64) float64 {
	return math.Round(v*10000) / 10000
}
