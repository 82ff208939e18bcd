package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/database/dbtest"
)

func TestDefaultFixture(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	assert.Len(t, f.Phases, 5)
	assert.Len(t, f.Domains, 5)
	assert.NotEmpty(t, f.Tools)
	assert.NotEmpty(t, f.Steps)

	for _, s := range f.Steps {
		assert.NotEmpty(t, s.Tools, "step %q has no recommended tools", s.Name)
	}
}

func TestValidate(t *testing.T) {
	data := []byte(`
phases:
  - {name: Build, order: 1}
  - {name: Build, order: 1}
domains:
  - {name: Product}
tools:
  - {name: Figma, pricing_model: subscription, rating: 7}
steps:
  - name: Design
    phase: Launch
    domain: Sales
    difficulty: expert
    tools:
      - {name: Sketch, relevance: 2}
`)

	_, err := Parse(data)
	require.Error(t, err)

	for _, want := range []string{
		`duplicate phase "Build"`,
		`share order 1`,
		`unknown pricing model "subscription"`,
		`rating 7.0 out of range`,
		`unknown phase "Launch"`,
		`unknown domain "Sales"`,
		`unknown difficulty "expert"`,
		`unknown tool "Sketch"`,
		`relevance of "Sketch" out of range`,
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("phases: [this is: not valid"))
	assert.ErrorContains(t, err, "parse fixture")
}

func TestApplyIsIdempotent(t *testing.T) {
	pool := dbtest.NewPool(t)
	ctx := context.Background()

	f, err := Default()
	require.NoError(t, err)

	first, err := Apply(ctx, pool, f)
	require.NoError(t, err)
	assert.Equal(t, len(f.Steps), first.Steps)

	second, err := Apply(ctx, pool, f)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var steps, recs int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM journey_canonical_steps`).Scan(&steps))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM journey_step_tool_recommendations`).Scan(&recs))
	assert.Equal(t, first.Steps, steps)
	assert.Equal(t, first.Recommendations, recs)
}
