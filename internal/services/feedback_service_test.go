package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/models"
)

func TestSubmitFeedbackValidation(t *testing.T) {
	svc := NewFeedbackService(newFakeFeedback())
	stepID := uuid.New()

	tests := []struct {
		name string
		req  SubmitFeedbackRequest
		want error
	}{
		{"rating too low", SubmitFeedbackRequest{EntityType: models.EntityStep, EntityID: &stepID, Rating: 0}, ErrInvalidRating},
		{"rating too high", SubmitFeedbackRequest{EntityType: models.EntityStep, EntityID: &stepID, Rating: 6}, ErrInvalidRating},
		{"unknown entity", SubmitFeedbackRequest{EntityType: "company", EntityID: &stepID, Rating: 3}, ErrInvalidEntityType},
		{"missing entity id", SubmitFeedbackRequest{EntityType: models.EntityTool, Rating: 3}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), uuid.New(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGeneralFeedbackDropsEntityID(t *testing.T) {
	svc := NewFeedbackService(newFakeFeedback())
	id := uuid.New()

	fb, err := svc.Submit(context.Background(), uuid.New(), SubmitFeedbackRequest{
		EntityType: models.EntityGeneral,
		EntityID:   &id,
		Rating:     4,
		Comment:    "  Love the journey view  ",
	})
	require.NoError(t, err)
	assert.Nil(t, fb.EntityID)
	assert.Equal(t, "Love the journey view", fb.Comment)
}

func TestListForEntitySummary(t *testing.T) {
	svc := NewFeedbackService(newFakeFeedback())
	ctx := context.Background()
	stepID := uuid.New()
	other := uuid.New()

	for _, rating := range []int{5, 4, 4, 2} {
		_, err := svc.Submit(ctx, uuid.New(), SubmitFeedbackRequest{EntityType: models.EntityStep, EntityID: &stepID, Rating: rating})
		require.NoError(t, err)
	}
	_, err := svc.Submit(ctx, uuid.New(), SubmitFeedbackRequest{EntityType: models.EntityStep, EntityID: &other, Rating: 1})
	require.NoError(t, err)

	list, err := svc.ListForEntity(ctx, models.EntityStep, &stepID, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 4)
	assert.Equal(t, 4, list.Summary.Count)
	assert.InDelta(t, 3.75, list.Summary.Average, 1e-9)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 0, 4: 2, 5: 1}, list.Summary.Distribution)
}

func TestSummarizeRatingsEmpty(t *testing.T) {
	sum := summarizeRatings(nil)
	assert.Zero(t, sum.Count)
	assert.Zero(t, sum.Average)
	assert.Len(t, sum.Distribution, 5)
}

func TestSuggestionLifecycle(t *testing.T) {
	svc := NewFeedbackService(newFakeFeedback())
	ctx := context.Background()
	author := uuid.New()

	_, err := svc.CreateSuggestion(ctx, author, CreateSuggestionRequest{Title: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	sg, err := svc.CreateSuggestion(ctx, author, CreateSuggestionRequest{Title: "Dark mode", Category: "UI"})
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionOpen, sg.Status)
	assert.Equal(t, "ui", sg.Category)

	voter := uuid.New()
	res, err := svc.Upvote(ctx, voter, sg.ID)
	require.NoError(t, err)
	assert.Equal(t, UpvoteResult{Upvotes: 1, Counted: true}, *res)

	res, err = svc.Upvote(ctx, voter, sg.ID)
	require.NoError(t, err)
	assert.Equal(t, UpvoteResult{Upvotes: 1, Counted: false}, *res)

	_, err = svc.Upvote(ctx, voter, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateSuggestionStatus(ctx, sg.ID, UpdateSuggestionStatusRequest{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.UpdateSuggestionStatus(ctx, sg.ID, UpdateSuggestionStatusRequest{Status: models.SuggestionPlanned})
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionPlanned, updated.Status)

	got, err := svc.GetSuggestion(ctx, sg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, models.SuggestionPlanned, got.Status)

	_, err = svc.GetSuggestion(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	planned, err := svc.ListSuggestions(ctx, models.SuggestionPlanned)
	require.NoError(t, err)
	assert.Len(t, planned, 1)

	_, err = svc.ListSuggestions(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
