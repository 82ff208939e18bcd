package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"startup_journey/internal/models"
	"startup_journey/internal/repositories"
)

type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	hits    int
	pingErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return c.pingErr }

var _ repositories.Cache = (*memoryCache)(nil)

type fakeJourney struct {
	phases     []models.Phase
	domains    []models.Domain
	steps      []models.Step
	phaseCalls int
	created    []models.Step
}

func (f *fakeJourney) ListPhases(context.Context) ([]models.Phase, error) {
	f.phaseCalls++
	return f.phases, nil
}

func (f *fakeJourney) ListDomains(context.Context) ([]models.Domain, error) {
	return f.domains, nil
}

func (f *fakeJourney) ListSteps(_ context.Context, filter models.StepFilter) ([]models.Step, error) {
	out := []models.Step{}
	for _, s := range f.steps {
		if filter.PhaseID != nil && s.PhaseID != *filter.PhaseID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeJourney) GetStep(_ context.Context, id uuid.UUID) (*models.Step, error) {
	for _, s := range f.steps {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeJourney) CreateStep(_ context.Context, step *models.Step) error {
	step.Prepare()
	f.created = append(f.created, *step)
	f.steps = append(f.steps, *step)
	return nil
}

func (f *fakeJourney) UpdateStep(_ context.Context, step *models.Step) error {
	for i := range f.steps {
		if f.steps[i].ID == step.ID {
			f.steps[i] = *step
			return nil
		}
	}
	return ErrNotFound
}

type fakeTools struct {
	tools    []models.Tool
	recs     []models.RecommendedTool
	rels     []models.ToolRelationship
	pathways []models.Pathway
	upserted []models.Recommendation
	replaced bool
}

func (f *fakeTools) ListTools(context.Context, models.ToolFilter) ([]models.Tool, error) {
	return f.tools, nil
}

func (f *fakeTools) GetTool(_ context.Context, id uuid.UUID) (*models.Tool, error) {
	for _, t := range f.tools {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeTools) CreateTool(_ context.Context, tool *models.Tool) error {
	tool.Prepare()
	f.tools = append(f.tools, *tool)
	return nil
}

func (f *fakeTools) StepRecommendations(_ context.Context, stepID uuid.UUID) ([]models.RecommendedTool, error) {
	out := []models.RecommendedTool{}
	for _, r := range f.recs {
		if r.StepID == stepID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTools) AllRecommendations(context.Context) ([]models.RecommendedTool, error) {
	return f.recs, nil
}

func (f *fakeTools) UpsertRecommendation(_ context.Context, rec *models.Recommendation) error {
	rec.Prepare()
	f.upserted = append(f.upserted, *rec)
	return nil
}

func (f *fakeTools) Relationships(context.Context, uuid.UUID) ([]models.ToolRelationship, error) {
	return f.rels, nil
}

func (f *fakeTools) ReplaceRelationships(_ context.Context, rels []models.ToolRelationship) error {
	f.rels = rels
	f.replaced = true
	return nil
}

func (f *fakeTools) ReplacePathways(_ context.Context, pathways []models.Pathway) error {
	f.pathways = pathways
	f.replaced = true
	return nil
}

func (f *fakeTools) ListPathways(context.Context) ([]models.Pathway, error) {
	return f.pathways, nil
}

type fakeCompanies struct {
	companies  map[uuid.UUID]models.Company
	progress   map[uuid.UUID]models.Progress
	budgets    map[uuid.UUID]models.Budget
	selections []models.ToolSelection
}

func newFakeCompanies() *fakeCompanies {
	return &fakeCompanies{
		companies: map[uuid.UUID]models.Company{},
		progress:  map[uuid.UUID]models.Progress{},
		budgets:   map[uuid.UUID]models.Budget{},
	}
}

func (f *fakeCompanies) add(ownerID uuid.UUID) uuid.UUID {
	c := models.Company{OwnerID: ownerID, Name: "Acme"}
	c.Prepare()
	f.companies[c.ID] = c
	return c.ID
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	c.Prepare()
	c.CreatedAt = time.Now()
	f.companies[c.ID] = *c
	return nil
}

func (f *fakeCompanies) GetByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok || c.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (f *fakeCompanies) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Company, error) {
	out := []models.Company{}
	for _, c := range f.companies {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompanies) ListProgress(_ context.Context, companyID uuid.UUID) ([]models.Progress, error) {
	out := []models.Progress{}
	for _, p := range f.progress {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCompanies) GetProgress(_ context.Context, companyID, stepID uuid.UUID) (*models.Progress, error) {
	p, ok := f.progress[stepID]
	if !ok || p.CompanyID != companyID {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (f *fakeCompanies) UpsertProgress(_ context.Context, p *models.Progress) error {
	p.Prepare()
	p.UpdatedAt = time.Now()
	f.progress[p.StepID] = *p
	return nil
}

func (f *fakeCompanies) GetBudget(_ context.Context, companyID uuid.UUID) (*models.Budget, error) {
	b, ok := f.budgets[companyID]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (f *fakeCompanies) UpsertBudget(_ context.Context, b *models.Budget) error {
	b.UpdatedAt = time.Now()
	f.budgets[b.CompanyID] = *b
	return nil
}

func (f *fakeCompanies) ListSelections(_ context.Context, companyID uuid.UUID) ([]models.ToolSelection, error) {
	out := []models.ToolSelection{}
	for _, s := range f.selections {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCompanies) UpsertSelection(_ context.Context, s *models.ToolSelection) error {
	s.Prepare()
	for i := range f.selections {
		if f.selections[i].CompanyID == s.CompanyID && f.selections[i].ToolID == s.ToolID {
			f.selections[i] = *s
			return nil
		}
	}
	f.selections = append(f.selections, *s)
	return nil
}

func (f *fakeCompanies) DeleteSelection(_ context.Context, companyID, toolID uuid.UUID) error {
	for i, s := range f.selections {
		if s.CompanyID == companyID && s.ToolID == toolID {
			f.selections = append(f.selections[:i], f.selections[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakeFeedback struct {
	items       []models.Feedback
	suggestions map[uuid.UUID]*models.Suggestion
	votes       map[[2]uuid.UUID]bool
}

func newFakeFeedback() *fakeFeedback {
	return &fakeFeedback{
		suggestions: map[uuid.UUID]*models.Suggestion{},
		votes:       map[[2]uuid.UUID]bool{},
	}
}

func (f *fakeFeedback) Create(_ context.Context, fb *models.Feedback) error {
	fb.Prepare()
	f.items = append(f.items, *fb)
	return nil
}

func (f *fakeFeedback) matching(entityType string, entityID *uuid.UUID) []models.Feedback {
	out := []models.Feedback{}
	for _, fb := range f.items {
		if fb.EntityType != entityType {
			continue
		}
		if (fb.EntityID == nil) != (entityID == nil) {
			continue
		}
		if fb.EntityID != nil && *fb.EntityID != *entityID {
			continue
		}
		out = append(out, fb)
	}
	return out
}

func (f *fakeFeedback) ListForEntity(_ context.Context, entityType string, entityID *uuid.UUID, _ int) ([]models.Feedback, error) {
	return f.matching(entityType, entityID), nil
}

func (f *fakeFeedback) RatingCounts(_ context.Context, entityType string, entityID *uuid.UUID) (map[int]int, error) {
	counts := map[int]int{}
	for _, fb := range f.matching(entityType, entityID) {
		counts[fb.Rating]++
	}
	return counts, nil
}

func (f *fakeFeedback) CreateSuggestion(_ context.Context, s *models.Suggestion) error {
	s.Prepare()
	f.suggestions[s.ID] = s
	return nil
}

func (f *fakeFeedback) ListSuggestions(_ context.Context, status string) ([]models.Suggestion, error) {
	out := []models.Suggestion{}
	for _, s := range f.suggestions {
		if status == "" || s.Status == status {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeFeedback) Upvote(_ context.Context, suggestionID, userID uuid.UUID) (int, bool, error) {
	s, ok := f.suggestions[suggestionID]
	if !ok {
		return 0, false, ErrInvalidReference
	}
	key := [2]uuid.UUID{suggestionID, userID}
	if f.votes[key] {
		return s.Upvotes, false, nil
	}
	f.votes[key] = true
	s.Upvotes++
	return s.Upvotes, true, nil
}

func (f *fakeFeedback) GetSuggestion(_ context.Context, id uuid.UUID) (*models.Suggestion, error) {
	s, ok := f.suggestions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeFeedback) UpdateSuggestionStatus(_ context.Context, id uuid.UUID, status string) (*models.Suggestion, error) {
	s, ok := f.suggestions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.Status = status
	out := *s
	return &out, nil
}
