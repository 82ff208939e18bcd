package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/handlers"
	"startup_journey/internal/middlewares"
	"startup_journey/internal/models"
	"startup_journey/internal/repositories"
	"startup_journey/internal/services"
	"startup_journey/internal/utils"
)

var secret = []byte("test-secret")

type fakeJourney struct {
	phases []models.Phase
	steps  map[uuid.UUID]*models.Step
}

func (f *fakeJourney) ListPhases(context.Context) ([]models.Phase, error) { return f.phases, nil }
func (f *fakeJourney) ListDomains(context.Context) ([]models.Domain, error) {
	return []models.Domain{}, nil
}
func (f *fakeJourney) ListSteps(context.Context, models.StepFilter) ([]models.Step, error) {
	return []models.Step{}, nil
}
func (f *fakeJourney) GetStep(_ context.Context, id uuid.UUID) (*models.Step, error) {
	s, ok := f.steps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return s, nil
}
func (f *fakeJourney) CreateStep(_ context.Context, s *models.Step) error {
	s.Prepare()
	f.steps[s.ID] = s
	return nil
}
func (f *fakeJourney) UpdateStep(_ context.Context, s *models.Step) error {
	f.steps[s.ID] = s
	return nil
}
func (f *fakeJourney) StepRecommendations(context.Context, uuid.UUID) ([]models.RecommendedTool, error) {
	return nil, nil
}

type fakePersonas struct {
	personas  map[uuid.UUID]*models.Persona
	sections  map[uuid.UUID][]models.ProfileSection
	reordered []string
}

func (f *fakePersonas) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Persona, error) {
	var out []models.Persona
	for _, p := range f.personas {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (f *fakePersonas) GetByIDAndUser(_ context.Context, id, userID uuid.UUID) (*models.Persona, error) {
	p, ok := f.personas[id]
	if !ok || p.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return p, nil
}
func (f *fakePersonas) Active(context.Context, uuid.UUID) (*models.Persona, error) {
	return nil, repositories.ErrNotFound
}
func (f *fakePersonas) Create(_ context.Context, p *models.Persona) error {
	p.Prepare()
	f.personas[p.ID] = p
	return nil
}
func (f *fakePersonas) Activate(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (f *fakePersonas) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(f.personas, id)
	return nil
}
func (f *fakePersonas) ListSections(_ context.Context, personaID uuid.UUID) ([]models.ProfileSection, error) {
	return f.sections[personaID], nil
}
func (f *fakePersonas) UpsertSection(_ context.Context, s *models.ProfileSection) error {
	f.sections[s.PersonaID] = append(f.sections[s.PersonaID], *s)
	return nil
}
func (f *fakePersonas) ReorderSections(_ context.Context, _ uuid.UUID, keys []string) error {
	f.reordered = slices.Clone(keys)
	return nil
}
func (f *fakePersonas) DeleteSection(context.Context, uuid.UUID, string) error { return nil }

type fixture struct {
	router   *gin.Engine
	journey  *fakeJourney
	personas *fakePersonas
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		journey: &fakeJourney{
			phases: []models.Phase{{ID: uuid.New(), Name: "Ideation", OrderIndex: 1}},
			steps:  map[uuid.UUID]*models.Step{},
		},
		personas: &fakePersonas{
			personas: map[uuid.UUID]*models.Persona{},
			sections: map[uuid.UUID][]models.ProfileSection{},
		},
	}

	journeyService := services.NewJourneyService(f.journey, f.journey, nil)
	personaService := services.NewPersonaService(f.personas)

	f.router = gin.New()
	RegisterRoutes(f.router, Handlers{
		Journey: handlers.NewJourneyHandler(journeyService),
		Persona: handlers.NewPersonaHandler(personaService),
		Health:  handlers.NewHealthHandler(map[string]handlers.Pinger{"cache": repositories.NoopCache{}}),
	}, middlewares.Authenticate(secret))
	return f
}

func token(t *testing.T, userID uuid.UUID, admin bool) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, userID, admin, time.Hour)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func TestAPIRequiresToken(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodGet, "/api/v1/phases", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "error", env.Status)

	code, _ = f.do(t, http.MethodGet, "/api/v1/phases", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHealthIsPublic(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","components":{"cache":"ok"}}`, rec.Body.String())
}

func TestListPhases(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodGet, "/api/v1/phases", token(t, uuid.New(), false), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)

	var phases []models.Phase
	require.NoError(t, json.Unmarshal(env.Data, &phases))
	require.Len(t, phases, 1)
	assert.Equal(t, "Ideation", phases[0].Name)
}

func TestGetStepErrors(t *testing.T) {
	f := newFixture(t)
	tok := token(t, uuid.New(), false)

	code, _ := f.do(t, http.MethodGet, "/api/v1/steps/not-a-uuid", tok, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := f.do(t, http.MethodGet, "/api/v1/steps/"+uuid.NewString(), tok, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Failed to get step", env.Message)
}

func TestListStepsRejectsUnknownDifficulty(t *testing.T) {
	f := newFixture(t)

	code, _ := f.do(t, http.MethodGet, "/api/v1/steps?difficulty=legendary", token(t, uuid.New(), false), nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCreateStepIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{
		"phase_id":  uuid.NewString(),
		"domain_id": uuid.NewString(),
		"name":      "Talk to ten customers",
	}

	code, _ := f.do(t, http.MethodPost, "/api/v1/steps", token(t, uuid.New(), false), body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Empty(t, f.journey.steps)

	code, env := f.do(t, http.MethodPost, "/api/v1/steps", token(t, uuid.New(), true), body)
	require.Equal(t, http.StatusCreated, code)

	var step models.Step
	require.NoError(t, json.Unmarshal(env.Data, &step))
	assert.Equal(t, "Talk to ten customers", step.Name)
	assert.Contains(t, f.journey.steps, step.ID)
}

func TestCreateStepValidatesBody(t *testing.T) {
	f := newFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/v1/steps", token(t, uuid.New(), true), map[string]any{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestPersonaSectionRouting(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	persona := &models.Persona{ID: uuid.New(), UserID: userID, Name: "Founder"}
	f.personas.personas[persona.ID] = persona
	tok := token(t, userID, false)
	base := "/api/v1/personas/" + persona.ID.String() + "/sections/"

	t.Run("order is the reorder route", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPut, base+"order", tok, map[string]any{"keys": []string{"bio", "intro"}})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []string{"bio", "intro"}, f.personas.reordered)
	})

	t.Run("other keys upsert a section", func(t *testing.T) {
		code, env := f.do(t, http.MethodPut, base+"intro", tok, map[string]any{
			"content": map[string]any{"headline": "Building in public"},
		})
		require.Equal(t, http.StatusOK, code)

		var section models.ProfileSection
		require.NoError(t, json.Unmarshal(env.Data, &section))
		assert.Equal(t, "intro", section.SectionKey)
		assert.Equal(t, "intro", section.Title)
		assert.True(t, section.IsVisible)
	})

	t.Run("invalid key", func(t *testing.T) {
		code, _ := f.do(t, http.MethodPut, base+"Bad-Key", tok, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("another user's persona", func(t *testing.T) {
		code, _ := f.do(t, http.MethodGet, base[:len(base)-1], token(t, uuid.New(), false), nil)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
