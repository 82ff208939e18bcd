package services

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startup_journey/internal/models"
)

type fakePersonas struct {
	personas []models.Persona
	sections []models.ProfileSection
}

func (f *fakePersonas) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Persona, error) {
	out := []models.Persona{}
	for _, p := range f.personas {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePersonas) GetByIDAndUser(_ context.Context, id, userID uuid.UUID) (*models.Persona, error) {
	for _, p := range f.personas {
		if p.ID == id && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakePersonas) Active(_ context.Context, userID uuid.UUID) (*models.Persona, error) {
	for _, p := range f.personas {
		if p.UserID == userID && p.IsActive {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakePersonas) Create(ctx context.Context, p *models.Persona) error {
	p.Prepare()
	_, err := f.Active(ctx, p.UserID)
	p.IsActive = err != nil
	f.personas = append(f.personas, *p)
	return nil
}

func (f *fakePersonas) Activate(_ context.Context, id, userID uuid.UUID) error {
	found := false
	for i := range f.personas {
		if f.personas[i].ID == id && f.personas[i].UserID == userID {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	for i := range f.personas {
		if f.personas[i].UserID == userID {
			f.personas[i].IsActive = f.personas[i].ID == id
		}
	}
	return nil
}

func (f *fakePersonas) Delete(_ context.Context, id, userID uuid.UUID) error {
	i := slices.IndexFunc(f.personas, func(p models.Persona) bool { return p.ID == id && p.UserID == userID })
	if i < 0 {
		return ErrNotFound
	}
	wasActive := f.personas[i].IsActive
	f.personas = slices.Delete(f.personas, i, i+1)
	if wasActive {
		for j := range f.personas {
			if f.personas[j].UserID == userID {
				f.personas[j].IsActive = true
				break
			}
		}
	}
	return nil
}

func (f *fakePersonas) ListSections(_ context.Context, personaID uuid.UUID) ([]models.ProfileSection, error) {
	out := []models.ProfileSection{}
	for _, s := range f.sections {
		if s.PersonaID == personaID {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b models.ProfileSection) int { return a.OrderIndex - b.OrderIndex })
	return out, nil
}

func (f *fakePersonas) UpsertSection(_ context.Context, s *models.ProfileSection) error {
	s.Prepare()
	next := 0
	for i := range f.sections {
		if f.sections[i].PersonaID != s.PersonaID {
			continue
		}
		if f.sections[i].SectionKey == s.SectionKey {
			s.ID = f.sections[i].ID
			s.OrderIndex = f.sections[i].OrderIndex
			f.sections[i] = *s
			return nil
		}
		next = max(next, f.sections[i].OrderIndex+1)
	}
	s.OrderIndex = next
	f.sections = append(f.sections, *s)
	return nil
}

func (f *fakePersonas) ReorderSections(_ context.Context, personaID uuid.UUID, keys []string) error {
	for i, key := range keys {
		j := slices.IndexFunc(f.sections, func(s models.ProfileSection) bool {
			return s.PersonaID == personaID && s.SectionKey == key
		})
		if j < 0 {
			return ErrNotFound
		}
		f.sections[j].OrderIndex = i
	}
	return nil
}

func (f *fakePersonas) DeleteSection(_ context.Context, personaID uuid.UUID, key string) error {
	j := slices.IndexFunc(f.sections, func(s models.ProfileSection) bool {
		return s.PersonaID == personaID && s.SectionKey == key
	})
	if j < 0 {
		return ErrNotFound
	}
	f.sections = slices.Delete(f.sections, j, j+1)
	return nil
}

func TestPersonaActivation(t *testing.T) {
	repo := &fakePersonas{}
	svc := NewPersonaService(repo)
	ctx := context.Background()
	user := uuid.New()

	first, err := svc.CreatePersona(ctx, user, CreatePersonaRequest{Name: "Founder"})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, "founder", first.Role)

	second, err := svc.CreatePersona(ctx, user, CreatePersonaRequest{Name: "Advisor", Role: "advisor"})
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	activated, err := svc.ActivatePersona(ctx, user, second.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	active, err := svc.ActivePersona(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	_, err = svc.ActivatePersona(ctx, uuid.New(), second.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeletePersona(ctx, user, second.ID))
	active, err = svc.ActivePersona(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
}

func TestUpsertSection(t *testing.T) {
	repo := &fakePersonas{}
	svc := NewPersonaService(repo)
	ctx := context.Background()
	user := uuid.New()
	p, err := svc.CreatePersona(ctx, user, CreatePersonaRequest{Name: "Founder"})
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		req  UpsertSectionRequest
	}{
		{"uppercase key", "Bio", UpsertSectionRequest{}},
		{"reserved key", "order", UpsertSectionRequest{}},
		{"leading digit", "1bio", UpsertSectionRequest{}},
		{"invalid json", "bio", UpsertSectionRequest{Content: json.RawMessage(`{"a":`)}},
		{"scalar content", "bio", UpsertSectionRequest{Content: json.RawMessage(` "text"`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertSection(ctx, user, p.ID, tt.key, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	s, err := svc.UpsertSection(ctx, user, p.ID, "bio", UpsertSectionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "bio", s.Title)
	assert.True(t, s.IsVisible)
	assert.JSONEq(t, `{}`, string(s.Content))

	hidden := false
	s, err = svc.UpsertSection(ctx, user, p.ID, "bio", UpsertSectionRequest{
		Title:     "About me",
		Content:   json.RawMessage(`{"text":"Serial founder"}`),
		IsVisible: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, s.OrderIndex)
	assert.False(t, s.IsVisible)

	_, err = svc.UpsertSection(ctx, uuid.New(), p.ID, "bio", UpsertSectionRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderSections(t *testing.T) {
	repo := &fakePersonas{}
	svc := NewPersonaService(repo)
	ctx := context.Background()
	user := uuid.New()
	p, err := svc.CreatePersona(ctx, user, CreatePersonaRequest{Name: "Founder"})
	require.NoError(t, err)

	for _, key := range []string{"bio", "skills", "links"} {
		_, err := svc.UpsertSection(ctx, user, p.ID, key, UpsertSectionRequest{})
		require.NoError(t, err)
	}

	_, err = svc.ReorderSections(ctx, user, p.ID, ReorderSectionsRequest{Keys: []string{"bio", "bio"}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ReorderSections(ctx, user, p.ID, ReorderSectionsRequest{Keys: []string{"missing"}})
	assert.ErrorIs(t, err, ErrNotFound)

	sections, err := svc.ReorderSections(ctx, user, p.ID, ReorderSectionsRequest{Keys: []string{"links", "bio", "skills"}})
	require.NoError(t, err)
	keys := make([]string, len(sections))
	for i, s := range sections {
		keys[i] = s.SectionKey
	}
	assert.Equal(t, []string{"links", "bio", "skills"}, keys)

	require.NoError(t, svc.DeleteSection(ctx, user, p.ID, "bio"))
	assert.ErrorIs(t, svc.DeleteSection(ctx, user, p.ID, "bio"), ErrNotFound)
}

func TestPersonaCreatedAtDefaults(t *testing.T) {
	repo := &fakePersonas{}
	svc := NewPersonaService(repo)
	before := time.Now()

	p, err := svc.CreatePersona(context.Background(), uuid.New(), CreatePersonaRequest{Name: "Investor", Role: " investor "})
	require.NoError(t, err)
	assert.Equal(t, "investor", p.Role)
	assert.False(t, p.CreatedAt.Before(before))

	_, err = svc.CreatePersona(context.Background(), uuid.New(), CreatePersonaRequest{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)
}
