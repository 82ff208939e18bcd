package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

type PersonaStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Persona, error)
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Persona, error)
	Active(ctx context.Context, userID uuid.UUID) (*models.Persona, error)
	Create(ctx context.Context, p *models.Persona) error
	Activate(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListSections(ctx context.Context, personaID uuid.UUID) ([]models.ProfileSection, error)
	UpsertSection(ctx context.Context, s *models.ProfileSection) error
	ReorderSections(ctx context.Context, personaID uuid.UUID, keys []string) error
	DeleteSection(ctx context.Context, personaID uuid.UUID, key string) error
}

type PersonaService struct {
	personaRepo PersonaStore
}

func NewPersonaService(personaRepo PersonaStore) *PersonaService {
	return &PersonaService{personaRepo: personaRepo}
}

var sectionKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,49}$`)

// Taken by the reorder route.
const reservedSectionKey = "order"

type CreatePersonaRequest struct {
	Name        string `json:"name" binding:"required"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

type UpsertSectionRequest struct {
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	IsVisible *bool           `json:"is_visible,omitempty"`
}

type ReorderSectionsRequest struct {
	Keys []string `json:"keys" binding:"required"`
}

func (s *PersonaService) ListPersonas(ctx context.Context, userID uuid.UUID) ([]models.Persona, error) {
	return s.personaRepo.ListByUser(ctx, userID)
}

// CreatePersona adds a persona; a user's first persona starts active.
func (s *PersonaService) CreatePersona(ctx context.Context, userID uuid.UUID, req CreatePersonaRequest) (*models.Persona, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("persona name is required")
	}
	p := &models.Persona{
		UserID:      userID,
		Name:        name,
		Role:        strings.TrimSpace(req.Role),
		Description: req.Description,
	}
	if err := s.personaRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create persona: %w", err)
	}
	return p, nil
}

func (s *PersonaService) ActivePersona(ctx context.Context, userID uuid.UUID) (*models.Persona, error) {
	return s.personaRepo.Active(ctx, userID)
}

func (s *PersonaService) ActivatePersona(ctx context.Context, userID, personaID uuid.UUID) (*models.Persona, error) {
	if err := s.personaRepo.Activate(ctx, personaID, userID); err != nil {
		return nil, err
	}
	return s.personaRepo.GetByIDAndUser(ctx, personaID, userID)
}

func (s *PersonaService) DeletePersona(ctx context.Context, userID, personaID uuid.UUID) error {
	return s.personaRepo.Delete(ctx, personaID, userID)
}

func (s *PersonaService) ListSections(ctx context.Context, userID, personaID uuid.UUID) ([]models.ProfileSection, error) {
	if _, err := s.personaRepo.GetByIDAndUser(ctx, personaID, userID); err != nil {
		return nil, err
	}
	return s.personaRepo.ListSections(ctx, personaID)
}

// UpsertSection writes one section by key. Content must be a JSON object or
// array; it defaults to an empty object. Sections are visible unless the
// request says otherwise.
func (s *PersonaService) UpsertSection(ctx context.Context, userID, personaID uuid.UUID, key string, req UpsertSectionRequest) (*models.ProfileSection, error) {
	if err := validateSectionKey(key); err != nil {
		return nil, err
	}
	if len(req.Content) > 0 {
		if !json.Valid(req.Content) {
			return nil, invalid("section content must be valid JSON")
		}
		if c := firstByte(req.Content); c != '{' && c != '[' {
			return nil, invalid("section content must be a JSON object or array")
		}
	}
	if _, err := s.personaRepo.GetByIDAndUser(ctx, personaID, userID); err != nil {
		return nil, err
	}

	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = key
	}
	section := &models.ProfileSection{
		PersonaID:  personaID,
		SectionKey: key,
		Title:      title,
		Content:    req.Content,
		IsVisible:  visible,
	}
	if err := s.personaRepo.UpsertSection(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to save section: %w", err)
	}
	return section, nil
}

func validateSectionKey(key string) error {
	if key == reservedSectionKey || !sectionKeyPattern.MatchString(key) {
		return invalid("invalid section key %q", key)
	}
	return nil
}

func firstByte(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}

// ReorderSections puts the named sections in the given order. Keys not named
// keep their old index.
func (s *PersonaService) ReorderSections(ctx context.Context, userID, personaID uuid.UUID, req ReorderSectionsRequest) ([]models.ProfileSection, error) {
	if len(req.Keys) == 0 {
		return nil, invalid("keys must not be empty")
	}
	seen := make(map[string]bool, len(req.Keys))
	for _, key := range req.Keys {
		if seen[key] {
			return nil, invalid("duplicate section key %q", key)
		}
		seen[key] = true
	}
	if _, err := s.personaRepo.GetByIDAndUser(ctx, personaID, userID); err != nil {
		return nil, err
	}

	if err := s.personaRepo.ReorderSections(ctx, personaID, req.Keys); err != nil {
		return nil, err
	}
	return s.personaRepo.ListSections(ctx, personaID)
}

func (s *PersonaService) DeleteSection(ctx context.Context, userID, personaID uuid.UUID, key string) error {
	if _, err := s.personaRepo.GetByIDAndUser(ctx, personaID, userID); err != nil {
		return err
	}
	return s.personaRepo.DeleteSection(ctx, personaID, key)
}
