package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

type DeckStore interface {
	Create(ctx context.Context, d *models.Deck) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Deck, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Deck, error)
	ListSlides(ctx context.Context, deckID uuid.UUID) ([]models.Slide, error)
	AddSlide(ctx context.Context, s *models.Slide) error
	SetPositions(ctx context.Context, deckID uuid.UUID, order []uuid.UUID) error
	ResizeSlide(ctx context.Context, deckID, slideID uuid.UUID, width, height int) (*models.Slide, error)
	DeleteSlide(ctx context.Context, deckID, slideID uuid.UUID) error
}

type CompanyReader interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Company, error)
}

// DeckService backs the experimental pitch deck builder.
type DeckService struct {
	deckRepo  DeckStore
	companies CompanyReader
}

func NewDeckService(deckRepo DeckStore, companies CompanyReader) *DeckService {
	return &DeckService{deckRepo: deckRepo, companies: companies}
}

type CreateDeckRequest struct {
	Title     string     `json:"title" binding:"required"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
}

type AddSlideRequest struct {
	Kind   string `json:"kind"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type MoveSlideRequest struct {
	To int `json:"to" binding:"min=0"`
}

type ResizeSlideRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *DeckService) CreateDeck(ctx context.Context, ownerID uuid.UUID, req CreateDeckRequest) (*models.Deck, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("deck title is required")
	}
	if req.CompanyID != nil {
		if _, err := s.companies.GetByIDAndOwner(ctx, *req.CompanyID, ownerID); err != nil {
			return nil, err
		}
	}

	d := &models.Deck{OwnerID: ownerID, CompanyID: req.CompanyID, Title: title}
	if err := s.deckRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}
	d.Slides = []models.Slide{}
	return d, nil
}

func (s *DeckService) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]models.Deck, error) {
	return s.deckRepo.ListByOwner(ctx, ownerID)
}

// GetDeck returns the deck with its slides in position order.
func (s *DeckService) GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*models.Deck, error) {
	d, err := s.deckRepo.GetByIDAndOwner(ctx, deckID, ownerID)
	if err != nil {
		return nil, err
	}
	d.Slides, err = s.deckRepo.ListSlides(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}
	if d.Slides == nil {
		d.Slides = []models.Slide{}
	}
	return d, nil
}

// AddSlide appends a slide to the end of the deck.
func (s *DeckService) AddSlide(ctx context.Context, ownerID, deckID uuid.UUID, req AddSlideRequest) (*models.Slide, error) {
	if _, err := s.deckRepo.GetByIDAndOwner(ctx, deckID, ownerID); err != nil {
		return nil, err
	}

	slide := &models.Slide{
		DeckID: deckID,
		Kind:   strings.TrimSpace(req.Kind),
		Title:  req.Title,
		Body:   req.Body,
	}
	// Sizes left at zero get the slide defaults.
	if req.Width != 0 {
		slide.Width = clampWidth(req.Width)
	}
	if req.Height != 0 {
		slide.Height = clampHeight(req.Height)
	}
	if err := s.deckRepo.AddSlide(ctx, slide); err != nil {
		return nil, fmt.Errorf("failed to add slide: %w", err)
	}
	return slide, nil
}

// MoveSlide moves one slide to index to, shifting the slides in between the
// way a drag-and-drop list does. to is clamped to the deck's bounds.
func (s *DeckService) MoveSlide(ctx context.Context, ownerID, deckID, slideID uuid.UUID, req MoveSlideRequest) ([]models.Slide, error) {
	deck, err := s.GetDeck(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}
	from := slices.IndexFunc(deck.Slides, func(sl models.Slide) bool { return sl.ID == slideID })
	if from < 0 {
		return nil, ErrNotFound
	}

	moved := moveSlide(deck.Slides, from, req.To)
	order := make([]uuid.UUID, len(moved))
	for i, sl := range moved {
		order[i] = sl.ID
	}
	if err := s.deckRepo.SetPositions(ctx, deckID, order); err != nil {
		return nil, fmt.Errorf("failed to reorder slides: %w", err)
	}
	return moved, nil
}

// moveSlide returns a copy of slides with the slide at from moved to to and
// positions renumbered from zero.
func moveSlide(slides []models.Slide, from, to int) []models.Slide {
	out := slices.Clone(slides)
	if len(out) == 0 {
		return out
	}
	to = max(0, min(to, len(out)-1))

	sl := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, sl)
	for i := range out {
		out[i].Position = i
	}
	return out
}

func (s *DeckService) ResizeSlide(ctx context.Context, ownerID, deckID, slideID uuid.UUID, req ResizeSlideRequest) (*models.Slide, error) {
	if _, err := s.deckRepo.GetByIDAndOwner(ctx, deckID, ownerID); err != nil {
		return nil, err
	}
	w, h := clampSize(req.Width, req.Height)
	return s.deckRepo.ResizeSlide(ctx, deckID, slideID, w, h)
}

func clampSize(width, height int) (int, int) {
	return clampWidth(width), clampHeight(height)
}

func clampWidth(width int) int {
	return max(models.MinSlideWidth, min(width, models.MaxSlideWidth))
}

func clampHeight(height int) int {
	return max(models.MinSlideHeight, min(height, models.MaxSlideHeight))
}

func (s *DeckService) DeleteSlide(ctx context.Context, ownerID, deckID, slideID uuid.UUID) error {
	if _, err := s.deckRepo.GetByIDAndOwner(ctx, deckID, ownerID); err != nil {
		return err
	}
	return s.deckRepo.DeleteSlide(ctx, deckID, slideID)
}
