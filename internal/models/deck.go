package models

import (
	"time"

	"github.com/google/uuid"
)

// Slide grid limits for the deck builder.
const (
	MinSlideWidth  = 1
	MaxSlideWidth  = 12
	MinSlideHeight = 1
	MaxSlideHeight = 8
)

type Deck struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Slides    []Slide    `json:"slides,omitempty"`
}

func (d *Deck) Prepare() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
}

type Slide struct {
	ID       uuid.UUID `json:"id"`
	DeckID   uuid.UUID `json:"deck_id"`
	Position int       `json:"position"`
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
}

func (s *Slide) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Kind == "" {
		s.Kind = "text"
	}
	if s.Width == 0 {
		s.Width = MaxSlideWidth
	}
	if s.Height == 0 {
		s.Height = 4
	}
}
