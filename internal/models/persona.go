package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Persona struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Persona) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Role == "" {
		p.Role = "founder"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

type ProfileSection struct {
	ID         uuid.UUID       `json:"id"`
	PersonaID  uuid.UUID       `json:"persona_id"`
	SectionKey string          `json:"section_key"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	OrderIndex int             `json:"order_index"`
	IsVisible  bool            `json:"is_visible"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (s *ProfileSection) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if len(s.Content) == 0 {
		s.Content = json.RawMessage(`{}`)
	}
	s.UpdatedAt = time.Now()
}
