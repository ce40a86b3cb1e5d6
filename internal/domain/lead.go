package domain

import (
	"fmt"
	"strings"
	"time"
)

// Lead is a captured prospect from one of the multi-step funnels (client
// intake, trainer intake, city landing pages).
type Lead struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Goal      string    `json:"goal"`
	City      string    `json:"city"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type LeadReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Goal     string `json:"goal"`
	City     string `json:"city"`
	Source   string `json:"source"`
	Notes    string `json:"notes"`
}

const (
	MaxNameLen  = 120
	MaxNotesLen = 2000
)

// Normalize trims free-form input and lowercases the email.
func (r *LeadReq) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Goal = strings.TrimSpace(r.Goal)
	r.City = strings.TrimSpace(r.City)
	r.Source = strings.TrimSpace(r.Source)
	r.Notes = strings.TrimSpace(r.Notes)
}

// Validate applies the same field rules the form steps use.
func (r *LeadReq) Validate() error {
	if r.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if len(r.FullName) > MaxNameLen {
		return fmt.Errorf("%w: full_name must be at most %d characters", ErrValidation, MaxNameLen)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !EmailRe.MatchString(r.Email) {
		return fmt.Errorf("%w: email format is invalid", ErrValidation)
	}
	if len(r.Notes) > MaxNotesLen {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrValidation, MaxNotesLen)
	}
	return nil
}
