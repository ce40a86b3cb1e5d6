package domain

import (
	"strings"
	"time"
)

// Trainer is a permanent, billable marketplace profile. Created only by the
// post-payment promotion of a TempTrainer; listed in the public directory.
type Trainer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Bio             string    `json:"bio"`
	City            string    `json:"city"`
	Country         string    `json:"country"`
	Specialties     []string  `json:"specialties"`
	Services        []string  `json:"services"`
	Pricing         string    `json:"pricing"`
	Rating          float64   `json:"rating"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	RemoteAvailable bool      `json:"remoteAvailable"`
	PasswordHash    string    `json:"-"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasCoordinates reports whether the profile carries a usable geo position.
func (t *Trainer) HasCoordinates() bool {
	return t.Latitude != nil && t.Longitude != nil
}

// IsOwner checks profile ownership by trainer id from a session claim.
func (t *Trainer) IsOwner(trainerID string) bool {
	return trainerID != "" && t.ID == trainerID
}

// HasSpecialty does a case-insensitive exact match against any tag.
func (t *Trainer) HasSpecialty(specialty string) bool {
	for _, s := range t.Specialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}

// TrainerPatch carries profile edits from an authenticated trainer.
type TrainerPatch struct {
	Name            *string   `json:"name,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	City            *string   `json:"city,omitempty"`
	Country         *string   `json:"country,omitempty"`
	Specialties     *[]string `json:"specialties,omitempty"`
	Services        *[]string `json:"services,omitempty"`
	Pricing         *string   `json:"pricing,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	RemoteAvailable *bool     `json:"remoteAvailable,omitempty"`
}

// SetupRequest finishes account creation after activation: the magic token
// from the setup email plus the chosen password.
type SetupRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// VerifyCodeRequest redeems the short code from the setup email for
// trainers who type the code instead of clicking the magic link.
type VerifyCodeRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
	TrainerID   string `json:"trainerId"`
	ExpiresIn   int64  `json:"expiresIn"`
}
