package domain

import "time"

// PreviewTTL is the window during which a temp trainer preview stays
// readable. Enforced at read time; there is no background purge.
const PreviewTTL = 24 * time.Hour

// TempTrainer is a short-lived, token-gated preview profile created from a
// lead-capture form before any payment. It is never "live": IsActive stays
// false for the whole lifetime of the record, and only the post-payment
// promotion creates a permanent Trainer.
type TempTrainer struct {
	ID             string    `json:"id"`
	Token          string    `json:"token,omitempty"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Bio            string    `json:"bio"`
	Specialization string    `json:"specialization"`
	Certifications []string  `json:"certifications"`
	Services       []string  `json:"services"`
	Pricing        string    `json:"pricing"`
	Location       string    `json:"location"`
	Instagram      string    `json:"instagram"`
	Website        string    `json:"website"`
	IsPaid         bool      `json:"isPaid"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ExpiresAt is derived from CreatedAt on every access rather than stored.
func (t *TempTrainer) ExpiresAt() time.Time {
	return t.CreatedAt.Add(PreviewTTL)
}

// IsExpired reports whether the record is past its 24h window. The record
// stays usable up to and including the boundary instant.
func (t *TempTrainer) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt())
}

// MatchesToken checks the capability token. Exact match only; the token is
// a capability-URL secret, not a login credential.
func (t *TempTrainer) MatchesToken(token string) bool {
	return token != "" && t.Token == token
}

// TempTrainerReq is the creation payload coming from the lead-capture form.
type TempTrainerReq struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Bio            string   `json:"bio"`
	Specialization string   `json:"specialization"`
	Certifications []string `json:"certifications"`
	Services       []string `json:"services"`
	Pricing        string   `json:"pricing"`
	Location       string   `json:"location"`
	Instagram      string   `json:"instagram"`
	Website        string   `json:"website"`
}

// TempTrainerPatch carries partial edits from the preview page. Nil fields
// are left untouched; updated_at is always bumped on write.
type TempTrainerPatch struct {
	Name           *string   `json:"name,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	Certifications *[]string `json:"certifications,omitempty"`
	Services       *[]string `json:"services,omitempty"`
	Pricing        *string   `json:"pricing,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Instagram      *string   `json:"instagram,omitempty"`
	Website        *string   `json:"website,omitempty"`
}

// TempTrainerView is the normalized read model returned by the API: every
// optional field populated either from storage or its documented default,
// plus the computed expiry.
type TempTrainerView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Bio            string    `json:"bio"`
	Specialization string    `json:"specialization"`
	Certifications []string  `json:"certifications"`
	Services       []string  `json:"services"`
	Pricing        string    `json:"pricing"`
	Location       string    `json:"location"`
	Instagram      string    `json:"instagram"`
	Website        string    `json:"website"`
	IsPaid         bool      `json:"isPaid"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Default table for preview profiles. A record straight out of the form may
// have almost everything blank; the preview page still needs something to
// render.
const (
	DefaultName           = "Your Name"
	DefaultBio            = "Passionate fitness coach helping clients reach their goals with personalized training plans."
	DefaultSpecialization = "Personal Training"
	DefaultPricing        = "On request"
	DefaultLocation       = "Remote"
)

var (
	DefaultCertifications = []string{"Certified Personal Trainer"}
	DefaultServices       = []string{"1:1 Coaching Session"}
)

// Normalize builds the read model, substituting defaults once at the API
// boundary instead of scattering per-field fallbacks across renderers.
func Normalize(t *TempTrainer) TempTrainerView {
	v := TempTrainerView{
		ID:             t.ID,
		Name:           t.Name,
		Email:          t.Email,
		Phone:          t.Phone,
		Bio:            t.Bio,
		Specialization: t.Specialization,
		Certifications: t.Certifications,
		Services:       t.Services,
		Pricing:        t.Pricing,
		Location:       t.Location,
		Instagram:      t.Instagram,
		Website:        t.Website,
		IsPaid:         t.IsPaid,
		IsActive:       t.IsActive,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		ExpiresAt:      t.ExpiresAt(),
	}

	if v.Name == "" {
		v.Name = DefaultName
	}
	if v.Bio == "" {
		v.Bio = DefaultBio
	}
	if v.Specialization == "" {
		v.Specialization = DefaultSpecialization
	}
	if len(v.Certifications) == 0 {
		v.Certifications = append([]string(nil), DefaultCertifications...)
	}
	if len(v.Services) == 0 {
		v.Services = append([]string(nil), DefaultServices...)
	}
	if v.Pricing == "" {
		v.Pricing = DefaultPricing
	}
	if v.Location == "" {
		v.Location = DefaultLocation
	}

	return v
}
