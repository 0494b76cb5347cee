package entity

import "time"

// Bootcamp is a published bootcamp listing. Lat/Lng and FormattedAddress are
// derived from the submitted address via the geocoder, never set by clients.
type Bootcamp struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	Website          string    `json:"website,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	FormattedAddress string    `json:"formatted_address,omitempty"`
	Careers          []string  `json:"careers"`
	Photo            string    `json:"photo,omitempty"`
	Housing          bool      `json:"housing"`
	JobAssistance    bool      `json:"job_assistance"`
	JobGuarantee     bool      `json:"job_guarantee"`
	AcceptGi         bool      `json:"accept_gi"`
	AverageCost      int       `json:"average_cost"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
