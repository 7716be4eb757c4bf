package model

import "strings"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

type Portfolio struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
}

// Provider is a service provider listing. average_rating is sent by list/admin
// endpoints, rating_avg by the detail endpoint.
type Provider struct {
	ID              int64       `json:"id"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email,omitempty"`
	PhoneNumber     string      `json:"phone_number,omitempty"`
	Category        *Category   `json:"category,omitempty"`
	ExperienceYears int         `json:"experience_years"`
	IsVerified      bool        `json:"is_verified"`
	AverageRating   *float64    `json:"average_rating,omitempty"`
	RatingAvg       *float64    `json:"rating_avg,omitempty"`
	Latitude        *float64    `json:"latitude,omitempty"`
	Longitude       *float64    `json:"longitude,omitempty"`
	Reviews         []Review    `json:"reviews,omitempty"`
	Portfolios      []Portfolio `json:"portfolios,omitempty"`
}

// Rating returns whichever aggregate the endpoint populated, or 0.
func (p *Provider) Rating() float64 {
	switch {
	case p.RatingAvg != nil:
		return *p.RatingAvg
	case p.AverageRating != nil:
		return *p.AverageRating
	}
	return 0
}

// CategoryName is empty when the category was not expanded.
func (p *Provider) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// TelLink is the dial link opened by the call action.
func TelLink(phone string) string { return "tel:" + phone }

// WhatsAppLink is the chat link opened by the whatsapp action.
func WhatsAppLink(phone string) string {
	return "https://wa.me/" + strings.ReplaceAll(phone, "+", "") + "?text=Hi"
}
