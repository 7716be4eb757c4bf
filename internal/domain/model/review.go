package model

type Review struct {
	ID        int64        `json:"id"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment,omitempty"`
	User      *UserProfile `json:"user,omitempty"`
	Provider  *Provider    `json:"provider,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
}

// Verification statuses as used by the admin endpoints.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

type Verification struct {
	ID          int64     `json:"id"`
	Status      string    `json:"status"`
	DocumentURL string    `json:"document_url,omitempty"`
	Provider    *Provider `json:"provider,omitempty"`
	CreatedAt   string    `json:"created_at,omitempty"`
}

func (v Verification) IsPending() bool { return v.Status == VerificationPending }

// Page is the paginated envelope used by list endpoints.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
