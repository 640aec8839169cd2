package crawler

import (
	"time"
)

// ListItem is one candidate notice extracted from a listing page.
// Link is always absolute; PostedAt and Category are best-effort.
type ListItem struct {
	Title    string     `json:"title"`
	Link     string     `json:"link"`
	PostedAt *time.Time `json:"posted_at"`
	Category string     `json:"category,omitempty"`
}

type Attachment struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// DetailRecord holds whatever could be extracted from a single notice
// page. Fields may be empty; extraction never fails outright.
type DetailRecord struct {
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
	PostedAt    *time.Time   `json:"posted_at"`
}
