// Package queue defines message payloads exchanged over the message broker.
package queue

// SignupSubmittedEvent is published after a registration payload has been
// dispatched to the backend.  It carries enough for downstream consumers to
// audit or notify without holding the draft itself; field contents beyond
// the display name never leave the payload.
type SignupSubmittedEvent struct {
	DraftID     string `json:"draft_id"`
	UserName    string `json:"user_name"`
	Role        string `json:"role"`
	HasPayout   bool   `json:"has_payout"`
	HasImage    bool   `json:"has_image"`
	SubmittedAt string `json:"submitted_at"`
}
