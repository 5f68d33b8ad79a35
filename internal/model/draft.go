package model

import "time"

// Role values accepted by the registration form.  These are the exact
// free-text strings the select control offers; the backend owns any
// further validation of them.
const (
	RoleAuctioneer = "Auctioneer"
	RoleBidder     = "Bidder"
	RoleSuperAdmin = "Super Admin"
)

// ConsentGate tracks whether the registrant has explicitly accepted the
// terms and conditions.  It starts out false and only flips through
// SetAccepted; nothing resets it except discarding the draft.
type ConsentGate struct {
	Accepted bool `json:"accepted"`
}

// SetAccepted records the registrant's explicit choice.
func (g *ConsentGate) SetAccepted(v bool) { g.Accepted = v }

// IsAccepted reports whether the terms have been accepted.
func (g *ConsentGate) IsAccepted() bool { return g.Accepted }

// ImageAsset is a selected profile picture: the raw bytes kept for
// submission plus a self-contained data URL used as the preview.  An
// asset is replaced wholesale on a new selection, never patched.
//
// Fields:
//  FileName    – original name of the selected file.
//  ContentType – MIME type of the bytes (detected when the client omits it).
//  Data        – raw file bytes, submitted as the profileImage part.
//  Preview     – "data:<mime>;base64,..." string suitable for direct display.
type ImageAsset struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
	Preview     string `json:"preview"`
}

// Draft is the in-progress registration form state for one session.  All
// candidate fields live in Fields regardless of the chosen role; the
// role predicate decides at submission time which of them travel.
//
// Fields:
//  ID        – session identifier handed to the client.
//  Fields    – field values keyed by wire field name (includes "role").
//  Consent   – the terms-acceptance gate.
//  Image     – profile picture asset, nil until a selection completes.
//  ImageGen  – generation counter for the asset slot; a resolved read
//              whose generation is stale must not commit (last-selection-wins).
//  LastError – the single local validation message slot, shown verbatim.
//  CreatedAt – when the draft session was opened.
//  UpdatedAt – last mutation time.
type Draft struct {
	ID        string            `json:"id"`
	Fields    map[string]string `json:"fields"`
	Consent   ConsentGate       `json:"consent"`
	Image     *ImageAsset       `json:"image,omitempty"`
	ImageGen  uint64            `json:"image_gen"`
	LastError string            `json:"last_error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Role returns the currently selected role ("" while unselected).
func (d *Draft) Role() string { return d.Fields["role"] }

// UserName returns the display name field.
func (d *Draft) UserName() string { return d.Fields["userName"] }

// Clone returns an independent copy of the draft so stores can hand out
// values without sharing the fields map or image bytes.
func (d *Draft) Clone() *Draft {
	cp := *d
	cp.Fields = make(map[string]string, len(d.Fields))
	for k, v := range d.Fields {
		cp.Fields[k] = v
	}
	if d.Image != nil {
		img := *d.Image
		img.Data = append([]byte(nil), d.Image.Data...)
		cp.Image = &img
	}
	return &cp
}
