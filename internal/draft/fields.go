// Package draft holds the editable registration draft: the role-conditional
// field predicate, unconstrained field writes, and the session stores that
// keep a draft alive between requests.
package draft

import (
	"errors"
	"time"

	"github.com/nexbid/auction-signup/internal/model"
)

// ErrUnknownField is returned when a write names a field the form does not
// have.  Handlers should translate this into an HTTP 400 response.
var ErrUnknownField = errors.New("unknown field")

// identityFields are present in every submission payload regardless of the
// chosen role.  Order matters: the payload writer emits fields in this order.
var identityFields = []string{"userName", "email", "phone", "password", "address", "role"}

// payoutFields travel only when the registrant signs up as an Auctioneer.
var payoutFields = []string{"bankAccountName", "bankAccountNumber", "bankName", "easypaisaAccountNumber", "paypalEmail"}

// IdentityFields returns the always-submitted field names.
func IdentityFields() []string { return append([]string(nil), identityFields...) }

// PayoutFields returns the Auctioneer-only field names.
func PayoutFields() []string { return append([]string(nil), payoutFields...) }

// ActiveFields is the pure role predicate: identity fields for everyone,
// plus the payout fields if and only if the role is Auctioneer.  An empty
// or unknown role behaves like any non-Auctioneer role.
func ActiveFields(role string) []string {
	fields := append([]string(nil), identityFields...)
	if role == model.RoleAuctioneer {
		fields = append(fields, payoutFields...)
	}
	return fields
}

// IsKnownField reports whether name is one of the form's candidate fields.
func IsKnownField(name string) bool {
	for _, f := range identityFields {
		if f == name {
			return true
		}
	}
	for _, f := range payoutFields {
		if f == name {
			return true
		}
	}
	return false
}

// SetField writes a field value onto the draft.  Writes are unconstrained
// with respect to the current role: a user may fill payout fields before
// settling on Auctioneer, and stale values are simply filtered out of the
// payload later rather than rejected here.
func SetField(d *model.Draft, name, value string) error {
	if !IsKnownField(name) {
		return ErrUnknownField
	}
	if d.Fields == nil {
		d.Fields = make(map[string]string)
	}
	d.Fields[name] = value
	d.UpdatedAt = time.Now().UTC()
	return nil
}
