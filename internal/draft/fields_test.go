package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexbid/auction-signup/internal/model"
)

func TestActiveFieldsPerRole(t *testing.T) {
	identity := []string{"userName", "email", "phone", "password", "address", "role"}
	payout := []string{"bankAccountName", "bankAccountNumber", "bankName", "easypaisaAccountNumber", "paypalEmail"}

	// Auctioneer gets identity plus payout, in that order.
	assert.Equal(t, append(append([]string{}, identity...), payout...), ActiveFields(model.RoleAuctioneer))

	// Everyone else, including an unselected or unknown role, gets identity only.
	for _, role := range []string{model.RoleBidder, model.RoleSuperAdmin, "", "auctioneer", "ADMIN"} {
		assert.Equal(t, identity, ActiveFields(role), "role %q", role)
	}
}

func TestActiveFieldsIsPure(t *testing.T) {
	first := ActiveFields(model.RoleAuctioneer)
	first[0] = "mutated"
	assert.Equal(t, "userName", ActiveFields(model.RoleAuctioneer)[0])
}

func TestSetFieldUnconstrainedByRole(t *testing.T) {
	d := &model.Draft{Fields: map[string]string{}}

	// Payout fields are writable even while no role (or a non-Auctioneer
	// role) is selected; filtering happens at payload time, not write time.
	require.NoError(t, SetField(d, "bankName", "First National"))
	require.NoError(t, SetField(d, "role", model.RoleBidder))
	require.NoError(t, SetField(d, "paypalEmail", "a@b.c"))

	assert.Equal(t, "First National", d.Fields["bankName"])
	assert.Equal(t, model.RoleBidder, d.Role())
}

func TestSetFieldRejectsUnknownNames(t *testing.T) {
	d := &model.Draft{}
	err := SetField(d, "nickname", "x")
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Empty(t, d.Fields)
}

func TestConsentGateLifecycle(t *testing.T) {
	var g model.ConsentGate
	assert.False(t, g.IsAccepted(), "gate must start closed")
	g.SetAccepted(true)
	assert.True(t, g.IsAccepted())
	g.SetAccepted(false)
	assert.False(t, g.IsAccepted())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	d, err := s.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)
	assert.False(t, d.Consent.IsAccepted())

	require.NoError(t, s.Update(ctx, d.ID, func(cur *model.Draft) error {
		if err := SetField(cur, "userName", "alice"); err != nil {
			return err
		}
		cur.Consent.SetAccepted(true)
		return nil
	}))

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName())
	assert.True(t, got.Consent.IsAccepted())

	// Copies must be independent: mutating the returned draft must not
	// leak into the store.
	got.Fields["userName"] = "mallory"
	again, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.UserName())

	require.NoError(t, s.Delete(ctx, d.ID))
	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryStoreUpdateUnknownDraft(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), "gone", func(d *model.Draft) error { return nil })
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryStoreUpdateAbortsOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	d, err := s.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, d.ID, func(cur *model.Draft) error {
		return SetField(cur, "userName", "alice")
	}))

	boom := errors.New("boom")
	err = s.Update(ctx, d.ID, func(cur *model.Draft) error {
		cur.Fields["userName"] = "mallory"
		return boom
	})
	require.ErrorIs(t, err, boom)

	// A failed mutation must leave the stored state untouched.
	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName())
}
