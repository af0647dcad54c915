package form

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/ikkim/franchise-portal/pkg/pincode"
	"github.com/ikkim/franchise-portal/pkg/portalclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_MountPrefillsAndChecksDuplicate(t *testing.T) {
	backend := &fakeBackend{existing: &portalclient.Application{Email: "ravi@example.com"}}
	s := NewSession(backend)

	s.Mount(context.Background(), url.Values{
		"email":    {"ravi@example.com"},
		"fullName": {"Ravi Kumar"},
	})

	assert.Equal(t, []string{"ravi@example.com"}, backend.lookups)
	assert.Equal(t, "Ravi Kumar", s.State.Draft.Get(FieldFullName))
	assert.True(t, s.State.SubmissionDisabled)
	assert.Equal(t, "An application has already been submitted with this email", s.State.Message)
	assert.Regexp(t, referencePattern, s.State.ReferenceNumber)

	s.State.Draft = completeDraft()
	err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 0, backend.createCalls)
}

func TestSession_MountWithoutEmailSkipsLookup(t *testing.T) {
	backend := &fakeBackend{}
	s := NewSession(backend)

	s.Mount(context.Background(), url.Values{})

	assert.Empty(t, backend.lookups)
	assert.False(t, s.State.SubmissionDisabled)
	assert.Regexp(t, referencePattern, s.State.ReferenceNumber)
}

func TestSession_MountLookupFailureLeavesFormUsable(t *testing.T) {
	backend := &fakeBackend{lookupErr: portalclient.ErrNetworkError, inviteErr: portalclient.ErrNetworkError}
	s := NewSession(backend)

	s.Mount(context.Background(), url.Values{"email": {"ravi@example.com"}, "token": {"abc"}})

	assert.False(t, s.State.SubmissionDisabled)
	assert.False(t, s.State.InviteValid)
	assert.Empty(t, s.State.Message)
}

func TestSession_MountValidatesInvite(t *testing.T) {
	backend := &fakeBackend{invite: &portalclient.Invite{Valid: true, AgentName: "Meera"}}
	s := NewSession(backend)

	s.Mount(context.Background(), url.Values{"token": {"abc"}})

	assert.True(t, s.State.InviteValid)
	assert.Equal(t, "Meera", s.State.InviteAgent)
	assert.Equal(t, "abc", s.State.Draft.Get(FieldInviteToken))
}

func TestSession_SubmitThenEditAgain(t *testing.T) {
	backend := &fakeBackend{}
	s := NewSession(backend)
	s.Mount(context.Background(), url.Values{})
	first := s.State.ReferenceNumber

	for name, value := range completeDraft().Values {
		require.NoError(t, s.Dispatch(SetField{Name: name, Value: value}))
	}
	require.NoError(t, s.Submit(context.Background()))

	assert.Equal(t, PhaseSuccess, s.State.Phase)
	assert.NotEqual(t, first, s.State.ReferenceNumber)
	assert.Equal(t, "", s.State.Draft.Get(FieldFullName))
}

func TestGuard_AlreadySubmitted(t *testing.T) {
	ctx := context.Background()

	dup, err := NewGuard(&fakeBackend{}).AlreadySubmitted(ctx, "")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = NewGuard(&fakeBackend{}).AlreadySubmitted(ctx, "new@example.com")
	require.NoError(t, err)
	assert.False(t, dup)

	dup, err = NewGuard(&fakeBackend{existing: &portalclient.Application{Email: "old@example.com"}}).AlreadySubmitted(ctx, "old@example.com")
	require.NoError(t, err)
	assert.True(t, dup)

	_, err = NewGuard(&fakeBackend{lookupErr: portalclient.ErrNetworkError}).AlreadySubmitted(ctx, "x@example.com")
	assert.ErrorIs(t, err, portalclient.ErrNetworkError)
}

type fakeLookup struct {
	place *pincode.Place
	err   error
	calls int
}

func (f *fakeLookup) Lookup(ctx context.Context, code string) (*pincode.Place, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.place, nil
}

func TestAutofill(t *testing.T) {
	lookup := &fakeLookup{place: &pincode.Place{PinCode: "560001", City: "Bengaluru", District: "Bangalore", State: "Karnataka"}}

	d := NewDraft()
	d.Values[FieldFranchisePinCode] = "5600"
	out, err := Autofill(context.Background(), d, lookup, SectionFranchiseSite)
	require.NoError(t, err)
	assert.Equal(t, 0, lookup.calls)
	assert.Equal(t, "", out.Get(FieldFranchiseCity))

	d.Values[FieldFranchisePinCode] = "560001"
	out, err = Autofill(context.Background(), d, lookup, SectionFranchiseSite)
	require.NoError(t, err)
	assert.Equal(t, "Bengaluru", out.Get(FieldFranchiseCity))
	assert.Equal(t, "Bangalore", out.Get(FieldFranchiseDistrict))
	assert.Equal(t, "Karnataka", out.Get(FieldFranchiseState))
	assert.Equal(t, "", d.Get(FieldFranchiseCity))

	_, err = Autofill(context.Background(), d, lookup, SectionBank)
	assert.Error(t, err)
}

func TestSession_AutofillError(t *testing.T) {
	s := NewSession(&fakeBackend{})
	require.NoError(t, s.Dispatch(SetField{Name: FieldResidentialPinCode, Value: "999999"}))

	err := s.Autofill(context.Background(), &fakeLookup{err: pincode.ErrNotFound}, SectionResidential)
	assert.True(t, errors.Is(err, pincode.ErrNotFound))
	assert.Equal(t, "", s.State.Draft.Get(FieldResidentialCity))
}
