package form

import (
	"context"
	"net/url"
	"strings"

	"github.com/ikkim/franchise-portal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Session is one open application form.
type Session struct {
	State State

	backend   Backend
	assembler *Assembler
	guard     *Guard
}

// NewSession opens a form against backend.
func NewSession(backend Backend, opts ...AssemblerOption) *Session {
	return &Session{
		State:     NewState(),
		backend:   backend,
		assembler: NewAssembler(backend, opts...),
		guard:     NewGuard(backend),
	}
}

// Mount pre-fills the draft from the page query and runs the start-up
// lookups side by side: the duplicate check, invite validation and the
// reference number. Each lookup owns a separate piece of state. Lookup
// failures are logged and leave the form usable.
func (s *Session) Mount(ctx context.Context, query url.Values) {
	s.State, _ = Reduce(s.State, Prefill{Query: query})

	var (
		duplicate   bool
		inviteValid bool
		inviteAgent string
		reference   string
	)

	g, gctx := errgroup.WithContext(ctx)

	if email := strings.TrimSpace(query.Get("email")); email != "" {
		g.Go(func() error {
			dup, err := s.guard.AlreadySubmitted(gctx, email)
			if err != nil {
				logger.Warn("Duplicate application lookup failed", map[string]interface{}{
					"email": email,
					"error": err.Error(),
				})
				return nil
			}
			duplicate = dup
			return nil
		})
	}

	if token := strings.TrimSpace(query.Get("token")); token != "" {
		g.Go(func() error {
			invite, err := s.backend.ValidateInvite(gctx, token)
			if err != nil {
				logger.Warn("Invite validation failed", map[string]interface{}{
					"error": err.Error(),
				})
				return nil
			}
			inviteValid = invite.Valid
			inviteAgent = invite.AgentName
			return nil
		})
	}

	g.Go(func() error {
		reference = NewReferenceNumber(s.State.ReferenceNumber)
		return nil
	})

	_ = g.Wait()

	s.State.SubmissionDisabled = duplicate
	s.State.InviteValid = inviteValid
	s.State.InviteAgent = inviteAgent
	s.State.ReferenceNumber = reference
	if duplicate {
		s.State.Message = msgAlreadySubmitted
	}
}

// Dispatch applies a user action to the form.
func (s *Session) Dispatch(a Action) error {
	next, err := Reduce(s.State, a)
	if err != nil {
		return err
	}
	s.State = next
	return nil
}

// Submit sends the form once.
func (s *Session) Submit(ctx context.Context) error {
	next, err := s.assembler.Submit(ctx, s.State)
	s.State = next
	return err
}

// Autofill fills the address of section from its PIN code.
func (s *Session) Autofill(ctx context.Context, lookup PincodeLookup, section Section) error {
	d, err := Autofill(ctx, s.State.Draft, lookup, section)
	if err != nil {
		return err
	}
	s.State.Draft = d
	if s.State.Validated {
		s.State.Errors, _ = Validate(d)
	}
	return nil
}
