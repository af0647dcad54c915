package form

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ikkim/franchise-portal/pkg/logger"
	"github.com/ikkim/franchise-portal/pkg/portalclient"
	"github.com/ikkim/franchise-portal/pkg/util"
)

// ReferencePrefix starts every display reference number.
const ReferencePrefix = "FP"

const (
	msgAlreadySubmitted = "An application has already been submitted with this email"
	msgSubmitted        = "Application submitted successfully"
	msgSubmitFailed     = "Failed to submit application. Please try again"
)

var (
	ErrAlreadySubmitted = errors.New("application already submitted")
	ErrValidationFailed = errors.New("validation failed")
	ErrSubmitFailed     = errors.New("submission failed")
)

// Backend is the part of the portal API the form talks to.
type Backend interface {
	CreateApplication(ctx context.Context, body io.Reader, contentType string) (*portalclient.CreateResponse, error)
	GetApplicationByEmail(ctx context.Context, email string) (*portalclient.Application, error)
	ValidateInvite(ctx context.Context, token string) (*portalclient.Invite, error)
}

// Assembler turns a validated state into a single create request.
type Assembler struct {
	backend Backend
	observe func(Phase)
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithObserver registers a callback for every phase the submission enters.
func WithObserver(fn func(Phase)) AssemblerOption {
	return func(a *Assembler) { a.observe = fn }
}

// NewAssembler creates an assembler for backend.
func NewAssembler(backend Backend, opts ...AssemblerOption) *Assembler {
	a := &Assembler{backend: backend}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) enter(s *State, p Phase) {
	s.Phase = p
	if a.observe != nil {
		a.observe(p)
	}
}

// NewReferenceNumber returns a display reference number different from prev.
func NewReferenceNumber(prev string) string {
	for {
		ref := util.GenerateReferenceNumber(ReferencePrefix)
		if ref != prev {
			return ref
		}
	}
}

// Submit runs one submission attempt. The returned state is what the form
// shows next; the error says why the attempt did not succeed. On failure
// the draft and staged files are returned untouched.
func (a *Assembler) Submit(ctx context.Context, s State) (State, error) {
	next := s.clone()
	a.enter(&next, PhaseValidating)

	if next.SubmissionDisabled {
		next.Message = msgAlreadySubmitted
		a.enter(&next, PhaseFailed)
		logger.Warn("Submission blocked: application already exists", map[string]interface{}{
			"email": next.Draft.Get(FieldEmail),
		})
		return next, ErrAlreadySubmitted
	}

	errs, ok := Validate(next.Draft)
	next.Errors = errs
	next.Validated = true
	if !ok {
		next.Message = errs.Summary()
		a.enter(&next, PhaseFailed)
		logger.Debug("Submission blocked by validation", map[string]interface{}{
			"error_count": len(errs),
			"fields":      errs.Fields(),
		})
		a.enter(&next, PhaseIdle)
		return next, fmt.Errorf("%w: %d errors", ErrValidationFailed, len(errs))
	}

	a.enter(&next, PhaseSubmitting)

	body, contentType, err := BuildPayload(Normalized(next.Draft), next.Files)
	if err != nil {
		return a.fail(next, err)
	}

	resp, err := a.backend.CreateApplication(ctx, body, contentType)
	if err != nil {
		return a.fail(next, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = msgSubmitFailed
		}
		return a.fail(next, &portalclient.APIError{Message: msg})
	}

	done := NewState()
	done.ReferenceNumber = NewReferenceNumber(s.ReferenceNumber)
	done.StoredReference = resp.ReferenceNumber
	done.Message = msgSubmitted
	if resp.Message != "" {
		done.Message = resp.Message
	}
	a.enter(&done, PhaseSuccess)

	logger.Info("Application submitted", map[string]interface{}{
		"email":            s.Draft.Get(FieldEmail),
		"staged_files":     s.Files.Len(),
		"reference_number": done.ReferenceNumber,
		"stored_reference": done.StoredReference,
	})
	return done, nil
}

func (a *Assembler) fail(s State, err error) (State, error) {
	var apiErr *portalclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		s.Message = apiErr.Message
	} else {
		s.Message = msgSubmitFailed
	}
	a.enter(&s, PhaseFailed)
	logger.Error("Application submission failed", err, map[string]interface{}{
		"email": s.Draft.Get(FieldEmail),
	})
	return s, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
}
