package form

import (
	"fmt"
	"net/url"
)

// Phase is where a submission currently stands.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSuccess    Phase = "success"
	PhaseFailed     Phase = "failed"
)

// State is everything the application form holds for one page session.
type State struct {
	Draft      Draft            `json:"draft"`
	Errors     ValidationErrors `json:"errors"`
	Validated  bool             `json:"validated"`
	Files      Staging          `json:"files"`
	Visibility Visibility       `json:"visibility"`

	Phase              Phase  `json:"phase"`
	Message            string `json:"message,omitempty"`
	SubmissionDisabled bool   `json:"submissionDisabled"`
	ReferenceNumber    string `json:"referenceNumber"`

	// StoredReference is the backend's reference for the last accepted
	// submission. It is kept apart from the display number.
	StoredReference string `json:"storedReference,omitempty"`

	InviteValid bool   `json:"inviteValid"`
	InviteAgent string `json:"inviteAgent,omitempty"`
}

// NewState returns the state of a freshly opened form.
func NewState() State {
	d := NewDraft()
	return State{
		Draft:      d,
		Errors:     ValidationErrors{},
		Files:      NewStaging(),
		Visibility: VisibilityFor(d),
		Phase:      PhaseIdle,
	}
}

// Action is a single user event on the form.
type Action interface {
	apply(s State) (State, error)
}

// Reduce applies a to a copy of s. When the action fails the original state
// is returned together with the error.
func Reduce(s State, a Action) (State, error) {
	next := s.clone()
	next, err := a.apply(next)
	if err != nil {
		return s, err
	}
	return next, nil
}

func (s State) clone() State {
	c := s
	c.Draft = s.Draft.Clone()
	c.Files = s.Files.Clone()
	c.Errors = make(ValidationErrors, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	c.Visibility = make(Visibility, len(s.Visibility))
	for k, v := range s.Visibility {
		c.Visibility[k] = v
	}
	return c
}

// SetField changes one field value.
type SetField struct {
	Name  string
	Value string
}

func (a SetField) apply(s State) (State, error) {
	if err := s.Draft.Set(a.Name, a.Value); err != nil {
		return s, err
	}
	if isTrigger(a.Name) {
		s.Visibility = VisibilityFor(s.Draft)
	}
	if s.Validated {
		s.Errors, _ = Validate(s.Draft)
	}
	return s, nil
}

// ValidateAll runs the validator, as on blur or before submit.
type ValidateAll struct{}

func (ValidateAll) apply(s State) (State, error) {
	s.Errors, _ = Validate(s.Draft)
	s.Validated = true
	return s, nil
}

// StageFile attaches a document to a slot.
type StageFile struct {
	Slot Slot
	File File
}

func (a StageFile) apply(s State) (State, error) {
	if err := s.Files.Stage(a.Slot, a.File); err != nil {
		return s, fmt.Errorf("%s: %w", a.File.Name, err)
	}
	return s, nil
}

// UnstageFile removes whatever is attached to a slot.
type UnstageFile struct {
	Slot Slot
}

func (a UnstageFile) apply(s State) (State, error) {
	s.Files.Unstage(a.Slot)
	return s, nil
}

// RemoveOtherDocument removes one entry from the other documents list.
type RemoveOtherDocument struct {
	Index int
}

func (a RemoveOtherDocument) apply(s State) (State, error) {
	s.Files.UnstageOther(a.Index)
	return s, nil
}

// Prefill copies recognised query parameters into the draft.
type Prefill struct {
	Query url.Values
}

func (a Prefill) apply(s State) (State, error) {
	s.Draft.Prefill(a.Query)
	s.Visibility = VisibilityFor(s.Draft)
	return s, nil
}

// Reset clears the form back to defaults. The reference number and the
// duplicate flag survive a reset.
type Reset struct{}

func (Reset) apply(s State) (State, error) {
	n := NewState()
	n.ReferenceNumber = s.ReferenceNumber
	n.SubmissionDisabled = s.SubmissionDisabled
	n.InviteValid = s.InviteValid
	n.InviteAgent = s.InviteAgent
	return n, nil
}
