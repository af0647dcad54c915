package form

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnknownField = errors.New("unknown form field")

// TriState is the value of a boolean field that the applicant may not have
// answered yet.
type TriState int

const (
	Unset TriState = iota
	True
	False
)

// ParseTriState maps "true"/"false" to True/False; anything else is Unset.
func ParseTriState(s string) TriState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return True
	case "false":
		return False
	default:
		return Unset
	}
}

func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return ""
	}
}

// Draft is the in-progress application held by the applicant. Values are
// kept as strings; boolean fields hold "", "true" or "false".
type Draft struct {
	Values map[string]string `json:"values"`
}

// NewDraft returns a draft with every field set to its default.
func NewDraft() Draft {
	d := Draft{Values: make(map[string]string, len(Fields))}
	for _, f := range Fields {
		d.Values[f.Name] = f.Default
	}
	return d
}

// DraftFromValues builds a draft from submitted form values, ignoring
// anything that is not part of the field model.
func DraftFromValues(values url.Values) Draft {
	d := NewDraft()
	for _, f := range Fields {
		if v, ok := values[f.Name]; ok && len(v) > 0 {
			if f.Kind == KindBool {
				d.Values[f.Name] = ParseTriState(v[0]).String()
				continue
			}
			d.Values[f.Name] = strings.TrimSpace(v[0])
		}
	}
	return d
}

// Get returns the current value of name, or "" for unknown fields.
func (d Draft) Get(name string) string {
	return d.Values[name]
}

// Bool returns the tri-state value of a boolean field.
func (d Draft) Bool(name string) TriState {
	return ParseTriState(d.Values[name])
}

// Set updates a single field.
func (d Draft) Set(name, value string) error {
	f, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if f.Kind == KindBool {
		value = ParseTriState(value).String()
	}
	d.Values[name] = value
	return nil
}

// SetBool sets a boolean field to true or false.
func (d Draft) SetBool(name string, v bool) error {
	if v {
		return d.Set(name, "true")
	}
	return d.Set(name, "false")
}

// Clone returns a deep copy.
func (d Draft) Clone() Draft {
	c := Draft{Values: make(map[string]string, len(d.Values))}
	for k, v := range d.Values {
		c.Values[k] = v
	}
	return c
}

// Equal reports whether both drafts hold the same values.
func (d Draft) Equal(o Draft) bool {
	if len(d.Values) != len(o.Values) {
		return false
	}
	for k, v := range d.Values {
		if ov, ok := o.Values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Query parameters recognised when the form is opened from a link.
// "location" is accepted but not stored.
var prefillParams = map[string]string{
	"email":            FieldEmail,
	"fullName":         FieldFullName,
	"mobileNumber":     FieldMobileNumber,
	"franchisePinCode": FieldFranchisePinCode,
	"token":            FieldInviteToken,
}

// Prefill copies recognised query parameters into the draft.
func (d Draft) Prefill(query url.Values) {
	for param, field := range prefillParams {
		if v := strings.TrimSpace(query.Get(param)); v != "" {
			d.Values[field] = v
		}
	}
}
