package form

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ValidationErrors maps a field name to the message shown next to it.
type ValidationErrors map[string]string

// Fields returns the failing field names in sorted order.
func (e ValidationErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary is the aggregate message shown when a submit is blocked.
func (e ValidationErrors) Summary() string {
	if len(e) == 1 {
		return "Please fix 1 error before submitting"
	}
	return fmt.Sprintf("Please fix %d errors before submitting", len(e))
}

// PatternRule checks the shape of a non-empty value. Normalize runs before
// matching.
type PatternRule struct {
	Field     string
	Pattern   *regexp.Regexp
	Normalize func(string) string
	Message   string
}

// NumberRule requires a non-empty value to parse as a number of at least Min.
type NumberRule struct {
	Field   string
	Min     *float64
	Message string
}

// ConditionalRule makes Target required (and visible) while Trigger is true.
type ConditionalRule struct {
	Trigger string
	Target  string
	Message string
}

var (
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadharPattern  = regexp.MustCompile(`^[0-9]{12}$`)
	mobilePattern  = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	pinCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	ifscPattern    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	decimalPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

var ErrNotANumber = errors.New("not a decimal number")

// ParseNumber parses a plain decimal such as "12", "-3.5" or "1e3". Hex,
// underscores, NaN and infinities are rejected, as is anything out of
// float64 range.
func ParseNumber(v string) (float64, error) {
	if !decimalPattern.MatchString(v) {
		return 0, ErrNotANumber
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, ErrNotANumber
	}
	return n, nil
}

func one(v float64) *float64 { return &v }

// PatternRules lists the format checks.
var PatternRules = []PatternRule{
	{Field: FieldPANNumber, Pattern: panPattern, Normalize: strings.ToUpper, Message: "Invalid PAN number (format: ABCDE1234F)"},
	{Field: FieldAadharNumber, Pattern: aadharPattern, Message: "Aadhar number must be 12 digits"},
	{Field: FieldMobileNumber, Pattern: mobilePattern, Message: "Mobile number must be 10 digits"},
	{Field: FieldAlternateMobileNumber, Pattern: mobilePattern, Message: "Alternate mobile number must be 10 digits"},
	{Field: FieldEmail, Pattern: emailPattern, Message: "Invalid email address"},
	{Field: FieldResidentialPinCode, Pattern: pinCodePattern, Message: "PIN code must be 6 digits"},
	{Field: FieldOfficePinCode, Pattern: pinCodePattern, Message: "PIN code must be 6 digits"},
	{Field: FieldFranchisePinCode, Pattern: pinCodePattern, Message: "PIN code must be 6 digits"},
	{Field: FieldIFSCCode, Pattern: ifscPattern, Normalize: strings.ToUpper, Message: "Invalid IFSC code (format: ABCD0123456)"},
}

// NumberRules lists the numeric checks.
var NumberRules = []NumberRule{
	{Field: FieldTotalSpace, Message: "Total space must be a number"},
	{Field: FieldEmployeeCount, Message: "Employee count must be a number"},
	{Field: FieldStaffCount, Min: one(1), Message: "Staff count must be a number of at least 1"},
}

// ConditionalRules pairs each "has-X" question with its detail field.
var ConditionalRules = []ConditionalRule{
	{Trigger: FieldHasLoans, Target: FieldLoanDetails, Message: "Please provide loan details"},
	{Trigger: FieldHasVehicles, Target: FieldVehicleDetails, Message: "Please provide vehicle details"},
	{Trigger: FieldHasLogisticsExperience, Target: FieldLogisticsExperienceDetails, Message: "Please describe your logistics experience"},
	{Trigger: FieldHasOtherFranchise, Target: FieldOtherFranchiseDetails, Message: "Please provide details of your other franchise"},
	{Trigger: FieldHasLegalIssues, Target: FieldLegalIssueDetails, Message: "Please provide details of the legal issues"},
}

// Validate runs every rule against the draft. The result is recomputed from
// scratch on each call; ok is true when no rule failed.
func Validate(d Draft) (ValidationErrors, bool) {
	errs := ValidationErrors{}

	for _, f := range Fields {
		if !f.Required {
			continue
		}
		if f.Kind == KindBool {
			if d.Bool(f.Name) == Unset {
				errs[f.Name] = fmt.Sprintf("Please select an option for %s", strings.ToLower(f.Label))
			}
			continue
		}
		if strings.TrimSpace(d.Get(f.Name)) == "" {
			errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
		}
	}

	for _, r := range PatternRules {
		v := strings.TrimSpace(d.Get(r.Field))
		if v == "" {
			continue
		}
		if r.Normalize != nil {
			v = r.Normalize(v)
		}
		if !r.Pattern.MatchString(v) {
			errs[r.Field] = r.Message
		}
	}

	for _, r := range NumberRules {
		v := strings.TrimSpace(d.Get(r.Field))
		if v == "" {
			continue
		}
		n, err := ParseNumber(v)
		if err != nil || (r.Min != nil && n < *r.Min) {
			errs[r.Field] = r.Message
		}
	}

	for _, r := range ConditionalRules {
		if d.Bool(r.Trigger) == True && strings.TrimSpace(d.Get(r.Target)) == "" {
			errs[r.Target] = r.Message
		}
	}

	return errs, len(errs) == 0
}

// Normalized returns a copy of the draft with PAN and IFSC uppercased, the
// form they are stored in.
func Normalized(d Draft) Draft {
	c := d.Clone()
	for _, r := range PatternRules {
		if r.Normalize != nil && c.Values[r.Field] != "" {
			c.Values[r.Field] = r.Normalize(strings.TrimSpace(c.Values[r.Field]))
		}
	}
	return c
}
