package form

// Visibility holds one flag per conditional detail field, keyed by the
// detail field name.
type Visibility map[string]bool

// VisibilityFor derives which detail fields are shown. A detail field is
// shown only while its trigger is true.
func VisibilityFor(d Draft) Visibility {
	v := make(Visibility, len(ConditionalRules))
	for _, r := range ConditionalRules {
		v[r.Target] = d.Bool(r.Trigger) == True
	}
	return v
}

// Visible reports whether field is rendered. Fields without a conditional
// rule are always visible.
func (v Visibility) Visible(field string) bool {
	shown, conditional := v[field]
	return !conditional || shown
}

// isTrigger reports whether a change to field can change visibility.
func isTrigger(field string) bool {
	for _, r := range ConditionalRules {
		if r.Trigger == field {
			return true
		}
	}
	return false
}
