// Package forms implements the submission controller shared by the contact
// and quote forms: per-field validation state, an explicit submission phase
// machine, and the optimistic success-plus-fallback delivery flow. Field
// definitions arrive from pkg/formdef; rendering is left to the surfaces.
package forms

import "time"

// Rule kinds, applied in this order during validation. Evaluation stops at
// the first failing rule so only one message is active per field.
const (
	RuleRequired  = "required"
	RulePattern   = "pattern"
	RuleMinLength = "minLength"
	RuleOneOf     = "oneOf"
)

// Rule parameter keys.
const (
	ParamValue   = "value"   // threshold for minLength
	ParamPattern = "pattern" // expression for pattern rules
	ParamMessage = "message" // custom failure message
)

// Rule is a single validation constraint. Params carries the rule threshold
// or expression plus an optional custom message; everything is a string so
// definitions serialise cleanly.
type Rule struct {
	Kind   string
	Params map[string]string
}

// Field models one input of a form.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Multiline   bool
	Options     []string // non-empty for enum-backed selects
	Rules       []Rule
}

// Required reports whether the field carries a required rule.
func (f Field) Required() bool {
	for _, rule := range f.Rules {
		if rule.Kind == RuleRequired {
			return true
		}
	}
	return false
}

// Definition is the fixed shape of one form: its ordered field set, the
// message templates delivery composes, and the per-form processing delay.
type Definition struct {
	ID              string
	Title           string
	SubmitLabel     string
	Fields          []Field
	SubjectTemplate string
	BodyTemplate    string
	ProcessingDelay time.Duration
}

// FieldByName returns the field definition for name.
func (d Definition) FieldByName(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldStatus is the validation outcome attached to a field. Message is empty
// exactly when Valid is true.
type FieldStatus struct {
	Valid   bool
	Message string
}
