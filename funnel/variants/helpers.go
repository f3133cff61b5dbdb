package variants

import (
	"strings"

	"leadfunnel/funnel/flow"
)

func option(label, value string, effect flow.Effect) flow.Option {
	return flow.Option{Label: label, Value: value, Effect: effect}
}

func hinted(label, value, hint string, effect flow.Effect) flow.Option {
	return flow.Option{Label: label, Value: value, Hint: hint, Effect: effect}
}

// labelOf returns the label of the option answered on step.
func labelOf(v *flow.Variant, step flow.StepID, a flow.Answers) string {
	s, ok := v.Step(step)
	if !ok {
		return ""
	}
	o, ok := s.Option(a[step])
	if !ok {
		return ""
	}
	return o.Label
}

func oneOf(value string, set ...string) bool {
	for _, s := range set {
		if value == s {
			return true
		}
	}
	return false
}

// summary joins "prefix: value" pairs, skipping empty values.
type summary []string

func (s *summary) add(prefix, value string) {
	if value != "" {
		*s = append(*s, prefix+value)
	}
}

func (s summary) String() string {
	return strings.Join(s, " | ")
}
