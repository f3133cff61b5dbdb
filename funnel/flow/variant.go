package flow

import (
	"fmt"

	"leadfunnel/entity"
)

type EffectKind string

const (
	EffectAdvance    EffectKind = "advance"
	EffectDisqualify EffectKind = "disqualify"
	EffectComplete   EffectKind = "complete"
	// EffectHold keeps the dialog on the same step and shows the option hint.
	EffectHold EffectKind = "hold"
)

type Effect struct {
	Kind   EffectKind `json:"kind"`
	Next   StepID     `json:"next,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

func AdvanceTo(next StepID) Effect {
	return Effect{Kind: EffectAdvance, Next: next}
}

func Disqualify(reason string) Effect {
	return Effect{Kind: EffectDisqualify, Reason: reason}
}

func Complete() Effect {
	return Effect{Kind: EffectComplete}
}

func Hold() Effect {
	return Effect{Kind: EffectHold}
}

type Option struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Hint   string `json:"hint,omitempty"`
	Effect Effect `json:"-"`
}

type Step struct {
	ID      StepID   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
	// Back is where "Voltar" leads from this step; empty on the entry step.
	Back StepID `json:"back,omitempty"`
}

func (s Step) Option(value string) (Option, bool) {
	for _, o := range s.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Verdict is the result of an eligibility check at the final step.
type Verdict struct {
	Terminal Terminal
	Reason   string
	Reasons  []string
}

// Message is the copy shown on a terminal screen.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Variant is a declarative questionnaire. Steps hold their own forward
// and backward adjacency so the graph can be checked without running it.
type Variant struct {
	ID                VariantID
	Title             string
	Entry             StepID
	Steps             []Step
	EmailRequired     bool
	ConsentRequired   bool
	NavigateOnSuccess bool

	// DisqualifiedBack overrides where "Voltar" leads from a disqualified
	// screen. By default the step that disqualified is shown again.
	DisqualifiedBack StepID

	// Eligibility runs when an option completes the questionnaire.
	// A nil predicate qualifies every completed flow.
	Eligibility func(Answers) Verdict

	// Qualify builds the lead fields from the collected answers.
	Qualify func(Answers, Terminal) entity.Qualification

	// Outcomes holds the disqualification copy keyed by reason; the
	// qualified and review screens use the Terminal values as keys.
	Outcomes map[string]Message

	index map[StepID]int
}

func (v *Variant) Step(id StepID) (Step, bool) {
	if v.index == nil {
		v.buildIndex()
	}
	i, ok := v.index[id]
	if !ok {
		return Step{}, false
	}
	return v.Steps[i], true
}

func (v *Variant) buildIndex() {
	v.index = make(map[StepID]int, len(v.Steps))
	for i, s := range v.Steps {
		v.index[s.ID] = i
	}
}

// Outcome returns the copy for a finished state.
func (v *Variant) Outcome(t Terminal, reason string) Message {
	if t == TerminalDisqualified && reason != "" {
		if m, ok := v.Outcomes[reason]; ok {
			return m
		}
	}
	return v.Outcomes[string(t)]
}

// Validate checks the static graph properties: the entry exists, every
// target and back target exists, every step is reachable from the entry
// and no path through advance edges loops.
func (v *Variant) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("variant without id")
	}
	v.index = make(map[StepID]int, len(v.Steps))
	for i, s := range v.Steps {
		if s.ID == "" {
			return fmt.Errorf("%s: step %d without id", v.ID, i)
		}
		if _, dup := v.index[s.ID]; dup {
			return fmt.Errorf("%s: duplicate step %s", v.ID, s.ID)
		}
		v.index[s.ID] = i
	}
	if _, ok := v.index[v.Entry]; !ok {
		return fmt.Errorf("%s: entry step %q not found", v.ID, v.Entry)
	}

	if v.DisqualifiedBack != "" {
		if _, ok := v.index[v.DisqualifiedBack]; !ok {
			return fmt.Errorf("%s: disqualified back target %q not found", v.ID, v.DisqualifiedBack)
		}
	}

	for _, s := range v.Steps {
		if len(s.Options) == 0 {
			return fmt.Errorf("%s/%s: no options", v.ID, s.ID)
		}
		if s.Back != "" {
			if _, ok := v.index[s.Back]; !ok {
				return fmt.Errorf("%s/%s: back target %q not found", v.ID, s.ID, s.Back)
			}
		}
		seen := make(map[string]bool, len(s.Options))
		for _, o := range s.Options {
			if o.Value == "" || seen[o.Value] {
				return fmt.Errorf("%s/%s: empty or duplicate option %q", v.ID, s.ID, o.Value)
			}
			seen[o.Value] = true
			switch o.Effect.Kind {
			case EffectAdvance:
				if _, ok := v.index[o.Effect.Next]; !ok {
					return fmt.Errorf("%s/%s: option %q targets unknown step %q", v.ID, s.ID, o.Value, o.Effect.Next)
				}
			case EffectDisqualify:
				if o.Effect.Reason == "" {
					return fmt.Errorf("%s/%s: option %q disqualifies without reason", v.ID, s.ID, o.Value)
				}
			case EffectComplete, EffectHold:
			default:
				return fmt.Errorf("%s/%s: option %q has unknown effect %q", v.ID, s.ID, o.Value, o.Effect.Kind)
			}
		}
	}

	const (
		white = iota
		grey
		black
	)
	color := make(map[StepID]int, len(v.Steps))
	var visit func(id StepID) error
	visit = func(id StepID) error {
		color[id] = grey
		step := v.Steps[v.index[id]]
		for _, o := range step.Options {
			if o.Effect.Kind != EffectAdvance {
				continue
			}
			switch color[o.Effect.Next] {
			case grey:
				return fmt.Errorf("%s: cycle through %s -> %s", v.ID, id, o.Effect.Next)
			case white:
				if err := visit(o.Effect.Next); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}
	if err := visit(v.Entry); err != nil {
		return err
	}
	for _, s := range v.Steps {
		if color[s.ID] != black {
			return fmt.Errorf("%s: step %s is unreachable from %s", v.ID, s.ID, v.Entry)
		}
	}

	return nil
}
