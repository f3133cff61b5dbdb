package variants

import (
	"fmt"
	"regexp"

	"leadfunnel/funnel/flow"
)

const DefaultVariant flow.VariantID = "lp06"

// Enumerated lists every routable variant id, lp01 to lp10.
var Enumerated = func() []flow.VariantID {
	ids := make([]flow.VariantID, 0, 10)
	for i := 1; i <= 10; i++ {
		ids = append(ids, flow.VariantID(fmt.Sprintf("lp%02d", i)))
	}
	return ids
}()

var routePattern = regexp.MustCompile(`^/lp-?(\d{2})(/|$)`)

// PathToVariantID maps "/lp03" and "/lp-03" to "lp03". Paths outside the
// enumerated range resolve to fallback.
func PathToVariantID(path string, fallback flow.VariantID) flow.VariantID {
	m := routePattern.FindStringSubmatch(path)
	if m == nil {
		return fallback
	}
	id := flow.VariantID("lp" + m[1])
	for _, known := range Enumerated {
		if id == known {
			return id
		}
	}
	return fallback
}

// Definitions builds one questionnaire per enumerated id. Ids without a
// dedicated tree get the standard one.
func Definitions() []*flow.Variant {
	dedicated := map[flow.VariantID]func() *flow.Variant{
		"lp01": Lp01,
		"lp02": Lp02,
		"lp03": Lp03,
		"lp04": Lp04,
		"lp05": Lp05,
		"lp06": Lp06,
		"lp07": Lp07,
	}

	defs := make([]*flow.Variant, 0, len(Enumerated))
	for _, id := range Enumerated {
		if build, ok := dedicated[id]; ok {
			defs = append(defs, build())
			continue
		}
		defs = append(defs, Standard(id))
	}
	return defs
}

// Registry resolves landing paths to validated questionnaires.
type Registry struct {
	variants map[flow.VariantID]*flow.Variant
	fallback flow.VariantID
}

// NewRegistry validates every definition. An unknown fallback is an error
// since every unmatched path would otherwise open nothing.
func NewRegistry(fallback flow.VariantID) (*Registry, error) {
	r := &Registry{
		variants: make(map[flow.VariantID]*flow.Variant, len(Enumerated)),
		fallback: fallback,
	}
	for _, v := range Definitions() {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		r.variants[v.ID] = v
	}
	if _, ok := r.variants[fallback]; !ok {
		return nil, fmt.Errorf("default variant %q is not registered", fallback)
	}
	return r, nil
}

// Lookup returns the questionnaire of an enumerated id.
func (r *Registry) Lookup(id flow.VariantID) (*flow.Variant, bool) {
	v, ok := r.variants[id]
	return v, ok
}

// Resolve maps a landing path to its variant id.
func (r *Registry) Resolve(path string) flow.VariantID {
	return PathToVariantID(path, r.fallback)
}

// Install registers every variant on the engine.
func (r *Registry) Install(e *flow.Engine) error {
	for _, id := range Enumerated {
		v, ok := r.Lookup(id)
		if !ok {
			return fmt.Errorf("variant %q has no definition", id)
		}
		if err := e.Register(v); err != nil {
			return err
		}
	}
	return nil
}
