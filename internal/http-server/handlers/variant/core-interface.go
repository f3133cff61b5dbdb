package variant

import "leadfunnel/funnel/flow"

type Core interface {
	ResolveVariant(path string) flow.VariantID
}
