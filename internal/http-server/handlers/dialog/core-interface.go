package dialog

import (
	"context"

	"leadfunnel/entity"
	"leadfunnel/funnel/flow"
	"leadfunnel/impl/core"
)

// Core is the dialog container. Every session call carries the visitor id
// from the lf_visitor cookie; sessions of other visitors are not found.
type Core interface {
	OpenDialog(ctx context.Context, visitorID, path string) (core.View, error)
	GetDialog(ctx context.Context, visitorID, sessionID string) (core.View, error)
	Answer(ctx context.Context, visitorID, sessionID string, step flow.StepID, value string) (core.View, error)
	Back(ctx context.Context, visitorID, sessionID string) (core.View, error)
	UpdateContact(ctx context.Context, visitorID, sessionID string, in entity.ContactInfo) (core.View, error)
	SubmitContact(ctx context.Context, visitorID, sessionID string, in entity.ContactInfo, attribution entity.Attribution) (core.SubmitResult, error)
	CloseDialog(ctx context.Context, visitorID, sessionID string) error
	ResetSubmission(ctx context.Context, visitorID string) error
}
