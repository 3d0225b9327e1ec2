package invitation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/pkg/validator"
)

type mode int

const (
	modeCreate mode = iota
	modeUpdate
)

// normalize checks the mandatory fields of a candidate invitation and applies
// the salutation and state defaults. The first offending field is reported,
// in the order id (create only), firstName, lastName, email.
func normalize(in Invitation, m mode) (Invitation, error) {
	rules := make([]validator.Rule, 0, 6)
	if m == modeCreate {
		rules = append(rules, validator.EmptyString("id", in.ID))
	}
	rules = append(rules,
		validator.RequiredString("firstName", in.FirstName),
		validator.RequiredString("lastName", in.LastName),
		validator.RequiredString("email", in.Email),
		validator.OptionalInList("salutation", in.Salutation, Salutations),
		validator.OptionalInList("invitationState", in.InvitationState, States),
	)
	if err := validator.First(rules...); err != nil {
		return in, errors.Join(ErrValidation, err)
	}

	return withDefaults(in), nil
}

func withDefaults(in Invitation) Invitation {
	if in.InvitationState == "" {
		in.InvitationState = DefaultState
	}
	if in.Salutation == "" {
		in.Salutation = DefaultSalutation
	}
	return in
}

// warnAuditDrift logs a warning for every creation audit field the client
// tried to change. The incoming values are never applied.
func warnAuditDrift(ctx context.Context, log *slog.Logger, stored, incoming Invitation) {
	if !incoming.CreatedAt.IsZero() && !incoming.CreatedAt.Equal(stored.CreatedAt) {
		log.LogAttrs(ctx, slog.LevelWarn, "ignoring createdAt set by the client",
			logger.InvitationID(stored.ID),
			slog.Time("createdAt", incoming.CreatedAt),
		)
	}
	if incoming.CreatedBy != "" && !strings.EqualFold(incoming.CreatedBy, stored.CreatedBy) {
		log.LogAttrs(ctx, slog.LevelWarn, "ignoring createdBy set by the client",
			logger.InvitationID(stored.ID),
			slog.String("createdBy", incoming.CreatedBy),
		)
	}
}
