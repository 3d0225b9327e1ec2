package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/pkg/statemachine"
	"github.com/dmitrymomot/invitations/svc/auth"
)

// Service is the invitation lifecycle as seen by the transport layer.
type Service interface {
	List(ctx context.Context, queryType, query string, position, size int) ([]Invitation, error)
	Create(ctx context.Context, inv Invitation) (Invitation, error)
	Read(ctx context.Context, id string) (Invitation, error)
	Update(ctx context.Context, id string, inv Invitation) (Invitation, error)
	Delete(ctx context.Context, id string) error
	Register(ctx context.Context, id, comment string) (Invitation, error)
	Deregister(ctx context.Context, id, comment string) (Invitation, error)
}

// PrincipalFunc resolves the identity of the acting caller for audit stamping.
type PrincipalFunc func(ctx context.Context) string

// Provider implements Service on top of a Store. The store is chosen at
// construction time (MemoryStore, MongoStore); the provider holds no locks
// of its own.
type Provider struct {
	store     Store
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	principal PrincipalFunc
	readOnly  bool
}

var _ Service = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger for the Provider.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock overrides the time source used for audit stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides identifier generation for new invitations.
func WithIDGenerator(fn func() string) Option {
	return func(p *Provider) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// WithPrincipal overrides how the acting principal is resolved.
func WithPrincipal(fn PrincipalFunc) Option {
	return func(p *Provider) {
		if fn != nil {
			p.principal = fn
		}
	}
}

// WithReadOnly enables read-only enforcement: List, Create and Delete become
// no-ops and Update only applies invitationState and comment.
func WithReadOnly(enabled bool) Option {
	return func(p *Provider) {
		p.readOnly = enabled
	}
}

// NewProvider creates a lifecycle service backed by store.
func NewProvider(store Store, opts ...Option) *Provider {
	p := &Provider{
		store:     store,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     NewID,
		principal: auth.PrincipalFromContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// stamp returns the audit timestamp, UTC at millisecond precision so that
// stored and returned values compare equal on every store.
func (p *Provider) stamp() time.Time {
	return p.now().UTC().Truncate(time.Millisecond)
}

func (p *Provider) List(ctx context.Context, queryType, query string, position, size int) ([]Invitation, error) {
	if p.readOnly {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "list is disabled in read-only mode")
		return []Invitation{}, nil
	}

	docs, err := p.store.FindRange(ctx, max(position, 0), size)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	result := make([]Invitation, 0, len(docs))
	for _, doc := range docs {
		if inv, ok := FromDocument(doc); ok {
			result = append(result, inv)
		}
	}

	p.logger.LogAttrs(ctx, slog.LevelInfo, "list invitations",
		slog.String("query_type", queryType),
		slog.String("query", query),
		slog.Int("position", position),
		slog.Int("size", size),
		slog.Int("count", len(result)),
	)
	return result, nil
}

func (p *Provider) Create(ctx context.Context, in Invitation) (Invitation, error) {
	if p.readOnly {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "create is disabled in read-only mode")
		return in, nil
	}

	if in.ID != "" {
		if _, err := p.find(ctx, in.ID); err == nil {
			return Invitation{}, fmt.Errorf("%w: invitation <%s> exists already", ErrDuplicate, in.ID)
		}
	}

	inv, err := normalize(in, modeCreate)
	if err != nil {
		return Invitation{}, err
	}

	inv.ID = p.newID()
	if _, err := p.find(ctx, inv.ID); err == nil {
		return Invitation{}, fmt.Errorf("%w: invitation <%s> exists already", ErrDuplicate, inv.ID)
	} else if !errors.Is(err, ErrNotFound) {
		return Invitation{}, err
	}

	ts := p.stamp()
	principal := p.principal(ctx)
	inv.CreatedAt, inv.CreatedBy = ts, principal
	inv.ModifiedAt, inv.ModifiedBy = ts, principal

	if _, ok := objectID(inv.ID); !ok {
		return Invitation{}, fmt.Errorf("%w: generated id <%s> is not a valid object id", ErrInternal, inv.ID)
	}
	if err := p.store.Insert(ctx, ToDocument(inv, true)); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return Invitation{}, err
		}
		return Invitation{}, errors.Join(ErrInternal, err)
	}

	p.logger.LogAttrs(ctx, slog.LevelInfo, "invitation created",
		logger.InvitationID(inv.ID),
		logger.Principal(principal),
	)
	return inv, nil
}

func (p *Provider) Read(ctx context.Context, id string) (Invitation, error) {
	inv, err := p.find(ctx, id)
	if err != nil {
		return Invitation{}, err
	}
	p.logger.LogAttrs(ctx, slog.LevelDebug, "invitation read", logger.InvitationID(id))
	return inv, nil
}

func (p *Provider) Update(ctx context.Context, id string, in Invitation) (Invitation, error) {
	stored, err := p.find(ctx, id)
	if err != nil {
		return Invitation{}, err
	}
	warnAuditDrift(ctx, p.logger, stored, in)

	var next Invitation
	if p.readOnly {
		next, err = stateAndCommentOnly(stored, in)
	} else {
		next, err = overwriteMutable(stored, in)
	}
	if err != nil {
		return Invitation{}, err
	}

	if !canMove(stored.InvitationState, next.InvitationState) {
		return Invitation{}, fmt.Errorf("%w: invitation <%s> can not move from %s to %s",
			ErrValidation, id, stored.InvitationState, next.InvitationState)
	}

	return p.save(ctx, next, "invitation updated")
}

// overwriteMutable validates the incoming value and copies every mutable
// field onto the stored record. Identity and creation audit fields are kept.
func overwriteMutable(stored, in Invitation) (Invitation, error) {
	inv, err := normalize(in, modeUpdate)
	if err != nil {
		return Invitation{}, err
	}
	next := stored
	next.FirstName = inv.FirstName
	next.LastName = inv.LastName
	next.Email = inv.Email
	next.Salutation = inv.Salutation
	next.InvitationState = inv.InvitationState
	next.Comment = inv.Comment
	next.InternalComment = inv.InternalComment
	next.Contact = inv.Contact
	return next, nil
}

// stateAndCommentOnly is the read-only mode update policy: identity fields
// stay locked and only invitationState and comment are taken from the client.
func stateAndCommentOnly(stored, in Invitation) (Invitation, error) {
	if in.InvitationState != "" && !in.InvitationState.Valid() {
		return Invitation{}, fmt.Errorf("%w: unknown invitationState %q", ErrValidation, in.InvitationState)
	}
	next := stored
	if in.InvitationState != "" {
		next.InvitationState = in.InvitationState
	}
	next.Comment = in.Comment
	return next, nil
}

func (p *Provider) Delete(ctx context.Context, id string) error {
	if p.readOnly {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "delete is disabled in read-only mode", logger.InvitationID(id))
		return nil
	}

	if _, err := p.find(ctx, id); err != nil {
		return err
	}

	oid, _ := objectID(id)
	removed, err := p.store.DeleteByID(ctx, oid)
	if err != nil {
		return errors.Join(ErrInternal, err)
	}
	if !removed {
		return fmt.Errorf("%w: invitation <%s> can not be removed although it exists", ErrInternal, id)
	}

	p.logger.LogAttrs(ctx, slog.LevelInfo, "invitation deleted",
		logger.InvitationID(id),
		logger.Principal(p.principal(ctx)),
	)
	return nil
}

func (p *Provider) Register(ctx context.Context, id, comment string) (Invitation, error) {
	return p.answer(ctx, id, comment, EventRegister)
}

func (p *Provider) Deregister(ctx context.Context, id, comment string) (Invitation, error) {
	return p.answer(ctx, id, comment, EventDeregister)
}

func (p *Provider) answer(ctx context.Context, id, comment string, event statemachine.StringEvent) (Invitation, error) {
	inv, err := p.find(ctx, id)
	if err != nil {
		return Invitation{}, err
	}

	from := inv.InvitationState
	if from == "" {
		from = DefaultState
	}
	to, err := advance(ctx, id, from, event, inv)
	if err != nil {
		return Invitation{}, err
	}
	if to == from {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "invitation already answered",
			logger.InvitationID(id),
			logger.Event(event.Name()),
			slog.String("state", string(to)),
		)
	}

	inv.InvitationState = to
	inv.Comment = comment
	return p.save(ctx, inv, "invitation "+event.Name()+"ed")
}

// save stamps the modification audit fields and replaces the stored record.
func (p *Provider) save(ctx context.Context, inv Invitation, msg string) (Invitation, error) {
	oid, ok := objectID(inv.ID)
	if !ok {
		return Invitation{}, fmt.Errorf("%w: invitation <%s> was not found", ErrNotFound, inv.ID)
	}

	inv.ModifiedAt = p.stamp()
	inv.ModifiedBy = p.principal(ctx)

	if err := p.store.Update(ctx, oid, ToDocument(inv, true)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Invitation{}, err
		}
		return Invitation{}, errors.Join(ErrInternal, err)
	}

	p.logger.LogAttrs(ctx, slog.LevelInfo, msg,
		logger.InvitationID(inv.ID),
		logger.Principal(inv.ModifiedBy),
		slog.String("state", string(inv.InvitationState)),
	)
	return inv, nil
}

// find loads the invitation or reports ErrNotFound. Identifiers that are not
// valid object ids can not exist in the store.
func (p *Provider) find(ctx context.Context, id string) (Invitation, error) {
	notFound := fmt.Errorf("%w: no invitation with ID <%s> was found", ErrNotFound, id)

	oid, ok := objectID(id)
	if !ok {
		return Invitation{}, notFound
	}
	doc, err := p.store.FindByID(ctx, oid)
	if err != nil {
		return Invitation{}, errors.Join(ErrInternal, err)
	}
	inv, ok := FromDocument(doc)
	if !ok {
		return Invitation{}, notFound
	}
	return inv, nil
}
