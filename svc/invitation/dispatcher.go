package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/invitations/pkg/email"
	"github.com/dmitrymomot/invitations/pkg/email/templates"
	"github.com/dmitrymomot/invitations/pkg/logger"
)

// DispatchConfig controls message rendering and outbound pacing.
// From overrides the sender's default address; Subject is used when the
// template has none.
type DispatchConfig struct {
	From      string        `env:"INVITATION_FROM"`
	Subject   string        `env:"INVITATION_SUBJECT" envDefault:"Invitation"`
	Tag       string        `env:"INVITATION_TAG" envDefault:"invitation"`
	Interval  time.Duration `env:"INVITATION_DISPATCH_INTERVAL" envDefault:"1s"`
	BatchSize int           `env:"INVITATION_DISPATCH_BATCH_SIZE" envDefault:"200"`
}

const (
	defaultInterval  = time.Second
	defaultBatchSize = 200
	templateTag      = "invitation"
)

// Renderer renders the first existing template of the given names.
type Renderer interface {
	RenderFirst(ctx context.Context, names []string, data any) (*templates.Result, error)
}

// Message is a rendered invitation message.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Dispatcher renders and sends invitation messages and moves the
// invitations to SENT. Sends are strictly sequential.
type Dispatcher struct {
	svc      Service
	renderer Renderer
	sender   email.EmailSender
	cfg      DispatchConfig
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher. Zero Interval and BatchSize fall back
// to one second and 200 invitations.
func NewDispatcher(svc Service, renderer Renderer, sender email.EmailSender, cfg DispatchConfig, opts ...DispatcherOption) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Tag == "" {
		cfg.Tag = templateTag
	}
	d := &Dispatcher{
		svc:      svc,
		renderer: renderer,
		sender:   sender,
		cfg:      cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RenderedMessage returns the message DispatchOne would send, without sending it.
func (d *Dispatcher) RenderedMessage(ctx context.Context, id string) (Message, error) {
	inv, err := d.svc.Read(ctx, id)
	if err != nil {
		return Message{}, err
	}
	return d.render(ctx, inv)
}

// DispatchOne sends the invitation message for id and marks it SENT.
// Invitations that were already answered or have no recipient are rejected
// with ErrValidation; rendering and mailer failures are reported as ErrInternal.
func (d *Dispatcher) DispatchOne(ctx context.Context, id string) (Invitation, error) {
	inv, err := d.svc.Read(ctx, id)
	if err != nil {
		return Invitation{}, err
	}
	return d.dispatch(ctx, inv)
}

// DispatchAll sends messages for the first BatchSize invitations in list
// order, pausing Interval between consecutive sends. Answered invitations
// and those without a recipient are skipped. The first failure, including a cancelled pause, aborts the
// batch with ErrInternal; messages already sent stay SENT. It returns the
// number of messages sent.
func (d *Dispatcher) DispatchAll(ctx context.Context) (int, error) {
	invs, err := d.svc.List(ctx, "", "", 0, d.cfg.BatchSize)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}

	sent := 0
	for _, inv := range invs {
		if !lifecycle.CanFire(ctx, stateOf(inv), EventDispatch, inv) {
			d.logger.LogAttrs(ctx, slog.LevelInfo, "skipping invitation",
				logger.InvitationID(inv.ID),
				slog.String("state", string(inv.InvitationState)),
			)
			continue
		}

		if sent > 0 {
			if err := d.pause(ctx); err != nil {
				return sent, errors.Join(ErrInternal, fmt.Errorf("dispatch interrupted after %d messages: %w", sent, err))
			}
		}

		if _, err := d.dispatch(ctx, inv); err != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "dispatch aborted",
				logger.InvitationID(inv.ID),
				slog.Int("sent", sent),
				logger.Error(err),
			)
			return sent, errors.Join(ErrInternal, err)
		}
		sent++
	}

	d.logger.LogAttrs(ctx, slog.LevelInfo, "dispatch completed",
		slog.Int("sent", sent),
		slog.Int("considered", len(invs)),
	)
	return sent, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, inv Invitation) (Invitation, error) {
	id := inv.ID
	to, err := advance(ctx, id, stateOf(inv), EventDispatch, inv)
	if err != nil {
		return Invitation{}, err
	}

	msg, err := d.render(ctx, inv)
	if err != nil {
		return Invitation{}, err
	}

	if err := d.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   msg.To,
		From:     msg.From,
		Subject:  msg.Subject,
		BodyHTML: msg.Body,
		Tag:      d.cfg.Tag,
	}); err != nil {
		return Invitation{}, errors.Join(ErrInternal, fmt.Errorf("send invitation <%s>: %w", id, err))
	}

	d.logger.LogAttrs(ctx, slog.LevelInfo, "invitation message sent",
		logger.InvitationID(id),
		slog.String("to", msg.To),
	)

	inv.ID = ""
	inv.InvitationState = to
	updated, err := d.svc.Update(ctx, id, inv)
	if err != nil {
		return Invitation{}, err
	}
	updated.ID = ""
	return updated, nil
}

func (d *Dispatcher) render(ctx context.Context, inv Invitation) (Message, error) {
	res, err := d.renderer.RenderFirst(ctx, TemplateNames(inv), inv)
	if err != nil {
		return Message{}, errors.Join(ErrInternal, fmt.Errorf("render invitation <%s>: %w", inv.ID, err))
	}

	subject := res.Subject
	if subject == "" {
		subject = d.cfg.Subject
	}
	return Message{
		To:      inv.Email,
		From:    d.cfg.From,
		Subject: subject,
		Body:    res.HTML,
	}, nil
}

// pause blocks for the configured interval or until ctx is done.
func (d *Dispatcher) pause(ctx context.Context) error {
	t := time.NewTimer(d.cfg.Interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var unsafeTemplateChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// TemplateNames lists the templates tried for an invitation, most specific
// first: the contact's own template for the salutation, then the default one.
func TemplateNames(inv Invitation) []string {
	salutation := inv.Salutation
	if salutation == "" {
		salutation = DefaultSalutation
	}
	file := strings.ToLower(string(salutation)) + ".md"

	names := make([]string, 0, 2)
	contact := unsafeTemplateChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(inv.Contact)), "_")
	contact = strings.Trim(contact, "_")
	if contact != "" && contact != "default" {
		names = append(names, "invitation/"+contact+"/"+file)
	}
	return append(names, "invitation/default/"+file)
}

func stateOf(inv Invitation) State {
	if inv.InvitationState == "" {
		return DefaultState
	}
	return inv.InvitationState
}
