package invitation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/pkg/email"
	"github.com/dmitrymomot/invitations/pkg/email/templates"
	"github.com/dmitrymomot/invitations/pkg/logger"
	"github.com/dmitrymomot/invitations/svc/invitation"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

// recordingSender keeps every message and when it was sent. failAt makes
// the n-th call (1-based) fail.
type recordingSender struct {
	mu     sync.Mutex
	sent   []email.SendEmailParams
	times  []time.Time
	failAt int
	onSend func(n int)
}

func (s *recordingSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.sent) + 1
	if s.onSend != nil {
		s.onSend(n)
	}
	if n == s.failAt {
		return errors.New("smtp: mailbox unavailable")
	}
	s.sent = append(s.sent, params)
	s.times = append(s.times, time.Now())
	return nil
}

type stubRenderer struct {
	names [][]string
	err   error
}

func (r *stubRenderer) RenderFirst(_ context.Context, names []string, data any) (*templates.Result, error) {
	r.names = append(r.names, names)
	if r.err != nil {
		return nil, r.err
	}
	inv := data.(invitation.Invitation)
	return &templates.Result{Subject: "Hello " + inv.FirstName, HTML: "<p>" + inv.FullName() + "</p>"}, nil
}

func seed(t *testing.T, p *invitation.Provider, names ...string) []invitation.Invitation {
	t.Helper()
	invs := make([]invitation.Invitation, 0, len(names))
	for _, name := range names {
		inv, err := p.Create(context.Background(), newInvitation(name))
		require.NoError(t, err)
		invs = append(invs, inv)
	}
	return invs
}

func newDispatcher(p invitation.Service, r invitation.Renderer, s email.EmailSender, cfg invitation.DispatchConfig) *invitation.Dispatcher {
	return invitation.NewDispatcher(p, r, s, cfg, invitation.WithDispatcherLogger(logger.Discard()))
}

func TestDispatcher_DispatchOne(t *testing.T) {
	t.Parallel()

	t.Run("sends and marks sent", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		inv := seed(t, p, "ada")[0]

		sender := &mockSender{}
		sender.On("SendEmail", mock.Anything, email.SendEmailParams{
			SendTo:   "ada@example.com",
			From:     "events@example.com",
			Subject:  "Hello ada",
			BodyHTML: "<p>ada Lovelace</p>",
			Tag:      "invitation",
		}).Return(nil).Once()

		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{From: "events@example.com"})
		got, err := d.DispatchOne(context.Background(), inv.ID)
		require.NoError(t, err)

		assert.Empty(t, got.ID)
		assert.Equal(t, invitation.StateSent, got.InvitationState)
		sender.AssertExpectations(t)

		stored, err := p.Read(context.Background(), inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invitation.StateSent, stored.InvitationState)
	})

	t.Run("re-dispatch of a sent invitation", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		inv := seed(t, p, "ada")[0]
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{})

		_, err := d.DispatchOne(context.Background(), inv.ID)
		require.NoError(t, err)
		_, err = d.DispatchOne(context.Background(), inv.ID)
		require.NoError(t, err)
		assert.Len(t, sender.sent, 2)
	})

	t.Run("answered invitation is rejected", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		inv := seed(t, p, "ada")[0]
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{})

		_, err := d.DispatchOne(context.Background(), inv.ID)
		require.NoError(t, err)
		_, err = p.Deregister(context.Background(), inv.ID, "")
		require.NoError(t, err)

		_, err = d.DispatchOne(context.Background(), inv.ID)
		assert.ErrorIs(t, err, invitation.ErrValidation)
		assert.Len(t, sender.sent, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		d := newDispatcher(p, &stubRenderer{}, &recordingSender{}, invitation.DispatchConfig{})
		_, err := d.DispatchOne(context.Background(), invitation.NewID())
		assert.ErrorIs(t, err, invitation.ErrNotFound)
	})

	t.Run("mailer failure keeps state", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		inv := seed(t, p, "ada")[0]
		d := newDispatcher(p, &stubRenderer{}, &recordingSender{failAt: 1}, invitation.DispatchConfig{})

		_, err := d.DispatchOne(context.Background(), inv.ID)
		require.ErrorIs(t, err, invitation.ErrInternal)

		stored, err := p.Read(context.Background(), inv.ID)
		require.NoError(t, err)
		assert.Equal(t, invitation.StateInitial, stored.InvitationState)
	})

	t.Run("render failure", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		inv := seed(t, p, "ada")[0]
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{err: templates.ErrTemplateNotFound}, sender, invitation.DispatchConfig{})

		_, err := d.DispatchOne(context.Background(), inv.ID)
		require.ErrorIs(t, err, invitation.ErrInternal)
		assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
		assert.Empty(t, sender.sent)
	})
}

// seedWithoutEmail stores a record the way older releases did, before email
// became mandatory on create.
func seedWithoutEmail(t *testing.T, store invitation.Store) string {
	t.Helper()
	id := invitation.NewID()
	doc := invitation.ToDocument(invitation.Invitation{ID: id, FirstName: "legacy", LastName: "Guest"}, true)
	require.NoError(t, store.Insert(context.Background(), doc))
	return id
}

func TestDispatcher_MissingRecipient(t *testing.T) {
	t.Parallel()

	t.Run("dispatch one is rejected", func(t *testing.T) {
		t.Parallel()

		store := invitation.NewMemoryStore()
		p := invitation.NewProvider(store, invitation.WithLogger(logger.Discard()))
		id := seedWithoutEmail(t, store)

		sender := &mockSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{})
		_, err := d.DispatchOne(context.Background(), id)
		require.ErrorIs(t, err, invitation.ErrValidation)
		assert.Contains(t, err.Error(), "has no recipient")
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)

		stored, err := p.Read(context.Background(), id)
		require.NoError(t, err)
		assert.Empty(t, stored.InvitationState)
	})

	t.Run("dispatch all skips it", func(t *testing.T) {
		t.Parallel()

		store := invitation.NewMemoryStore()
		p := invitation.NewProvider(store, invitation.WithLogger(logger.Discard()))
		id := seedWithoutEmail(t, store)
		invs := seed(t, p, "ada", "grace")

		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: time.Millisecond})
		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		require.Len(t, sender.sent, 2)
		assert.Equal(t, invs[0].Email, sender.sent[0].SendTo)
		assert.Equal(t, invs[1].Email, sender.sent[1].SendTo)

		stored, err := p.Read(context.Background(), id)
		require.NoError(t, err)
		assert.Empty(t, stored.InvitationState)
	})
}

func TestDispatcher_Defaults(t *testing.T) {
	t.Parallel()

	t.Run("one second between sends", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		seed(t, p, "ada", "grace")
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{})

		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		require.Len(t, sender.times, 2)
		assert.GreaterOrEqual(t, sender.times[1].Sub(sender.times[0]), time.Second)
	})

	t.Run("two hundred per batch", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		names := make([]string, 201)
		for i := range names {
			names[i] = fmt.Sprintf("guest%03d", i)
		}
		seed(t, p, names...)
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: time.Microsecond})

		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 200, sent)
		assert.Len(t, sender.sent, 200)
	})
}

func TestDispatcher_DispatchAll(t *testing.T) {
	t.Parallel()

	const interval = 20 * time.Millisecond

	t.Run("sends every invitation with spacing", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		invs := seed(t, p, "ada", "grace", "barbara", "frances")
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: interval})

		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, len(invs), sent)
		require.Len(t, sender.sent, len(invs))

		for i, inv := range invs {
			assert.Equal(t, inv.Email, sender.sent[i].SendTo)
			stored, err := p.Read(context.Background(), inv.ID)
			require.NoError(t, err)
			assert.Equal(t, invitation.StateSent, stored.InvitationState)
		}
		for i := 1; i < len(sender.times); i++ {
			assert.GreaterOrEqual(t, sender.times[i].Sub(sender.times[i-1]), interval)
		}
	})

	t.Run("batch size limits the run", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		seed(t, p, "ada", "grace", "barbara")
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: time.Millisecond, BatchSize: 2})

		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
	})

	t.Run("first failure aborts the batch", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		invs := seed(t, p, "ada", "grace", "barbara", "frances")
		sender := &recordingSender{failAt: 3}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: time.Millisecond})

		sent, err := d.DispatchAll(context.Background())
		require.ErrorIs(t, err, invitation.ErrInternal)
		assert.Equal(t, 2, sent)

		want := []invitation.State{invitation.StateSent, invitation.StateSent, invitation.StateInitial, invitation.StateInitial}
		for i, inv := range invs {
			stored, err := p.Read(context.Background(), inv.ID)
			require.NoError(t, err)
			assert.Equal(t, want[i], stored.InvitationState, inv.FirstName)
		}
	})

	t.Run("cancelled pause aborts the batch", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		invs := seed(t, p, "ada", "grace")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sender := &recordingSender{onSend: func(int) { cancel() }}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: time.Hour})

		sent, err := d.DispatchAll(ctx)
		require.ErrorIs(t, err, invitation.ErrInternal)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, sent)

		stored, err := p.Read(context.Background(), invs[1].ID)
		require.NoError(t, err)
		assert.Equal(t, invitation.StateInitial, stored.InvitationState)
	})

	t.Run("answered invitations are skipped", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		invs := seed(t, p, "ada", "grace", "barbara")
		sender := &recordingSender{}
		d := newDispatcher(p, &stubRenderer{}, sender, invitation.DispatchConfig{Interval: time.Millisecond})

		_, err := d.DispatchOne(context.Background(), invs[0].ID)
		require.NoError(t, err)
		_, err = p.Register(context.Background(), invs[0].ID, "")
		require.NoError(t, err)

		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, sent)

		stored, err := p.Read(context.Background(), invs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, invitation.StateRegistered, stored.InvitationState)
	})

	t.Run("empty collection", func(t *testing.T) {
		t.Parallel()

		p, _ := newProvider(t)
		d := newDispatcher(p, &stubRenderer{}, &recordingSender{}, invitation.DispatchConfig{})

		sent, err := d.DispatchAll(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sent)
	})
}

func TestDispatcher_RenderedMessage(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	in := newInvitation("ada")
	in.Salutation = invitation.FormalFemale
	in.Contact = "Sales Team"
	inv, err := p.Create(context.Background(), in)
	require.NoError(t, err)

	sender := &recordingSender{}
	d := newDispatcher(p, templates.Default(), sender, invitation.DispatchConfig{From: "events@example.com"})

	msg, err := d.RenderedMessage(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "events@example.com", msg.From)
	assert.Equal(t, "Invitation for Ms. Lovelace", msg.Subject)
	assert.Contains(t, msg.Body, "Dear Ms. Lovelace,")
	assert.Empty(t, sender.sent)

	stored, err := p.Read(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invitation.StateInitial, stored.InvitationState)

	_, err = d.RenderedMessage(context.Background(), invitation.NewID())
	assert.ErrorIs(t, err, invitation.ErrNotFound)
}

func TestDispatcher_DefaultSubject(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	inv := seed(t, p, "ada")[0]

	r := &emptySubjectRenderer{}
	d := newDispatcher(p, r, &recordingSender{}, invitation.DispatchConfig{Subject: "You are invited"})

	msg, err := d.RenderedMessage(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "You are invited", msg.Subject)
}

type emptySubjectRenderer struct{}

func (emptySubjectRenderer) RenderFirst(context.Context, []string, any) (*templates.Result, error) {
	return &templates.Result{HTML: "<p>hi</p>"}, nil
}

func TestTemplateNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		inv  invitation.Invitation
		want []string
	}{
		{
			name: "defaults",
			inv:  invitation.Invitation{},
			want: []string{"invitation/default/informal_male.md"},
		},
		{
			name: "contact specific first",
			inv:  invitation.Invitation{Contact: "Sales Team", Salutation: invitation.FormalFemale},
			want: []string{"invitation/sales_team/formal_female.md", "invitation/default/formal_female.md"},
		},
		{
			name: "path characters are replaced",
			inv:  invitation.Invitation{Contact: "../../etc", Salutation: invitation.InformalFemale},
			want: []string{"invitation/etc/informal_female.md", "invitation/default/informal_female.md"},
		},
		{
			name: "default contact",
			inv:  invitation.Invitation{Contact: "Default", Salutation: invitation.FormalMale},
			want: []string{"invitation/default/formal_male.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, invitation.TemplateNames(tt.inv))
		})
	}
}
