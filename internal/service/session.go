package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

// Session is one signed-in client: its account, the screen it shows and its
// payment flow.
type Session struct {
	Token string
	Flow  *SubmissionFlow

	// expires is when the ephemeral slot lapses. Zero means never.
	expires time.Time

	mu      sync.Mutex
	account models.Account
	screen  models.Screen
}

func (s *Session) expired(now time.Time) bool {
	return !s.expires.IsZero() && !now.Before(s.expires)
}

func (s *Session) Account() models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

func (s *Session) Screen() models.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

func (s *Session) setScreen(screen models.Screen) {
	s.mu.Lock()
	s.screen = screen
	s.mu.Unlock()
}

// SessionController owns active sessions. The ephemeral store keeps only
// token -> email; flows and screens live in process.
type SessionController struct {
	credentials *CredentialStore
	ledger      *Ledger
	store       interfaces.SessionStore
	flowDeps    *FlowDeps
	ttl         time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionController(credentials *CredentialStore, ledger *Ledger, store interfaces.SessionStore, flowDeps *FlowDeps, ttl time.Duration) *SessionController {
	return &SessionController{
		credentials: credentials,
		ledger:      ledger,
		store:       store,
		flowDeps:    flowDeps,
		ttl:         ttl,
		sessions:    map[string]*Session{},
	}
}

func (c *SessionController) Register(ctx context.Context, email, secret string) (*Session, error) {
	account, err := c.credentials.Register(ctx, email, secret)
	if err != nil {
		return nil, err
	}
	return c.open(ctx, *account)
}

func (c *SessionController) Login(ctx context.Context, email, secret string) (*Session, error) {
	account, err := c.credentials.Authenticate(ctx, email, secret)
	if err != nil {
		return nil, err
	}
	return c.open(ctx, *account)
}

// Resolve returns the session for token, rebuilding it from the ephemeral
// store when this process has not seen it yet.
func (c *SessionController) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	email, err := c.store.Lookup(ctx, token)
	if errors.Is(err, interfaces.ErrNotFound) {
		c.drop(token)
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(time.Now())
	if s, ok := c.sessions[token]; ok {
		return s, nil
	}
	account, ok := c.credentials.LookupByEmail(ctx, email)
	if !ok {
		return nil, ErrUnauthenticated
	}
	s := c.newSession(token, *account)
	c.sessions[token] = s
	return s, nil
}

func (c *SessionController) Logout(ctx context.Context, token string) error {
	c.drop(token)
	if err := c.store.Remove(ctx, token); err != nil {
		return fmt.Errorf("session remove: %w", err)
	}
	return nil
}

// SetScreen switches the visible screen. The admin screen requires the
// administrator flag.
func (c *SessionController) SetScreen(s *Session, screen models.Screen) error {
	if !screen.Valid() || screen == models.ScreenUnauthenticated {
		verr := newValidationError("Unknown screen.")
		verr.add("screen", "must be payment, history or admin")
		return verr
	}
	if screen == models.ScreenAdmin && !s.Account().IsAdmin {
		return ErrForbidden
	}
	s.setScreen(screen)
	return nil
}

// VisibleTransactions is the whole ledger for administrators and the
// session's own entries for everyone else.
func (c *SessionController) VisibleTransactions(ctx context.Context, s *Session) []models.Transaction {
	account := s.Account()
	if account.IsAdmin {
		return c.ledger.All(ctx)
	}
	return c.ledger.ForAccount(ctx, account.ID)
}

// Submit runs the session's flow and moves a settled session to history.
func (c *SessionController) Submit(ctx context.Context, s *Session, req models.SubmitRequest) (Outcome, error) {
	out, err := s.Flow.Submit(ctx, s.Account(), req)
	if err == nil && out.State == models.StateSettled {
		s.setScreen(models.ScreenHistory)
	}
	return out, err
}

func (c *SessionController) open(ctx context.Context, account models.Account) (*Session, error) {
	token := uuid.NewString()
	if err := c.store.Put(ctx, token, account.Email, c.ttl); err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(time.Now())
	s := c.newSession(token, account)
	c.sessions[token] = s

	telemetry.Logger.Info("Session opened",
		zap.String("account_id", account.ID),
		zap.Bool("admin", account.IsAdmin),
	)
	return s, nil
}

func (c *SessionController) newSession(token string, account models.Account) *Session {
	s := &Session{
		Token:   token,
		Flow:    NewSubmissionFlow(c.flowDeps, uuid.NewString()),
		account: account,
		screen:  models.ScreenPayment,
	}
	if c.ttl > 0 {
		s.expires = time.Now().Add(c.ttl)
	}
	return s
}

// pruneLocked evicts sessions whose slot has lapsed, including those whose
// clients never return.
func (c *SessionController) pruneLocked(now time.Time) {
	for token, s := range c.sessions {
		if s.expired(now) {
			delete(c.sessions, token)
			s.Flow.Close()
		}
	}
}

// Active reports how many sessions this process holds.
func (c *SessionController) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *SessionController) drop(token string) {
	c.mu.Lock()
	s, ok := c.sessions[token]
	delete(c.sessions, token)
	c.mu.Unlock()
	if ok {
		s.Flow.Close()
	}
}
