package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akylbek/payment-system/payways/internal/models"
)

func newTestAppState(t *testing.T, assessor *stubAssessor) *AppState {
	t.Helper()

	return NewAppState(context.Background(), AppStateOptions{
		Store:        newTestStore(t),
		SessionStore: newTestStore(t),
		Assessor:     assessor,
		Publisher:    &recordingPublisher{},
		AdminEmail:   testAdminEmail,
		DisplayDelay: time.Hour,
		SessionTTL:   time.Hour,
	})
}

func TestSessionController_RegisterOpensPaymentScreen(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskLow)})

	s, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, models.ScreenPayment, s.Screen())
	assert.Equal(t, "ada@example.com", s.Account().Email)

	resolved, err := state.Sessions.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Same(t, s, resolved)
}

func TestSessionController_LoginFailure(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskLow)})

	_, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	_, err = state.Sessions.Login(ctx, "ada@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	s, err := state.Sessions.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.ScreenPayment, s.Screen())
}

func TestSessionController_Logout(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskLow)})

	s, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, state.Sessions.Logout(ctx, s.Token))

	_, err = state.Sessions.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = state.Sessions.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionController_ResolveRebuildsFromStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	sessions := newTestStore(t)
	opts := AppStateOptions{
		Store:        store,
		SessionStore: sessions,
		Assessor:     &stubAssessor{verdict: verdict(models.RiskLow)},
		AdminEmail:   testAdminEmail,
		DisplayDelay: time.Hour,
		SessionTTL:   time.Hour,
	}

	s, err := NewAppState(ctx, opts).Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	restarted := NewAppState(ctx, opts)
	resolved, err := restarted.Sessions.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Account().ID, resolved.Account().ID)
	assert.Equal(t, models.ScreenPayment, resolved.Screen())
}

func TestSessionController_SessionExpires(t *testing.T) {
	ctx := context.Background()
	state := NewAppState(ctx, AppStateOptions{
		Store:        newTestStore(t),
		SessionStore: newTestStore(t),
		Assessor:     &stubAssessor{verdict: verdict(models.RiskLow)},
		AdminEmail:   testAdminEmail,
		DisplayDelay: time.Hour,
		SessionTTL:   20 * time.Millisecond,
	})

	s, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := state.Sessions.Resolve(ctx, s.Token)
		return errors.Is(err, ErrUnauthenticated)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionController_EvictsLapsedSessions(t *testing.T) {
	ctx := context.Background()
	state := NewAppState(ctx, AppStateOptions{
		Store:        newTestStore(t),
		SessionStore: newTestStore(t),
		Assessor:     &stubAssessor{verdict: verdict(models.RiskLow)},
		AdminEmail:   testAdminEmail,
		DisplayDelay: time.Hour,
		SessionTTL:   10 * time.Millisecond,
	})
	_, err := state.Credentials.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		_, err := state.Sessions.Login(ctx, "ada@example.com", "pw")
		require.NoError(t, err)
	}
	time.Sleep(50 * time.Millisecond)

	// none of the lapsed tokens is ever presented again
	s, err := state.Sessions.Login(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Sessions.Active())

	time.Sleep(50 * time.Millisecond)
	_, err = state.Sessions.Resolve(ctx, s.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, state.Sessions.Active())
}

func TestSessionController_KeepsLiveSessions(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskLow)})

	first, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	_, err = state.Sessions.Register(ctx, "bob@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, 2, state.Sessions.Active())

	resolved, err := state.Sessions.Resolve(ctx, first.Token)
	require.NoError(t, err)
	assert.Same(t, first, resolved)
}

func TestSessionController_AdminScreenGating(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskLow)})

	user, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	admin, err := state.Sessions.Register(ctx, "admin@payways.com", "pw")
	require.NoError(t, err)

	assert.ErrorIs(t, state.Sessions.SetScreen(user, models.ScreenAdmin), ErrForbidden)
	assert.Equal(t, models.ScreenPayment, user.Screen())

	require.NoError(t, state.Sessions.SetScreen(admin, models.ScreenAdmin))
	assert.Equal(t, models.ScreenAdmin, admin.Screen())

	require.NoError(t, state.Sessions.SetScreen(user, models.ScreenHistory))
	assert.Equal(t, models.ScreenHistory, user.Screen())

	var verr *ValidationError
	assert.True(t, errors.As(state.Sessions.SetScreen(user, models.ScreenUnauthenticated), &verr))
	assert.True(t, errors.As(state.Sessions.SetScreen(user, models.Screen("settings")), &verr))
}

func TestSessionController_HistoryVisibility(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskLow)})

	ada, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)
	bob, err := state.Sessions.Register(ctx, "bob@example.com", "pw")
	require.NoError(t, err)
	admin, err := state.Sessions.Register(ctx, "admin@payways.com", "pw")
	require.NoError(t, err)

	out, err := state.Sessions.Submit(ctx, ada, validRequest())
	require.NoError(t, err)
	require.Equal(t, models.StateSettled, out.State)
	assert.Equal(t, models.ScreenHistory, ada.Screen())

	_, err = state.Sessions.Submit(ctx, bob, models.SubmitRequest{CountryCode: "US", PaymentMethod: "PayPal", Amount: "5"})
	require.NoError(t, err)

	adaHistory := state.Sessions.VisibleTransactions(ctx, ada)
	require.Len(t, adaHistory, 1)
	assert.Equal(t, ada.Account().ID, adaHistory[0].AccountID)

	bobHistory := state.Sessions.VisibleTransactions(ctx, bob)
	require.Len(t, bobHistory, 1)
	assert.Equal(t, bob.Account().ID, bobHistory[0].AccountID)

	assert.Len(t, state.Sessions.VisibleTransactions(ctx, admin), 2)
}

func TestSessionController_DeniedStaysOnPaymentScreen(t *testing.T) {
	ctx := context.Background()
	state := newTestAppState(t, &stubAssessor{verdict: verdict(models.RiskHigh)})

	s, err := state.Sessions.Register(ctx, "ada@example.com", "pw")
	require.NoError(t, err)

	out, err := state.Sessions.Submit(ctx, s, validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StateDenied, out.State)
	assert.Equal(t, models.ScreenPayment, s.Screen())
	assert.Empty(t, state.Sessions.VisibleTransactions(ctx, s))
}
