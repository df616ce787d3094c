package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payways/internal/interfaces"
	"github.com/akylbek/payment-system/payways/internal/models"
	"github.com/akylbek/payment-system/payways/internal/telemetry"
)

const rejectedMessage = "Please fill out all fields correctly."

// FlowDeps are shared by every session's submission flow.
type FlowDeps struct {
	Catalog   *CatalogStore
	Ledger    *Ledger
	Assessor  interfaces.RiskAssessor
	Publisher interfaces.EventPublisher

	// DisplayDelay is how long settled and denied results stay up before
	// the flow returns to idle.
	DisplayDelay time.Duration
}

// Outcome is the visible result of the latest submission.
type Outcome struct {
	State       models.SubmissionState `json:"state"`
	Message     string                 `json:"message,omitempty"`
	FieldErrors map[string]string      `json:"fieldErrors,omitempty"`
	Verdict     *models.RiskVerdict    `json:"verdict,omitempty"`
	Transaction *models.Transaction    `json:"transaction,omitempty"`
}

// SubmissionFlow drives one session's payment through
// idle -> validating -> assessing -> settled | denied | rejected.
//
// gen identifies the current submission. Anything that abandons a
// submission (cancel, acknowledge, reset) bumps it, and work belonging to an
// older generation is discarded instead of applied.
type SubmissionFlow struct {
	deps      *FlowDeps
	sessionID string

	mu        sync.Mutex
	state     models.SubmissionState
	last      Outcome
	accountID string
	gen       uint64
	cancel    context.CancelFunc
	timer     *time.Timer
}

func NewSubmissionFlow(deps *FlowDeps, sessionID string) *SubmissionFlow {
	return &SubmissionFlow{
		deps:      deps,
		sessionID: sessionID,
		state:     models.StateIdle,
		last:      Outcome{State: models.StateIdle},
	}
}

func (f *SubmissionFlow) Snapshot() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.last
	out.State = f.state
	return out
}

// Submit validates the request, asks the risk gateway for a verdict and
// settles the payment unless the verdict is high. A rejected submission
// returns its *ValidationError alongside the outcome.
func (f *SubmissionFlow) Submit(ctx context.Context, account models.Account, req models.SubmitRequest) (Outcome, error) {
	f.mu.Lock()
	if f.state != models.StateIdle && f.state != models.StateRejected {
		f.mu.Unlock()
		return f.Snapshot(), ErrFlowBusy
	}
	f.gen++
	gen := f.gen
	f.accountID = account.ID
	f.last = Outcome{State: models.StateValidating}
	f.transitionLocked(ctx, models.StateValidating)
	f.mu.Unlock()

	country, method, amount, verr := f.validate(ctx, req)
	if verr != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			return Outcome{State: f.state}, ErrSubmissionAbandoned
		}
		f.last = Outcome{
			State:       models.StateRejected,
			Message:     verr.Message,
			FieldErrors: verr.Fields,
		}
		f.transitionLocked(ctx, models.StateRejected)
		telemetry.SubmissionOutcomes.WithLabelValues(string(models.StateRejected)).Inc()
		return f.last, verr
	}

	assessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return Outcome{State: models.StateIdle}, ErrSubmissionAbandoned
	}
	f.cancel = cancel
	f.last = Outcome{State: models.StateAssessing, Message: "Securing connection and analyzing transaction..."}
	f.transitionLocked(ctx, models.StateAssessing)
	f.mu.Unlock()

	verdict := f.deps.Assessor.Assess(assessCtx, models.RiskRequest{
		Country:        country.Name,
		Amount:         amount.InexactFloat64(),
		PaymentMethod:  method,
		CurrencyCode:   country.Currency.Code,
		CurrencySymbol: country.Currency.Symbol,
	})
	abandoned := assessCtx.Err() != nil

	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancel = nil

	if f.gen != gen || abandoned {
		if f.gen == gen {
			f.gen++
			f.last = Outcome{State: models.StateIdle}
			f.transitionLocked(context.WithoutCancel(ctx), models.StateIdle)
		}
		telemetry.SubmissionOutcomes.WithLabelValues("ABANDONED").Inc()
		telemetry.Logger.Info("Submission abandoned during risk assessment",
			zap.String("session_id", f.sessionID),
			zap.String("account_id", account.ID),
		)
		return Outcome{State: models.StateIdle}, ErrSubmissionAbandoned
	}

	if verdict.Denies() {
		f.last = Outcome{
			State:   models.StateDenied,
			Message: "Transaction Denied",
			Verdict: &verdict,
		}
		f.transitionLocked(ctx, models.StateDenied)
		f.scheduleResetLocked(gen)
		telemetry.SubmissionOutcomes.WithLabelValues(string(models.StateDenied)).Inc()
		return f.last, nil
	}

	tx := models.Transaction{
		ID:            uuid.NewString(),
		AccountID:     account.ID,
		Country:       country.Name,
		PaymentMethod: method,
		Amount:        amount,
		CreatedAt:     time.Now().UTC(),
	}
	f.deps.Ledger.Append(ctx, tx)

	f.last = Outcome{
		State:       models.StateSettled,
		Message:     "Payment Successful",
		Verdict:     &verdict,
		Transaction: &tx,
	}
	f.transitionLocked(ctx, models.StateSettled)
	f.scheduleResetLocked(gen)
	telemetry.SubmissionOutcomes.WithLabelValues(string(models.StateSettled)).Inc()
	return f.last, nil
}

// Acknowledge dismisses a displayed verdict.
func (f *SubmissionFlow) Acknowledge(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case models.StateDenied, models.StateSettled:
		f.resetLocked(ctx)
		return nil
	case models.StateIdle:
		return nil
	}
	return fmt.Errorf("%w: acknowledge from %s", ErrInvalidTransition, f.state)
}

// Edit clears a rejected submission.
func (f *SubmissionFlow) Edit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case models.StateRejected:
		f.resetLocked(ctx)
		return nil
	case models.StateIdle:
		return nil
	}
	return fmt.Errorf("%w: edit from %s", ErrInvalidTransition, f.state)
}

// Cancel abandons an in-flight submission. A verdict that arrives afterwards
// is ignored and nothing is settled.
func (f *SubmissionFlow) Cancel(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case models.StateValidating, models.StateAssessing:
		if f.cancel != nil {
			f.cancel()
			f.cancel = nil
		}
		f.resetLocked(ctx)
		return nil
	}
	return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, f.state)
}

// Close stops pending timers and abandons any in-flight submission.
func (f *SubmissionFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *SubmissionFlow) validate(ctx context.Context, req models.SubmitRequest) (models.CountryProfile, models.PaymentMethod, decimal.Decimal, *ValidationError) {
	verr := newValidationError(rejectedMessage)

	code := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	country, ok := f.deps.Catalog.Get(ctx, code)
	if !ok {
		verr.add("country", "select a supported country")
	}

	method, err := models.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	switch {
	case err != nil:
		verr.add("paymentMethod", "select a payment method")
	case ok && !country.Accepts(method):
		verr.add("paymentMethod", fmt.Sprintf("%s is not accepted in %s", method, country.Name))
	}

	var amount decimal.Decimal
	raw := strings.TrimSpace(req.Amount)
	if raw == "" {
		verr.add("amount", "required")
	} else if amount, err = decimal.NewFromString(raw); err != nil {
		verr.add("amount", "must be a number")
	} else if !amount.IsPositive() {
		verr.add("amount", "must be greater than zero")
	}

	if !verr.empty() {
		return models.CountryProfile{}, 0, decimal.Decimal{}, verr
	}
	return country, method, amount, nil
}

func (f *SubmissionFlow) resetLocked(ctx context.Context) {
	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.last = Outcome{State: models.StateIdle}
	f.transitionLocked(ctx, models.StateIdle)
}

func (f *SubmissionFlow) scheduleResetLocked(gen uint64) {
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.deps.DisplayDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			return
		}
		if f.state == models.StateSettled || f.state == models.StateDenied {
			f.timer = nil
			f.resetLocked(context.Background())
		}
	})
}

func (f *SubmissionFlow) transitionLocked(ctx context.Context, to models.SubmissionState) {
	from := f.state
	f.state = to

	event := models.StateChangedEvent{
		SessionID:     f.sessionID,
		AccountID:     f.accountID,
		State:         to,
		PreviousState: from,
		Timestamp:     time.Now().UTC(),
	}
	if f.last.Transaction != nil {
		event.TransactionID = f.last.Transaction.ID
	}
	if f.last.Verdict != nil {
		event.RiskLevel = f.last.Verdict.Level
	}

	if f.deps.Publisher != nil {
		if err := f.deps.Publisher.Publish(ctx, f.sessionID, event); err != nil {
			telemetry.Logger.Warn("Failed to publish state change",
				zap.String("session_id", f.sessionID),
				zap.Error(err),
			)
		}
	}

	telemetry.Logger.Info("Submission state transition",
		zap.String("session_id", f.sessionID),
		zap.String("from_state", string(from)),
		zap.String("to_state", string(to)),
	)
}
