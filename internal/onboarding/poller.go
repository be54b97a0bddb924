package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/constants"
	"github.com/yamakawa-dev/multitenant-todo-api/internal/models"
)

// State is the poller's observable state.
type State string

const (
	StateChecking        State = "checking"
	StateNeedsOnboarding State = "needs_onboarding"
	StateReady           State = "ready"
	StateError           State = "error"
)

// Status is a snapshot of a principal's onboarding-relevant records. A
// principal is onboarded iff HasOrganization is true; HasUserRecord is
// reported but deliberately not sufficient.
type Status struct {
	HasOrganization bool
	HasUserRecord   bool
	Memberships     []models.OrganizationMembership
	UserRecord      *models.User
}

// Checker runs the membership existence query the poller drives.
type Checker interface {
	Status(ctx context.Context, subjectID string) (*Status, error)
}

// ErrCheckInFlight is returned when a status check for the same subject is
// already running; retries for one check never overlap.
var ErrCheckInFlight = errors.New("onboarding status check already in flight")

// Config controls the poller's retry behavior.
type Config struct {
	// MaxRetries is the number of delayed re-queries after the initial one.
	// Defaults to 3, clamped to [1,5].
	MaxRetries int

	// PostCompletionRetries is the budget used right after the onboarding
	// transaction ran, when read-after-write staleness is expected. Defaults
	// to 5, clamped the same way.
	PostCompletionRetries int

	// Interval is the base delay; attempt n waits n*Interval. Defaults to 1s.
	Interval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxRetries == 0 {
		c.MaxRetries = constants.DefaultStatusRetries
	}
	if c.PostCompletionRetries == 0 {
		c.PostCompletionRetries = constants.PostCompletionStatusRetries
	}
	if c.Interval == 0 {
		c.Interval = constants.StatusRetryInterval
	}
	c.MaxRetries = clampRetries(c.MaxRetries)
	c.PostCompletionRetries = clampRetries(c.PostCompletionRetries)
	return c
}

func clampRetries(n int) int {
	if n < 1 {
		return 1
	}
	if n > constants.MaxStatusRetries {
		return constants.MaxStatusRetries
	}
	return n
}

// Resolution is the outcome of one resolve cycle. Degraded marks the
// fail-open case: the retry budget ran out while the store still reported no
// membership, and the poller forced StateReady rather than loop forever.
type Resolution struct {
	State           State
	NeedsOnboarding bool
	Degraded        bool
	Attempts        int
	Status          *Status
	Err             error
}

// Poller decides whether a principal still requires onboarding, absorbing
// read-after-write staleness of the backing store with a bounded linear
// retry. It is an explicit state machine value; all mutable per-check state
// lives in the Resolution, not in ambient fields.
type Poller struct {
	checker  Checker
	cfg      Config
	sleep    func(ctx context.Context, d time.Duration) error
	inFlight sync.Map // subject id -> struct{}
}

// New creates a Poller over the given status checker.
func New(checker Checker, cfg Config) *Poller {
	return &Poller{
		checker: checker,
		cfg:     cfg.withDefaults(),
		sleep:   sleepContext,
	}
}

// Resolve runs the state machine for one principal.
//
// Transition rules:
//   - empty subject id (unauthenticated): StateReady, no onboarding applicable
//   - membership found: StateReady
//   - no membership, normal check: StateNeedsOnboarding
//   - no membership, post-completion check: re-query with linearly growing
//     delays until the budget runs out, then force StateReady with Degraded
//     set (a degraded success, not an error)
//   - query failure: retry on the same schedule; exhaustion yields StateError
//     with the underlying error surfaced
//
// Only one resolve per subject may run at a time; a concurrent call returns
// ErrCheckInFlight. Cancelling ctx aborts the wait between attempts.
func (p *Poller) Resolve(ctx context.Context, subjectID string, postCompletion bool) (*Resolution, error) {
	if subjectID == "" {
		return &Resolution{State: StateReady, NeedsOnboarding: false}, nil
	}

	if _, loaded := p.inFlight.LoadOrStore(subjectID, struct{}{}); loaded {
		return nil, ErrCheckInFlight
	}
	defer p.inFlight.Delete(subjectID)

	budget := p.cfg.MaxRetries
	if postCompletion {
		budget = p.cfg.PostCompletionRetries
	}

	policy := newLinearBackOff(p.cfg.Interval)
	res := &Resolution{State: StateChecking}

	for attempt := 0; ; attempt++ {
		res.Attempts = attempt + 1

		status, err := p.checker.Status(ctx, subjectID)
		if err != nil {
			if attempt < budget {
				if err := p.sleep(ctx, policy.NextBackOff()); err != nil {
					return nil, err
				}
				continue
			}
			res.State = StateError
			res.Err = err
			return res, nil
		}

		res.Status = status

		if status.HasOrganization {
			res.State = StateReady
			res.NeedsOnboarding = false
			return res, nil
		}

		if !postCompletion {
			res.State = StateNeedsOnboarding
			res.NeedsOnboarding = true
			return res, nil
		}

		if attempt < budget {
			if err := p.sleep(ctx, policy.NextBackOff()); err != nil {
				return nil, err
			}
			continue
		}

		// Budget exhausted while the store still reports no membership.
		// Fail open so the session cannot loop on the onboarding screen
		// forever; Degraded lets callers tell this apart from a real ready.
		res.State = StateReady
		res.NeedsOnboarding = false
		res.Degraded = true
		return res, nil
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// linearBackOff yields interval, 2*interval, 3*interval, ... matching the
// staleness window of the backing store rather than growing exponentially.
type linearBackOff struct {
	interval time.Duration
	attempt  int
}

var _ backoff.BackOff = (*linearBackOff)(nil)

func newLinearBackOff(interval time.Duration) *linearBackOff {
	return &linearBackOff{interval: interval}
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.interval
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}
