package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// PolicyName identifies one endpoint class.
type PolicyName string

const (
	PolicyAuth      PolicyName = "auth"
	PolicyAPI       PolicyName = "api"
	PolicyDashboard PolicyName = "dashboard"
	PolicyPayment   PolicyName = "payment"
)

// Policy configures one endpoint class. Exceeding MaxRequests within Window
// additionally places the identity into a hard block for BlockDuration, so a
// burst cannot pay itself down at the next window boundary. FailClosed
// controls behaviour when the underlying store errors: payment endpoints
// deny, the rest allow.
type Policy struct {
	Name          PolicyName
	MaxRequests   int64
	Window        time.Duration
	BlockDuration time.Duration
	FailClosed    bool
}

// Decision is the outcome of a Check call.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// DefaultPolicies returns the four endpoint classes with the payment class
// strictest, matching the blast radius of abuse on each surface.
func DefaultPolicies() []Policy {
	return []Policy{
		{Name: PolicyAuth, MaxRequests: 10, Window: time.Minute, BlockDuration: 15 * time.Minute, FailClosed: false},
		{Name: PolicyAPI, MaxRequests: 100, Window: time.Minute, BlockDuration: 5 * time.Minute, FailClosed: false},
		{Name: PolicyDashboard, MaxRequests: 300, Window: time.Minute, BlockDuration: time.Minute, FailClosed: false},
		{Name: PolicyPayment, MaxRequests: 5, Window: time.Minute, BlockDuration: 30 * time.Minute, FailClosed: true},
	}
}

// Limiter enforces per-identity, per-policy rate limits. Window counting is
// delegated to ulule/limiter over an in-memory store; the hard-block list is
// a mutex-guarded map with TTL eviction. State is per process: a shared
// store is required the moment the service runs as more than one instance.
type Limiter struct {
	mu       sync.Mutex
	blocked  map[string]time.Time
	policies map[PolicyName]Policy
	windows  map[PolicyName]*limiter.Limiter
	now      func() time.Time
}

// New builds a Limiter over an in-memory store for the given policies.
func New(policies []Policy) *Limiter {
	l := &Limiter{
		blocked:  make(map[string]time.Time),
		policies: make(map[PolicyName]Policy, len(policies)),
		windows:  make(map[PolicyName]*limiter.Limiter, len(policies)),
		now:      time.Now,
	}
	store := memory.NewStore()
	for _, p := range policies {
		l.policies[p.Name] = p
		l.windows[p.Name] = limiter.New(store, limiter.Rate{
			Period: p.Window,
			Limit:  p.MaxRequests,
		})
	}
	return l
}

func (l *Limiter) key(identity string, policy PolicyName) string {
	return fmt.Sprintf("%s:%s", policy, identity)
}

// Check decides whether the identity may proceed under the given policy.
// The returned error is non-nil only for unknown policies or store failures
// the policy wants surfaced; store failures otherwise resolve to the
// policy's fail-open/fail-closed decision.
func (l *Limiter) Check(ctx context.Context, identity string, policy PolicyName) (Decision, error) {
	p, ok := l.policies[policy]
	if !ok {
		return Decision{}, fmt.Errorf("unknown rate limit policy %q", policy)
	}
	key := l.key(identity, policy)
	now := l.now()

	l.mu.Lock()
	if until, found := l.blocked[key]; found {
		if now.Before(until) {
			l.mu.Unlock()
			return Decision{Allowed: false, Remaining: 0, RetryAfter: until.Sub(now)}, nil
		}
		delete(l.blocked, key)
	}
	l.mu.Unlock()

	lctx, err := l.windows[policy].Get(ctx, key)
	if err != nil {
		if p.FailClosed {
			return Decision{Allowed: false, RetryAfter: p.Window}, nil
		}
		return Decision{Allowed: true, Remaining: 0}, nil
	}

	if lctx.Reached {
		until := now.Add(p.BlockDuration)
		l.mu.Lock()
		l.blocked[key] = until
		l.mu.Unlock()
		return Decision{Allowed: false, Remaining: 0, RetryAfter: p.BlockDuration}, nil
	}

	return Decision{Allowed: true, Remaining: lctx.Remaining}, nil
}

// Reset clears window and block state for the identity under the policy
// (e.g. after a successful login).
func (l *Limiter) Reset(ctx context.Context, identity string, policy PolicyName) error {
	w, ok := l.windows[policy]
	if !ok {
		return fmt.Errorf("unknown rate limit policy %q", policy)
	}
	key := l.key(identity, policy)
	l.mu.Lock()
	delete(l.blocked, key)
	l.mu.Unlock()
	_, err := w.Reset(ctx, key)
	return err
}
