// Package circuit provides per-dependency circuit breakers with a registry
// Breaker state is process local on purpose: each instance tracks dependency
// health independently, the dependency itself is the shared bottleneck
package circuit

import (
	"context"
	"sync"
	"time"

	perr "kudos/internal/platform/errors"
)

// State is the breaker state machine position
type State int

const (
	// StateClosed passes calls through and counts consecutive failures
	StateClosed State = iota
	// StateOpen fails fast until the cooldown elapses
	StateOpen
	// StateHalfOpen lets a single probe through
	StateHalfOpen
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned without invoking the dependency while the circuit is open
var ErrOpen = perr.New(perr.ErrorCodeCircuitOpen, "circuit open")

// Settings holds per-dependency thresholds
type Settings struct {
	// FailureThreshold consecutive failures trip the breaker (default 5)
	FailureThreshold int
	// SuccessThreshold half-open successes close it again (default 2)
	SuccessThreshold int
	// Cooldown before the first half-open probe (default 30s)
	Cooldown time.Duration
	// MaxCooldown caps the exponential growth applied on each reopen (default 5m)
	MaxCooldown time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.FailureThreshold <= 0 {
		s.FailureThreshold = 5
	}
	if s.SuccessThreshold <= 0 {
		s.SuccessThreshold = 2
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 30 * time.Second
	}
	if s.MaxCooldown < s.Cooldown {
		s.MaxCooldown = 5 * time.Minute
	}
	return s
}

// Transition describes a state change for observers
type Transition struct {
	Name string
	From State
	To   State
	At   time.Time
}

// Breaker guards a single dependency
type Breaker struct {
	name string
	set  Settings
	now  func() time.Time
	obs  func(Transition)

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	cooldown    time.Duration
	nextRetryAt time.Time
	lastFailure time.Time
	probing     bool
}

// NewBreaker builds a breaker for one dependency name
func NewBreaker(name string, set Settings) *Breaker {
	set = set.withDefaults()
	return &Breaker{
		name:     name,
		set:      set,
		now:      time.Now,
		cooldown: set.Cooldown,
		state:    StateClosed,
	}
}

// Name returns the dependency name
func (b *Breaker) Name() string { return b.name }

// State reports the current state, promoting open to half-open when due
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && !b.now().Before(b.nextRetryAt) {
		return StateHalfOpen
	}
	return b.state
}

// Do runs fn unless the circuit is open
// while half open only one probe is admitted, concurrent callers fail fast
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}
	err := fn(ctx)
	b.record(err == nil)
	return err
}

// acquire decides whether this call may proceed
func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if b.now().Before(b.nextRetryAt) {
			return ErrOpen
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		if b.probing {
			return ErrOpen
		}
		b.probing = true
		return nil
	}
	return nil
}

// record applies a call outcome to the state machine
func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if ok {
			b.failures = 0
			return
		}
		b.failures++
		b.lastFailure = b.now()
		if b.failures >= b.set.FailureThreshold {
			b.trip()
		}
	case StateHalfOpen:
		b.probing = false
		if !ok {
			b.lastFailure = b.now()
			b.growCooldown()
			b.trip()
			return
		}
		b.successes++
		if b.successes >= b.set.SuccessThreshold {
			b.failures = 0
			b.successes = 0
			b.cooldown = b.set.Cooldown
			b.transition(StateClosed)
		}
	case StateOpen:
		// outcome of a call admitted before the trip; nothing to adjust
	}
}

// trip moves to open and schedules the next probe
func (b *Breaker) trip() {
	b.successes = 0
	b.nextRetryAt = b.now().Add(b.cooldown)
	b.transition(StateOpen)
}

// growCooldown doubles the cooldown up to the cap, applied on reopen
func (b *Breaker) growCooldown() {
	b.cooldown *= 2
	if b.cooldown > b.set.MaxCooldown {
		b.cooldown = b.set.MaxCooldown
	}
}

// transition records the state change and notifies the observer
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.obs != nil {
		b.obs(Transition{Name: b.name, From: from, To: to, At: b.now()})
	}
}
