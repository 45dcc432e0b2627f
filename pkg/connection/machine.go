package connection

import (
	"errors"
	"sync"
)

// Machine errors.
var (
	// ErrUnknownTrigger indicates a trigger missing from the table.
	ErrUnknownTrigger = errors.New("unknown trigger")

	// ErrInvalidTransition indicates a trigger that does not apply to the current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStaleAttempt indicates a trigger from a superseded attempt.
	ErrStaleAttempt = errors.New("stale attempt")
)

// StateChangeFunc observes state changes. reason is non-nil when entering
// StateErrored.
type StateChangeFunc func(oldState, newState State, reason error)

// Machine holds the connection state of one accessory client.
// It is safe for concurrent use.
type Machine struct {
	mu sync.RWMutex

	state   State
	attempt uint64

	// Reason of the most recent failure, cleared on the next attempt.
	lastErr error

	onStateChange StateChangeFunc
}

// NewMachine creates a machine in StateDisconnected.
func NewMachine() *Machine {
	return &Machine{state: StateDisconnected}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsConnected returns true if the current state is StateConnected.
func (m *Machine) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateConnected
}

// Attempt returns the current attempt number (0 before the first connect).
func (m *Machine) Attempt() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attempt
}

// Err returns the reason of the most recent failure in this attempt.
func (m *Machine) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// OnStateChange sets a callback for state changes.
// The callback runs after the machine lock is released.
func (m *Machine) OnStateChange(fn StateChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// Begin starts a new attempt. It fails unless the machine is Disconnected.
func (m *Machine) Begin() (uint64, error) {
	t, err := m.Fire(TriggerConnect, 0, nil)
	if err != nil {
		return 0, err
	}
	return t.Attempt, nil
}

// Fire applies trigger for attempt. TriggerConnect ignores attempt and
// starts a new one. reason is recorded for failure triggers.
func (m *Machine) Fire(trigger Trigger, attempt uint64, reason error) (Transition, error) {
	rule, ok := ruleFor(trigger)
	if !ok {
		return Transition{}, ErrUnknownTrigger
	}

	m.mu.Lock()
	if trigger != TriggerConnect && attempt != m.attempt {
		m.mu.Unlock()
		return Transition{}, ErrStaleAttempt
	}
	if !rule.allows(m.state) {
		m.mu.Unlock()
		return Transition{}, ErrInvalidTransition
	}

	from := m.state
	if trigger == TriggerConnect {
		m.attempt++
		m.lastErr = nil
	}
	if rule.Fails {
		m.lastErr = reason
	}
	m.state = rule.To
	t := Transition{
		Trigger: trigger,
		From:    from,
		To:      rule.To,
		Attempt: m.attempt,
		Reason:  reason,
	}
	onChange := m.onStateChange
	m.mu.Unlock()

	if onChange != nil {
		if rule.Fails {
			onChange(from, StateErrored, reason)
			onChange(StateErrored, rule.To, nil)
		} else {
			onChange(from, rule.To, nil)
		}
	}
	return t, nil
}
