package connection

import "fmt"

// State represents the connection state.
type State uint8

const (
	// StateDisconnected indicates no attempt is in progress and no socket is open.
	StateDisconnected State = iota

	// StateRequestingAgent indicates the local service agent has been requested.
	StateRequestingAgent

	// StateDiscoveringPeer indicates peer discovery is running.
	StateDiscoveringPeer

	// StateEstablishingService indicates a service connection was requested.
	StateEstablishingService

	// StateConnected indicates a live socket.
	StateConnected

	// StateErrored indicates a failed stage. It is transient and always
	// settles in StateDisconnected.
	StateErrored
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateRequestingAgent:
		return "REQUESTING_AGENT"
	case StateDiscoveringPeer:
		return "DISCOVERING_PEER"
	case StateEstablishingService:
		return "ESTABLISHING_SERVICE"
	case StateConnected:
		return "CONNECTED"
	case StateErrored:
		return "ERRORED"
	default:
		return "UNKNOWN"
	}
}

// Trigger is an event that may move the machine to another state.
type Trigger uint8

const (
	// TriggerConnect starts a new attempt.
	TriggerConnect Trigger = iota

	// TriggerAgentFailed reports a failed agent request.
	TriggerAgentFailed

	// TriggerAgentAcquired reports a successful agent request.
	TriggerAgentAcquired

	// TriggerPeerDiscoveryFailed reports a peer discovery error.
	TriggerPeerDiscoveryFailed

	// TriggerPeerFound reports a discovered peer.
	TriggerPeerFound

	// TriggerServiceFailed reports a failed service connection.
	TriggerServiceFailed

	// TriggerServiceEstablished reports a live service connection.
	TriggerServiceEstablished

	// TriggerTransportLost reports that the socket's transport went away.
	TriggerTransportLost

	// TriggerClose reports a local close of the socket.
	TriggerClose
)

// String returns a human-readable trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerConnect:
		return "CONNECT"
	case TriggerAgentFailed:
		return "AGENT_FAILED"
	case TriggerAgentAcquired:
		return "AGENT_ACQUIRED"
	case TriggerPeerDiscoveryFailed:
		return "PEER_DISCOVERY_FAILED"
	case TriggerPeerFound:
		return "PEER_FOUND"
	case TriggerServiceFailed:
		return "SERVICE_FAILED"
	case TriggerServiceEstablished:
		return "SERVICE_ESTABLISHED"
	case TriggerTransportLost:
		return "TRANSPORT_LOST"
	case TriggerClose:
		return "CLOSE"
	default:
		return "UNKNOWN"
	}
}

// Rule describes when a trigger applies and where it leads.
type Rule struct {
	Trigger Trigger
	From    []State
	To      State

	// Fails marks failure triggers, which pass through StateErrored.
	Fails bool
}

// rules is the transition table. Order follows the handshake.
var rules = []Rule{
	{Trigger: TriggerConnect, From: []State{StateDisconnected}, To: StateRequestingAgent},
	{Trigger: TriggerAgentFailed, From: []State{StateRequestingAgent}, To: StateDisconnected, Fails: true},
	{Trigger: TriggerAgentAcquired, From: []State{StateRequestingAgent}, To: StateDiscoveringPeer},
	{Trigger: TriggerPeerDiscoveryFailed, From: []State{StateDiscoveringPeer}, To: StateDisconnected, Fails: true},
	{Trigger: TriggerPeerFound, From: []State{StateDiscoveringPeer, StateEstablishingService}, To: StateEstablishingService},
	{Trigger: TriggerServiceFailed, From: []State{StateEstablishingService}, To: StateDisconnected, Fails: true},
	{Trigger: TriggerServiceEstablished, From: []State{StateEstablishingService}, To: StateConnected},
	{Trigger: TriggerTransportLost, From: []State{StateConnected}, To: StateDisconnected},
	{Trigger: TriggerClose, From: []State{StateConnected}, To: StateDisconnected},
}

// Rules returns a copy of the transition table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		r.From = append([]State(nil), r.From...)
		out[i] = r
	}
	return out
}

func ruleFor(t Trigger) (Rule, bool) {
	for _, r := range rules {
		if r.Trigger == t {
			return r, true
		}
	}
	return Rule{}, false
}

func (r Rule) allows(s State) bool {
	for _, from := range r.From {
		if from == s {
			return true
		}
	}
	return false
}

// Transition records an applied state change.
type Transition struct {
	Trigger Trigger
	From    State
	To      State
	Attempt uint64

	// Reason is set for failure triggers.
	Reason error
}

// String returns e.g. "DISCOVERING_PEER -PEER_FOUND-> ESTABLISHING_SERVICE".
func (t Transition) String() string {
	s := fmt.Sprintf("%s -%s-> %s", t.From, t.Trigger, t.To)
	if t.Reason != nil {
		s += fmt.Sprintf(" (%v)", t.Reason)
	}
	return s
}
