package connection

// Per-stage transition functions. Each applies one trigger for attempt and
// reports whether the machine moved; a rejected trigger leaves it unchanged.

// AgentAcquired moves RequestingAgent to DiscoveringPeer.
func (m *Machine) AgentAcquired(attempt uint64) bool {
	return m.apply(TriggerAgentAcquired, attempt, nil)
}

// AgentFailed ends the attempt from RequestingAgent.
func (m *Machine) AgentFailed(attempt uint64, reason error) bool {
	return m.apply(TriggerAgentFailed, attempt, reason)
}

// PeerFound moves to EstablishingService. It may repeat while a service
// request is pending.
func (m *Machine) PeerFound(attempt uint64) bool {
	return m.apply(TriggerPeerFound, attempt, nil)
}

// PeerDiscoveryFailed ends the attempt from DiscoveringPeer.
func (m *Machine) PeerDiscoveryFailed(attempt uint64, reason error) bool {
	return m.apply(TriggerPeerDiscoveryFailed, attempt, reason)
}

// ServiceEstablished moves EstablishingService to Connected.
func (m *Machine) ServiceEstablished(attempt uint64) bool {
	return m.apply(TriggerServiceEstablished, attempt, nil)
}

// ServiceFailed ends the attempt from EstablishingService.
func (m *Machine) ServiceFailed(attempt uint64, reason error) bool {
	return m.apply(TriggerServiceFailed, attempt, reason)
}

// Lost moves Connected to Disconnected after the transport went away.
func (m *Machine) Lost(attempt uint64, reason error) bool {
	return m.apply(TriggerTransportLost, attempt, reason)
}

// Closed moves Connected to Disconnected after a local close.
func (m *Machine) Closed(attempt uint64) bool {
	return m.apply(TriggerClose, attempt, nil)
}

func (m *Machine) apply(trigger Trigger, attempt uint64, reason error) bool {
	_, err := m.Fire(trigger, attempt, reason)
	return err == nil
}
