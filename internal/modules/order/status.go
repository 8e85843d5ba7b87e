package order

// sequences are the forward paths an order walks, keyed by service type.
var sequences = map[ServiceType][]Status{
	ServiceDineIn:   {StatusPending, StatusInProgress, StatusReady, StatusCompleted},
	ServiceTakeaway: {StatusPending, StatusInProgress, StatusReady, StatusCompleted},
	ServiceDelivery: {StatusPending, StatusInProgress, StatusReadyForPickup, StatusOutForDelivery, StatusDelivered},
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDelivered || s == StatusCancelled
}

// IsFulfilled reports whether s is a successful terminal state.
func (s Status) IsFulfilled() bool {
	return s == StatusCompleted || s == StatusDelivered
}

// nextStatus returns the status after cur in the sequence for t.
// ok is false when cur is terminal or not part of the sequence.
func nextStatus(t ServiceType, cur Status) (Status, bool) {
	seq := sequences[t]
	for i, s := range seq {
		if s == cur && i+1 < len(seq) {
			return seq[i+1], true
		}
	}
	return "", false
}
