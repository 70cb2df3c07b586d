package domain

// Status is a proposal lifecycle status. The string values are persisted
// verbatim; do not rename them.
type Status string

const (
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusExpired          Status = "expired"
	StatusContractReceived Status = "contract_received"
	StatusInTransfer       Status = "in_transfer"
	StatusDelivered        Status = "delivered"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusExpired,
	StatusContractReceived,
	StatusInTransfer,
	StatusDelivered,
}

// validEdges is the full transition graph. Transitions are monotonic:
// nothing returns to pending and no fulfillment stage is skipped.
var validEdges = map[Status][]Status{
	StatusPending:          {StatusApproved, StatusRejected, StatusExpired},
	StatusApproved:         {StatusContractReceived},
	StatusContractReceived: {StatusInTransfer},
	StatusInTransfer:       {StatusDelivered},
}

// ValidStatus reports whether s is one of the seven known statuses.
func ValidStatus(s Status) bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransition reports whether the edge from→to exists in the graph.
func CanTransition(from, to Status) bool {
	for _, next := range validEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no edge leaves s.
func IsTerminal(s Status) bool {
	return len(validEdges[s]) == 0
}

// IsDecision reports whether s is an approval decision outcome, i.e. a
// transition into it stamps decidedBy/decidedAt.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}
