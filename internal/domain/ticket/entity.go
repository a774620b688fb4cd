package ticket

// Status is the service ticket workflow state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the linear workflow permits moving to next.
// Completed and cancelled are terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// Priority orders tickets for the operators; it carries no scheduling logic.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ServiceTicket is a repair/service request raised against a client's sign.
type ServiceTicket struct {
	ID             string   `json:"id,omitempty"`
	ClientName     string   `json:"clientName"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	SignType       string   `json:"signType"`
	Priority       Priority `json:"priority"`
	Status         Status   `json:"status"`
	CreatedBy      string   `json:"createdBy"`
	CreatedByEmail string   `json:"createdByEmail"`
}
