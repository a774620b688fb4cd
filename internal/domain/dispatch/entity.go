package dispatch

// TimeSlot is one of the three fixed daily buckets jobs are scheduled into.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

func (s TimeSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return true
	}
	return false
}

// TimeSlots lists the slots in display order.
func TimeSlots() []TimeSlot {
	return []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}
}

// JobStatus is the scheduling status. The scheduler only manages scheduled
// jobs; downstream statuses belong to other systems.
type JobStatus string

const StatusScheduled JobStatus = "scheduled"

// DispatchJob is one grid entry. Date is date-only ("2006-01-02"); a job with
// an empty date is never placed into any week's grid. (Date, TimeSlot) is not
// unique: multiple jobs share a slot in insertion order.
type DispatchJob struct {
	ID         string    `json:"id,omitempty"`
	Title      string    `json:"title"`
	Client     string    `json:"client"`
	Location   string    `json:"location"`
	AssignedTo string    `json:"assignedTo"`
	Date       string    `json:"date"`
	TimeSlot   TimeSlot  `json:"timeSlot"`
	Notes      string    `json:"notes"`
	Status     JobStatus `json:"status"`
	CreatedBy  string    `json:"createdBy"`
}
