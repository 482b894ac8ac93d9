package maintenance

import "time"

// TaskType distinguishes the four recurring flight-hour checks from
// component-specific and unscheduled work.
type TaskType string

const (
	ACheck      TaskType = "a_check"
	BCheck      TaskType = "b_check"
	CCheck      TaskType = "c_check"
	DCheck      TaskType = "d_check"
	Component   TaskType = "component"
	Unscheduled TaskType = "unscheduled"
)

// recurringChecks lists the flight-hour checks in evaluation order.
var recurringChecks = []TaskType{ACheck, BCheck, CCheck, DCheck}

func (t TaskType) isRecurring() bool {
	for _, c := range recurringChecks {
		if t == c {
			return true
		}
	}
	return false
}

type TaskStatus string

const (
	StatusScheduled  TaskStatus = "scheduled"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOverdue    TaskStatus = "overdue"
	StatusCancelled  TaskStatus = "cancelled"
)

// Task is one unit of maintenance work for an aircraft. Lifecycle:
// scheduled -> in_progress -> completed, scheduled -> overdue (detected,
// not requested), or scheduled/in_progress -> cancelled. Completed and
// cancelled are terminal.
type Task struct {
	ID             string     `json:"id"`
	AircraftID     string     `json:"aircraft_id"`
	Type           TaskType   `json:"maintenance_type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	ScheduledDate  *time.Time `json:"scheduled_date,omitempty"`
	DueFlightHours *float64   `json:"due_flight_hours,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Technician     string     `json:"technician,omitempty"`
	Notes          string     `json:"notes"`
	ComponentID    string     `json:"component_id,omitempty"`
	ComponentName  string     `json:"component_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AircraftStatus tracks cumulative utilization and the four recurring
// check counters for one airframe. Hours-since counters advance with
// flight-hour updates and reset exactly when a check of that type
// completes.
type AircraftStatus struct {
	AircraftID       string     `json:"aircraft_id"`
	Registration     string     `json:"registration"`
	Model            string     `json:"model"`
	TotalFlightHours float64    `json:"total_flight_hours"`
	Cycles           int        `json:"cycles"`
	LastACheck       *time.Time `json:"last_a_check,omitempty"`
	LastBCheck       *time.Time `json:"last_b_check,omitempty"`
	LastCCheck       *time.Time `json:"last_c_check,omitempty"`
	LastDCheck       *time.Time `json:"last_d_check,omitempty"`
	HoursSinceACheck float64    `json:"hours_since_a_check"`
	HoursSinceBCheck float64    `json:"hours_since_b_check"`
	HoursSinceCCheck float64    `json:"hours_since_c_check"`
	HoursSinceDCheck float64    `json:"hours_since_d_check"`
}

func (s *AircraftStatus) hoursSince(t TaskType) float64 {
	switch t {
	case ACheck:
		return s.HoursSinceACheck
	case BCheck:
		return s.HoursSinceBCheck
	case CCheck:
		return s.HoursSinceCCheck
	case DCheck:
		return s.HoursSinceDCheck
	}
	return 0
}

func (s *AircraftStatus) addHours(delta float64) {
	s.HoursSinceACheck += delta
	s.HoursSinceBCheck += delta
	s.HoursSinceCCheck += delta
	s.HoursSinceDCheck += delta
}

func (s *AircraftStatus) resetCheck(t TaskType, at time.Time) {
	switch t {
	case ACheck:
		s.LastACheck = &at
		s.HoursSinceACheck = 0
	case BCheck:
		s.LastBCheck = &at
		s.HoursSinceBCheck = 0
	case CCheck:
		s.LastCCheck = &at
		s.HoursSinceCCheck = 0
	case DCheck:
		s.LastDCheck = &at
		s.HoursSinceDCheck = 0
	}
}
