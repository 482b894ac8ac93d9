package maintenance

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aircraft-monitor/internal/config"
)

// Scheduler tracks flight-hour accumulation per aircraft and projects due
// dates for the recurring checks, creating scheduled tasks when a check
// falls within the advance-warning window.
type Scheduler struct {
	cfg       config.MaintenanceConfig
	intervals map[TaskType]float64

	mu       sync.Mutex
	tasks    map[string]*Task
	aircraft map[string]*AircraftStatus
}

func NewScheduler(cfg config.MaintenanceConfig) *Scheduler {
	if cfg.DailyUtilizationHours <= 0 {
		cfg.DailyUtilizationHours = 8
	}
	return &Scheduler{
		cfg: cfg,
		intervals: map[TaskType]float64{
			ACheck: cfg.ACheckHours,
			BCheck: cfg.BCheckHours,
			CCheck: cfg.CCheckHours,
			DCheck: cfg.DCheckHours,
		},
		tasks:    make(map[string]*Task),
		aircraft: make(map[string]*AircraftStatus),
	}
}

// RegisterAircraft adds an aircraft to maintenance tracking.
func (s *Scheduler) RegisterAircraft(status AircraftStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := status
	s.aircraft[status.AircraftID] = &copied
	log.Printf("Registered aircraft %s for maintenance tracking", status.Registration)
}

// Aircraft returns a snapshot of one aircraft's status record.
func (s *Scheduler) Aircraft(aircraftID string) (AircraftStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.aircraft[aircraftID]
	if !ok {
		return AircraftStatus{}, false
	}
	return *st, true
}

// Fleet returns snapshots of every registered aircraft.
func (s *Scheduler) Fleet() []AircraftStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AircraftStatus, 0, len(s.aircraft))
	for _, st := range s.aircraft {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AircraftID < out[j].AircraftID })
	return out
}

// UpdateFlightHours records a new cumulative flight-hour total. Each
// hours-since-check counter advances by the amount the total advanced, and
// each recurring check is then evaluated for due-ness: when the projected
// days to the next check fall within the advance-warning window and no
// scheduled or in-progress task of that type exists, a new scheduled task
// is created. Only newly created tasks are returned.
//
// An update for an unregistered aircraft is a logged no-op. A total lower
// than the recorded one is treated as a correction and does not rewind the
// counters.
func (s *Scheduler) UpdateFlightHours(aircraftID string, newTotal float64) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.aircraft[aircraftID]
	if !ok {
		log.Printf("Aircraft %s not registered, ignoring flight-hour update", aircraftID)
		return nil
	}

	delta := newTotal - status.TotalFlightHours
	if delta < 0 {
		log.Printf("Aircraft %s flight-hour total decreased (%.1f -> %.1f), counters unchanged",
			aircraftID, status.TotalFlightHours, newTotal)
		delta = 0
	}
	status.TotalFlightHours = newTotal
	status.addHours(delta)

	return s.checkScheduledMaintenance(status)
}

func (s *Scheduler) checkScheduledMaintenance(status *AircraftStatus) []Task {
	var newTasks []Task
	now := time.Now().UTC()

	for _, checkType := range recurringChecks {
		interval := s.intervals[checkType]
		remaining := interval - status.hoursSince(checkType)
		estimatedDays := remaining / s.cfg.DailyUtilizationHours

		if estimatedDays > s.cfg.AdvanceWarningDays {
			continue
		}
		if s.pendingTask(status.AircraftID, checkType) != nil {
			continue
		}

		due := status.TotalFlightHours + remaining
		scheduled := now.Add(time.Duration(estimatedDays * 24 * float64(time.Hour)))
		task := &Task{
			ID:         uuid.NewString(),
			AircraftID: status.AircraftID,
			Type:       checkType,
			Title:      fmt.Sprintf("%s Due", strings.ToUpper(strings.ReplaceAll(string(checkType), "_", " "))),
			Description: fmt.Sprintf("Scheduled %s maintenance approaching. Remaining: %.1f flight hours",
				checkType, remaining),
			Status:         StatusScheduled,
			ScheduledDate:  &scheduled,
			DueFlightHours: &due,
			CreatedAt:      now,
		}
		s.tasks[task.ID] = task
		newTasks = append(newTasks, *task)

		log.Printf("Scheduled %s for aircraft %s at %.1f hours", checkType, status.AircraftID, due)
	}

	return newTasks
}

// pendingTask returns the scheduled or in-progress task of the given type
// for an aircraft, if one exists. Caller holds s.mu.
func (s *Scheduler) pendingTask(aircraftID string, taskType TaskType) *Task {
	for _, task := range s.tasks {
		if task.AircraftID == aircraftID && task.Type == taskType &&
			(task.Status == StatusScheduled || task.Status == StatusInProgress) {
			return task
		}
	}
	return nil
}

// CreateTask stores an explicitly created task, assigning id, status and
// creation timestamp when unset.
func (s *Scheduler) CreateTask(task Task) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = StatusScheduled
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	s.tasks[task.ID] = &task
	log.Printf("Created maintenance task: %s", task.Title)
	return task
}

// StartTask moves a task to in_progress and records the technician.
func (s *Scheduler) StartTask(taskID, technician string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return Task{}, false
	}
	now := time.Now().UTC()
	task.Status = StatusInProgress
	task.StartedAt = &now
	task.Technician = technician
	log.Printf("Started task %s by %s", taskID, technician)
	return *task, true
}

// CompleteTask marks a task completed. Completing one of the four
// recurring checks resets that check's last-completed timestamp and zeroes
// its hours-since counter on the aircraft's status record; the other
// counters are untouched.
func (s *Scheduler) CompleteTask(taskID, notes string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return Task{}, false
	}
	now := time.Now().UTC()
	task.Status = StatusCompleted
	task.CompletedAt = &now
	task.Notes = notes

	if task.Type.isRecurring() {
		if status, ok := s.aircraft[task.AircraftID]; ok {
			status.resetCheck(task.Type, now)
		}
	}

	log.Printf("Completed task %s", taskID)
	return *task, true
}

// CancelTask cancels a scheduled or in-progress task. Cancellation is
// explicit only; terminal tasks are left untouched.
func (s *Scheduler) CancelTask(taskID string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return Task{}, false
	}
	if task.Status != StatusScheduled && task.Status != StatusInProgress {
		return *task, false
	}
	task.Status = StatusCancelled
	log.Printf("Cancelled task %s", taskID)
	return *task, true
}

// OverdueTasks returns scheduled tasks whose scheduled date has passed,
// transitioning each to overdue as a side effect. A task reported once is
// no longer scheduled and will not appear in later calls.
func (s *Scheduler) OverdueTasks(aircraftID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var overdue []Task
	for _, task := range s.tasks {
		if task.Status != StatusScheduled {
			continue
		}
		if aircraftID != "" && task.AircraftID != aircraftID {
			continue
		}
		if task.ScheduledDate != nil && task.ScheduledDate.Before(now) {
			task.Status = StatusOverdue
			overdue = append(overdue, *task)
		}
	}
	return overdue
}

// UpcomingTasks returns scheduled tasks due within daysAhead, ordered by
// scheduled date ascending with undated tasks last.
func (s *Scheduler) UpcomingTasks(aircraftID string, daysAhead int) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().AddDate(0, 0, daysAhead)
	var upcoming []Task
	for _, task := range s.tasks {
		if task.Status != StatusScheduled {
			continue
		}
		if aircraftID != "" && task.AircraftID != aircraftID {
			continue
		}
		if task.ScheduledDate == nil || !task.ScheduledDate.After(cutoff) {
			upcoming = append(upcoming, *task)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		a, b := upcoming[i].ScheduledDate, upcoming[j].ScheduledDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return upcoming
}

// Tasks returns all tasks, optionally filtered by aircraft.
func (s *Scheduler) Tasks(aircraftID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for _, task := range s.tasks {
		if aircraftID != "" && task.AircraftID != aircraftID {
			continue
		}
		out = append(out, *task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
