package maintenance

import (
	"encoding/json"
	"testing"
	"time"

	"aircraft-monitor/internal/config"
)

func testMaintenanceConfig() config.MaintenanceConfig {
	return config.MaintenanceConfig{
		ACheckHours:           500,
		BCheckHours:           2000,
		CCheckHours:           6000,
		DCheckHours:           25000,
		AdvanceWarningDays:    7,
		DailyUtilizationHours: 8,
	}
}

func newTestScheduler() *Scheduler {
	s := NewScheduler(testMaintenanceConfig())
	s.RegisterAircraft(AircraftStatus{
		AircraftID:   "AC001",
		Registration: "N100AM",
		Model:        "B737-800",
	})
	return s
}

func TestUpdateFlightHoursSchedulesDueCheck(t *testing.T) {
	s := newTestScheduler()

	// 493h leaves 7 flight hours to the 500h A check; at 8 hours/day that
	// projects under a day out, well inside the 7-day warning window.
	created := s.UpdateFlightHours("AC001", 493)
	if len(created) != 1 {
		t.Fatalf("Expected 1 task at 493 hours, got %d", len(created))
	}
	task := created[0]
	if task.Type != ACheck {
		t.Errorf("Expected a_check task, got %s", task.Type)
	}
	if task.Status != StatusScheduled {
		t.Errorf("Expected scheduled status, got %s", task.Status)
	}
	if task.DueFlightHours == nil || *task.DueFlightHours != 500 {
		t.Errorf("Expected due at 500 flight hours, got %v", task.DueFlightHours)
	}
	if task.ScheduledDate == nil {
		t.Error("Expected a projected scheduled date")
	}
}

func TestUpdateFlightHoursBelowWarningWindow(t *testing.T) {
	s := newTestScheduler()

	// 400h leaves 100 hours, 12.5 days out: beyond the warning window.
	if created := s.UpdateFlightHours("AC001", 400); len(created) != 0 {
		t.Errorf("Expected no tasks at 400 hours, got %d", len(created))
	}
}

func TestUpdateFlightHoursNoDuplicatePendingTask(t *testing.T) {
	s := newTestScheduler()

	if created := s.UpdateFlightHours("AC001", 493); len(created) != 1 {
		t.Fatalf("Expected 1 task on first update, got %d", len(created))
	}
	if created := s.UpdateFlightHours("AC001", 495); len(created) != 0 {
		t.Errorf("Expected no duplicate while a task is pending, got %d", len(created))
	}
}

func TestUpdateFlightHoursUnknownAircraft(t *testing.T) {
	s := newTestScheduler()

	if created := s.UpdateFlightHours("GHOST", 493); created != nil {
		t.Errorf("Expected nil for unregistered aircraft, got %v", created)
	}
}

func TestUpdateFlightHoursLowerTotalDoesNotRewind(t *testing.T) {
	s := newTestScheduler()

	s.UpdateFlightHours("AC001", 400)
	s.UpdateFlightHours("AC001", 350)

	status, ok := s.Aircraft("AC001")
	if !ok {
		t.Fatal("Expected aircraft to be registered")
	}
	if status.TotalFlightHours != 350 {
		t.Errorf("Expected corrected total 350, got %.1f", status.TotalFlightHours)
	}
	if status.HoursSinceACheck != 400 {
		t.Errorf("Expected counter to hold at 400, got %.1f", status.HoursSinceACheck)
	}
}

func TestCompleteTaskResetsOnlyItsCounter(t *testing.T) {
	s := newTestScheduler()
	s.UpdateFlightHours("AC001", 1995)

	task := s.CreateTask(Task{
		AircraftID: "AC001",
		Type:       BCheck,
		Title:      "B CHECK Due",
	})
	if _, ok := s.CompleteTask(task.ID, "all panels reinstalled"); !ok {
		t.Fatal("Expected completion to succeed")
	}

	status, _ := s.Aircraft("AC001")
	if status.HoursSinceBCheck != 0 {
		t.Errorf("Expected B-check counter reset, got %.1f", status.HoursSinceBCheck)
	}
	if status.LastBCheck == nil {
		t.Error("Expected LastBCheck to be recorded")
	}
	if status.HoursSinceACheck != 1995 || status.HoursSinceCCheck != 1995 || status.HoursSinceDCheck != 1995 {
		t.Errorf("Expected other counters untouched, got A=%.1f C=%.1f D=%.1f",
			status.HoursSinceACheck, status.HoursSinceCCheck, status.HoursSinceDCheck)
	}
}

func TestCompleteNonRecurringTaskLeavesCounters(t *testing.T) {
	s := newTestScheduler()
	s.UpdateFlightHours("AC001", 300)

	task := s.CreateTask(Task{
		AircraftID:    "AC001",
		Type:          Component,
		Title:         "Replace hydraulic pump",
		ComponentID:   "HYD-PUMP-2",
		ComponentName: "Hydraulic Pump #2",
	})
	s.CompleteTask(task.ID, "pump swapped")

	status, _ := s.Aircraft("AC001")
	if status.HoursSinceACheck != 300 {
		t.Errorf("Expected counters untouched by component work, got %.1f", status.HoursSinceACheck)
	}
}

func TestOverdueTasksTransitionOnce(t *testing.T) {
	s := newTestScheduler()
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(72 * time.Hour)

	s.CreateTask(Task{AircraftID: "AC001", Type: ACheck, Title: "A CHECK Due", ScheduledDate: &past})
	s.CreateTask(Task{AircraftID: "AC001", Type: BCheck, Title: "B CHECK Due", ScheduledDate: &future})

	overdue := s.OverdueTasks("AC001")
	if len(overdue) != 1 {
		t.Fatalf("Expected 1 overdue task, got %d", len(overdue))
	}
	if overdue[0].Type != ACheck {
		t.Errorf("Expected the past-dated task overdue, got %s", overdue[0].Type)
	}
	if overdue[0].Status != StatusOverdue {
		t.Errorf("Expected overdue status, got %s", overdue[0].Status)
	}

	if again := s.OverdueTasks("AC001"); len(again) != 0 {
		t.Errorf("Expected already-transitioned task not reported again, got %d", len(again))
	}
}

func TestUpcomingTasksOrderingAndWindow(t *testing.T) {
	s := newTestScheduler()
	now := time.Now().UTC()
	in2 := now.AddDate(0, 0, 2)
	in5 := now.AddDate(0, 0, 5)
	in60 := now.AddDate(0, 0, 60)

	s.CreateTask(Task{AircraftID: "AC001", Type: BCheck, Title: "five days", ScheduledDate: &in5})
	s.CreateTask(Task{AircraftID: "AC001", Type: ACheck, Title: "two days", ScheduledDate: &in2})
	s.CreateTask(Task{AircraftID: "AC001", Type: CCheck, Title: "sixty days", ScheduledDate: &in60})
	s.CreateTask(Task{AircraftID: "AC001", Type: Unscheduled, Title: "undated"})

	upcoming := s.UpcomingTasks("AC001", 30)
	if len(upcoming) != 3 {
		t.Fatalf("Expected 3 tasks inside the 30-day window, got %d", len(upcoming))
	}
	if upcoming[0].Title != "two days" || upcoming[1].Title != "five days" {
		t.Errorf("Expected date-ascending order, got %s then %s", upcoming[0].Title, upcoming[1].Title)
	}
	if upcoming[2].ScheduledDate != nil {
		t.Errorf("Expected undated task sorted last, got %s", upcoming[2].Title)
	}
}

func TestCancelTaskRules(t *testing.T) {
	s := newTestScheduler()

	task := s.CreateTask(Task{AircraftID: "AC001", Type: Unscheduled, Title: "Bird strike inspection"})
	if _, ok := s.CancelTask(task.ID); !ok {
		t.Error("Expected scheduled task to be cancellable")
	}

	done := s.CreateTask(Task{AircraftID: "AC001", Type: Unscheduled, Title: "Tire change"})
	s.CompleteTask(done.ID, "")
	if _, ok := s.CancelTask(done.ID); ok {
		t.Error("Expected completed task not to be cancellable")
	}

	if _, ok := s.CancelTask("missing"); ok {
		t.Error("Expected unknown task id to report failure")
	}
}

func TestTaskExportShape(t *testing.T) {
	s := newTestScheduler()
	created := s.UpdateFlightHours("AC001", 493)
	if len(created) != 1 {
		t.Fatalf("Expected 1 scheduled task, got %d", len(created))
	}

	body, err := json.Marshal(created[0])
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("Expected export shape to be a JSON object, got %v", err)
	}

	if id, _ := fields["id"].(string); id == "" {
		t.Error("Expected non-empty id field")
	}
	if fields["aircraft_id"] != "AC001" {
		t.Errorf("Expected aircraft_id field, got %v", fields["aircraft_id"])
	}
	if fields["maintenance_type"] != "a_check" {
		t.Errorf("Expected maintenance_type field, got %v", fields["maintenance_type"])
	}
	if fields["status"] != "scheduled" {
		t.Errorf("Expected status field, got %v", fields["status"])
	}
	if fields["due_flight_hours"] != 500.0 {
		t.Errorf("Expected due_flight_hours field, got %v", fields["due_flight_hours"])
	}
	scheduled, _ := fields["scheduled_date"].(string)
	if _, err := time.Parse(time.RFC3339, scheduled); err != nil {
		t.Errorf("Expected RFC3339 scheduled_date, got %q: %v", scheduled, err)
	}
	for _, absent := range []string{"started_at", "completed_at", "technician", "component_id"} {
		if _, ok := fields[absent]; ok {
			t.Errorf("Expected %s to be omitted when unset", absent)
		}
	}

	var decoded Task
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Expected round-trip to succeed, got %v", err)
	}
	if decoded.ID != created[0].ID || decoded.Type != ACheck || decoded.Title != created[0].Title {
		t.Error("Expected id, type and title to survive the round trip")
	}
	if decoded.DueFlightHours == nil || *decoded.DueFlightHours != 500 {
		t.Errorf("Expected due flight hours to survive the round trip, got %v", decoded.DueFlightHours)
	}
	if decoded.ScheduledDate == nil || !decoded.ScheduledDate.Equal(*created[0].ScheduledDate) {
		t.Error("Expected scheduled date to survive the round trip")
	}
}

func TestStartTaskRecordsTechnician(t *testing.T) {
	s := newTestScheduler()

	task := s.CreateTask(Task{AircraftID: "AC001", Type: ACheck, Title: "A CHECK Due"})
	started, ok := s.StartTask(task.ID, "J. Alvarez")
	if !ok {
		t.Fatal("Expected start to succeed")
	}
	if started.Status != StatusInProgress {
		t.Errorf("Expected in_progress, got %s", started.Status)
	}
	if started.Technician != "J. Alvarez" {
		t.Errorf("Expected technician recorded, got %q", started.Technician)
	}
	if started.StartedAt == nil {
		t.Error("Expected StartedAt to be set")
	}
}
