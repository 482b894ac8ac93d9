package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	gwebsocket "github.com/gorilla/websocket"

	"aircraft-monitor/internal/maintenance"
	"aircraft-monitor/internal/monitoring"
	"aircraft-monitor/internal/storage"
	"aircraft-monitor/internal/websocket"
)

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler is the thin request/response wrapper around the monitoring and
// scheduling core. It never mutates core structures directly; every write
// goes through a core operation.
type Handler struct {
	engine    *monitoring.Engine
	scheduler *maintenance.Scheduler
	store     storage.ReadingStore
	hub       *websocket.Hub
	auth      *AuthManager
}

func NewHandler(engine *monitoring.Engine, scheduler *maintenance.Scheduler,
	store storage.ReadingStore, hub *websocket.Hub, auth *AuthManager) *Handler {
	return &Handler{
		engine:    engine,
		scheduler: scheduler,
		store:     store,
		hub:       hub,
		auth:      auth,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.auth.AuthenticateUser(req.Username, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.auth.GenerateJWT(req.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.engine.ActiveAlerts(r.URL.Query().Get("aircraft_id"))
	writeJSON(w, http.StatusOK, alerts)
}

func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.engine.AcknowledgeAlert(id) {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.engine.ResolveAlert(id) {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func (h *Handler) ListAircraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Fleet())
}

func (h *Handler) RegisterAircraft(w http.ResponseWriter, r *http.Request) {
	var status maintenance.AircraftStatus
	if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
		writeError(w, http.StatusBadRequest, "invalid aircraft status")
		return
	}
	if status.AircraftID == "" {
		writeError(w, http.StatusBadRequest, "aircraft_id is required")
		return
	}
	h.scheduler.RegisterAircraft(status)
	writeJSON(w, http.StatusCreated, status)
}

func (h *Handler) UpdateFlightHours(w http.ResponseWriter, r *http.Request) {
	aircraftID := chi.URLParam(r, "id")
	var req struct {
		TotalFlightHours float64 `json:"total_flight_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tasks := h.scheduler.UpdateFlightHours(aircraftID, req.TotalFlightHours)
	if tasks == nil {
		tasks = []maintenance.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"new_tasks": tasks})
}

func (h *Handler) UpcomingTasks(w http.ResponseWriter, r *http.Request) {
	daysAhead := 30
	if d := r.URL.Query().Get("days_ahead"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid days_ahead")
			return
		}
		daysAhead = parsed
	}
	tasks := h.scheduler.UpcomingTasks(r.URL.Query().Get("aircraft_id"), daysAhead)
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) OverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks := h.scheduler.OverdueTasks(r.URL.Query().Get("aircraft_id"))
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task maintenance.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeError(w, http.StatusBadRequest, "invalid task")
		return
	}
	if task.AircraftID == "" {
		writeError(w, http.StatusBadRequest, "aircraft_id is required")
		return
	}
	created := h.scheduler.CreateTask(task)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) StartTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Technician string `json:"technician"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, ok := h.scheduler.StartTask(chi.URLParam(r, "id"), req.Technician)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task, ok := h.scheduler.CompleteTask(chi.URLParam(r, "id"), req.Notes)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) CancelTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.scheduler.CancelTask(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusConflict, "task not found or not cancellable")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) RecentReadings(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	if aircraftID := r.URL.Query().Get("aircraft_id"); aircraftID != "" {
		writeJSON(w, http.StatusOK, h.store.ByAircraft(aircraftID, limit))
		return
	}
	writeJSON(w, http.StatusOK, h.store.Recent(limit))
}

// HandleWebSocket upgrades the connection and registers the client for
// live reading/alert push.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade error: %v", err)
		return
	}

	client := &websocket.Client{Hub: h.hub, Conn: conn, Send: make(chan []byte, 256)}
	client.Hub.RegisterClient(client)

	go client.WritePump()
	go client.ReadPump()
}
