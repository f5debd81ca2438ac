package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gwebsocket "github.com/gorilla/websocket" // Alias to avoid name conflict

	"solagire-dashboard/internal/auth"
	"solagire-dashboard/internal/dashboard"
	"solagire-dashboard/internal/data"
	"solagire-dashboard/internal/websocket"
)

const defaultHistoryLimit = 10

var upgrader = gwebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // dashboard may be served from another origin
}

type APIHandler struct {
	log  *slog.Logger
	svc  *dashboard.Service
	hub  *websocket.Hub
	auth *auth.AuthManager
}

func NewAPIHandler(log *slog.Logger, svc *dashboard.Service, hub *websocket.Hub, am *auth.AuthManager) *APIHandler {
	return &APIHandler{log: log, svc: svc, hub: hub, auth: am}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors onto status codes.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, data.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *APIHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "ready": err == nil})
}

func (h *APIHandler) HandleHeader(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Header())
}

func (h *APIHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Overview()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) HandleEnvironment(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Environment()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) HandleSystem(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.System()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) HandleTilt(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Tilt()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleIdealTilt computes the ideal tilt for ?day=N, defaulting to the
// current snapshot's day of year.
func (h *APIHandler) HandleIdealTilt(w http.ResponseWriter, r *http.Request) {
	var day int
	if s := r.URL.Query().Get("day"); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid day")
			return
		}
		day = d
	} else {
		snap, err := h.svc.Current()
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		day = snap.DayOfYear
	}

	ideal, err := h.svc.IdealTiltFor(day)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"latitude":    h.svc.Location().Latitude,
		"day_of_year": day,
		"ideal_tilt":  ideal,
	})
}

// HandleSetTilt stores the operator's tilt control selection.
func (h *APIHandler) HandleSetTilt(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	setting, err := h.svc.UpdateTilt(body)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

func (h *APIHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Alerts()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *APIHandler) HandleAlertHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	history := h.svc.AlertHistory(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{"count": len(history), "history": history})
}

// HandleSeries returns the raw series, optionally cut to ?window=<duration>.
func (h *APIHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	var window time.Duration
	if s := r.URL.Query().Get("window"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "invalid window")
			return
		}
		window = d
	}
	view, err := h.svc.Series(window)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleRefresh regenerates the snapshot on demand.
func (h *APIHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":           snap.ID,
		"generated_at": snap.GeneratedAt,
		"samples":      len(snap.Series),
		"status":       snap.Report.Status,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin exchanges user credentials for a bearer token.
func (h *APIHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}
	role, err := h.auth.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		h.log.Warn("login rejected", "username", req.Username, "err", err)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, expires, err := h.auth.GenerateJWT(req.Username, role)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "expires_at": expires, "role": role})
}

// HandleWebSocket upgrades connections and registers clients with the hub.
// The current snapshot, if any, is the first frame a client receives.
func (h *APIHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	if snap, err := h.svc.Current(); err == nil {
		if b, err := websocket.Encode(websocket.Message{Type: websocket.TypeSnapshot, Payload: snap}); err == nil {
			client.Send <- b
		}
	}
	if !h.hub.RegisterClient(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
