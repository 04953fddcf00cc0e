package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/quarry-io/deviceinfo/internal/config"
	"github.com/quarry-io/deviceinfo/pkg/sysinfo"
	"go.uber.org/zap"
)

// QueryHandlers manages all snapshot query subscriptions and handlers
type QueryHandlers struct {
	logger        *zap.Logger
	config        *config.Config
	deviceID      string
	subjectPrefix string
	info          *sysinfo.Service
	startedAt     time.Time
}

// NewQueryHandlers creates a new query handler manager
func NewQueryHandlers(logger *zap.Logger, cfg *config.Config, info *sysinfo.Service) *QueryHandlers {
	return &QueryHandlers{
		logger:        logger,
		config:        cfg,
		deviceID:      cfg.DeviceID,
		subjectPrefix: cfg.SubjectPrefix,
		info:          info,
		startedAt:     time.Now().UTC(),
	}
}

// handleWithRecovery wraps a query handler with panic recovery.
// This prevents a panic in one handler from crashing the entire agent.
func (h *QueryHandlers) handleWithRecovery(name string, handler nats.MsgHandler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("Panic recovered in query handler",
					zap.String("handler", name),
					zap.String("subject", msg.Subject),
					zap.Any("panic", r),
					zap.String("stack", string(debug.Stack())))

				response := errorResponse{
					Status:    "error",
					Error:     fmt.Sprintf("Internal error: handler panicked: %v", r),
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				}
				responseBytes, _ := json.Marshal(response)
				msg.Respond(responseBytes)
			}
		}()

		handler(msg)
	}
}

// SubscribeAll subscribes to all query subjects for this device
func (h *QueryHandlers) SubscribeAll(client *Client) error {
	subscriptions := []struct {
		name    string
		handler nats.MsgHandler
	}{
		{"device", h.handleDevice},
		{"application", h.handleApplication},
		{"system", h.handleSystem},
		{"id", h.handleDeviceID},
		{"offline_id", h.handleOfflineID},
		{"friendly", h.handleFriendlyID},
		{"capabilities", h.handleCapabilities},
		{"requirements", h.handleRequirements},
	}

	for _, sub := range subscriptions {
		subject := fmt.Sprintf("%s.%s.info.%s", h.subjectPrefix, h.deviceID, sub.name)
		if _, err := client.Subscribe(subject, h.handleWithRecovery(sub.name, sub.handler)); err != nil {
			return err
		}
	}

	// Liveness subjects live under cmd rather than info
	if _, err := client.Subscribe(
		fmt.Sprintf("%s.%s.cmd.ping", h.subjectPrefix, h.deviceID),
		h.handleWithRecovery("ping", h.handlePing),
	); err != nil {
		return err
	}

	if _, err := client.Subscribe(
		fmt.Sprintf("%s.%s.cmd.health", h.subjectPrefix, h.deviceID),
		h.handleWithRecovery("health", h.handleHealth),
	); err != nil {
		return err
	}

	return nil
}

// Response structures

type pingResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Provider      string `json:"provider"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Timestamp     string `json:"timestamp"`
}

type identifierResponse struct {
	Status    string  `json:"status"`
	ID        *string `json:"id"`
	Timestamp string  `json:"timestamp"`
}

type friendlyResponse struct {
	Status     string `json:"status"`
	FriendlyID string `json:"friendly_id"`
	Timestamp  string `json:"timestamp"`
}

type systemRequest struct {
	CorrelationID string `json:"correlation_id"`
}

type requirementsRequest struct {
	MinMemoryGB int `json:"min_memory_gb"`
}

type requirementsResponse struct {
	Status  string   `json:"status"`
	Meets   bool     `json:"meets"`
	Reasons []string `json:"reasons,omitempty"`
}

type errorResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// handlePing responds to ping commands
func (h *QueryHandlers) handlePing(msg *nats.Msg) {
	h.logger.Debug("Received ping command")

	response := pingResponse{
		Status:    "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)
}

// handleHealth returns agent health information
func (h *QueryHandlers) handleHealth(msg *nats.Msg) {
	h.logger.Debug("Received health check command")

	response := healthResponse{
		Status:        "healthy",
		Provider:      h.info.ProviderName(),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)
}

// handleDevice responds with the current device snapshot
func (h *QueryHandlers) handleDevice(msg *nats.Msg) {
	h.logger.Debug("Received device info query")

	snap := h.info.GetDeviceInfo(context.Background())
	responseBytes, _ := json.Marshal(snap)
	msg.Respond(responseBytes)
}

// handleApplication responds with the current application snapshot
func (h *QueryHandlers) handleApplication(msg *nats.Msg) {
	h.logger.Debug("Received application info query")

	snap := h.info.GetApplicationInfo(context.Background())
	responseBytes, _ := json.Marshal(snap)
	msg.Respond(responseBytes)
}

// handleSystem responds with a combined system snapshot.
// The request body may carry a correlation ID; an empty body gets a generated one.
func (h *QueryHandlers) handleSystem(msg *nats.Msg) {
	h.logger.Debug("Received system info query")

	var req systemRequest
	if len(msg.Data) > 0 {
		// Tolerate malformed bodies; a generated correlation ID is always valid
		_ = json.Unmarshal(msg.Data, &req)
	}

	snap := h.info.GetSystemInfo(context.Background(), req.CorrelationID)
	responseBytes, _ := json.Marshal(snap)
	msg.Respond(responseBytes)

	h.logger.Debug("Sent system snapshot", zap.String("correlation_id", snap.CorrelationID))
}

// handleDeviceID responds with the stable machine identifier (null where unavailable)
func (h *QueryHandlers) handleDeviceID(msg *nats.Msg) {
	h.logger.Debug("Received device ID query")

	response := identifierResponse{
		Status:    "success",
		ID:        sysinfo.GetDeviceID(context.Background()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)
}

// handleOfflineID responds with the offline user identifier
func (h *QueryHandlers) handleOfflineID(msg *nats.Msg) {
	h.logger.Debug("Received offline ID query")

	response := identifierResponse{
		Status:    "success",
		ID:        sysinfo.GetOfflineUserID(context.Background(), ""),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)
}

// handleFriendlyID responds with a human-readable device label
func (h *QueryHandlers) handleFriendlyID(msg *nats.Msg) {
	h.logger.Debug("Received friendly ID query")

	response := friendlyResponse{
		Status:     "success",
		FriendlyID: h.info.GetUserFriendlyID(context.Background()),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)
}

// handleCapabilities responds with the derived capability set
func (h *QueryHandlers) handleCapabilities(msg *nats.Msg) {
	h.logger.Debug("Received capabilities query")

	caps := h.info.GetDeviceCapabilities(context.Background())
	responseBytes, _ := json.Marshal(caps)
	msg.Respond(responseBytes)
}

// handleRequirements checks the device against memory and year-class thresholds.
// The request may override the configured minimum memory.
func (h *QueryHandlers) handleRequirements(msg *nats.Msg) {
	h.logger.Debug("Received requirements query")

	minMemoryGB := h.config.Limits.MinMemoryGB
	if len(msg.Data) > 0 {
		var req requirementsRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.logger.Error("Failed to parse requirements request", zap.Error(err))
			h.respondError(msg, "Invalid request format")
			return
		}
		if req.MinMemoryGB > 0 {
			minMemoryGB = req.MinMemoryGB
		}
	}

	snap := h.info.GetDeviceInfo(context.Background())
	result := sysinfo.MeetsMinimumRequirements(snap, minMemoryGB)

	response := requirementsResponse{
		Status:  "success",
		Meets:   result.Meets,
		Reasons: result.Reasons,
	}

	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)

	h.logger.Debug("Sent requirements response",
		zap.Bool("meets", result.Meets),
		zap.Int("min_memory_gb", minMemoryGB))
}

// respondError sends a generic error response
func (h *QueryHandlers) respondError(msg *nats.Msg, errorMsg string) {
	response := errorResponse{
		Status:    "error",
		Error:     errorMsg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	responseBytes, _ := json.Marshal(response)
	msg.Respond(responseBytes)
}
