package handler

import (
	"net/http"
	"time"

	"task-service/internal/audit"

	"github.com/labstack/echo/v4"
)

const (
	queryAction = "action"
	queryStatus = "status"
)

type AuditHandler struct {
	events AuditQuerier
}

func NewAuditHandler(events AuditQuerier) *AuditHandler {
	return &AuditHandler{events: events}
}

type AuditEventResponse struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ActorType    string         `json:"actor_type"`
	ActorID      *int64         `json:"actor_id,omitempty"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *int64         `json:"resource_id,omitempty"`
	Action       string         `json:"action"`
	Status       string         `json:"status"`
	RequestID    string         `json:"request_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ListEvents returns recent audit events, newest first.
func (h *AuditHandler) ListEvents(c echo.Context) error {
	limit, err := queryInt(c, queryLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, queryOffset)
	if err != nil {
		return err
	}

	filter := audit.QueryFilter{Limit: limit, Offset: offset}
	if v := c.QueryParam(queryAction); v != "" {
		action := audit.Action(v)
		filter.Action = &action
	}
	if v := c.QueryParam(queryStatus); v != "" {
		status := audit.Status(v)
		filter.Status = &status
	}

	events, err := h.events.Query(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuditEventResponse{
			ID:           e.ID.String(),
			EventType:    e.EventType,
			ActorType:    string(e.ActorType),
			ActorID:      e.ActorID,
			ResourceType: string(e.ResourceType),
			ResourceID:   e.ResourceID,
			Action:       string(e.Action),
			Status:       string(e.Status),
			RequestID:    e.RequestID,
			Metadata:     e.Metadata,
			ErrorMessage: e.ErrorMessage,
			CreatedAt:    e.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
