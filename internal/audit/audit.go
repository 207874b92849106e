package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"task-service/internal/auth"
	"task-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

const (
	asyncLogTimeout   = 2 * time.Second
	defaultQueryLimit = 100
	maxQueryLimit     = 500

	errMarshalMetadataFmt = "failed to marshal audit metadata: %w"
	errInsertEventFmt     = "failed to insert audit event: %w"
	errQueryEventsFmt     = "failed to query audit events: %w"
)

// ActorType represents the type of entity performing an action
type ActorType string

const (
	ActorTypeUser      ActorType = "user"
	ActorTypeAnonymous ActorType = "anonymous"
	ActorTypeSystem    ActorType = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceTypeAccount ResourceType = "account"
	ResourceTypeSession ResourceType = "session"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate     Action = "create"
	ActionLogin      Action = "login"
	ActionLogout     Action = "logout"
	ActionRoleChange Action = "role_change"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

// RequestMeta is the request information copied onto an event.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// MetaFromContext captures request metadata from an Echo context.
func MetaFromContext(c echo.Context) RequestMeta {
	return RequestMeta{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}
}

// Event represents an audit event
type Event struct {
	ID           uuid.UUID
	EventType    string
	ActorType    ActorType
	ActorID      *int64
	ResourceType ResourceType
	ResourceID   *int64
	Action       Action
	Status       Status
	RequestMeta
	Metadata     map[string]any
	ErrorMessage string
	CreatedAt    time.Time
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Logger handles audit logging
type Logger struct {
	db     dbtx
	errOut io.Writer
}

// NewLogger creates a new audit logger on a pgx pool or transaction.
func NewLogger(db dbtx) *Logger {
	return &Logger{db: db, errOut: os.Stderr}
}

const eventColumns = `id, event_type, actor_type, actor_id, resource_type, resource_id,
	action, status, ip_address, user_agent, request_id, metadata, error_message, created_at`

// Log records an audit event, filling in id, time, type and actor type when
// they are unset. Metadata is redacted before it is stored.
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if event.EventType == "" {
		event.EventType = string(event.Action) + "_" + string(event.ResourceType)
	}
	if event.ActorType == "" {
		event.ActorType = ActorTypeSystem
	}

	var metadata []byte
	if event.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(logger.SanitizeMap(event.Metadata)); err != nil {
			return fmt.Errorf(errMarshalMetadataFmt, err)
		}
	}

	_, err := l.db.Exec(ctx,
		`INSERT INTO audit_events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		event.ID, event.EventType, event.ActorType, event.ActorID,
		event.ResourceType, event.ResourceID, event.Action, event.Status,
		event.IPAddress, event.UserAgent, event.RequestID,
		metadata, event.ErrorMessage, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf(errInsertEventFmt, err)
	}
	return nil
}

// LogAsync records event in the background. Failures are written to the
// logger's error output and never reach the caller. The returned channel
// is closed once the write finished.
func (l *Logger) LogAsync(event *Event) <-chan struct{} {
	done := make(chan struct{})
	ctx, cancel := context.WithTimeout(context.Background(), asyncLogTimeout)
	go func() {
		defer close(done)
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			fmt.Fprintf(l.errOut, "audit log failed: %v\n", err)
		}
	}()
	return done
}

// LogFromContext creates and logs an audit event from an Echo context asynchronously
func (l *Logger) LogFromContext(c echo.Context, resourceType ResourceType, resourceID *int64, action Action, status Status, metadata map[string]any) {
	event := &Event{
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		RequestMeta:  MetaFromContext(c),
		Metadata:     metadata,
		ActorType:    ActorTypeAnonymous,
	}

	if p, ok := auth.PrincipalFrom(c); ok {
		id := p.ID()
		event.ActorType = ActorTypeUser
		event.ActorID = &id
	}

	l.LogAsync(event)
}

// QueryFilter narrows Query results. Nil fields do not filter.
type QueryFilter struct {
	ActorID      *int64
	ResourceType *ResourceType
	ResourceID   *int64
	Action       *Action
	Status       *Status
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

// where renders the filter as SQL conditions with positional arguments.
func (f QueryFilter) where() (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ActorID != nil {
		add("actor_id = $%d", *f.ActorID)
	}
	if f.ResourceType != nil {
		add("resource_type = $%d", *f.ResourceType)
	}
	if f.ResourceID != nil {
		add("resource_id = $%d", *f.ResourceID)
	}
	if f.Action != nil {
		add("action = $%d", *f.Action)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.StartTime != nil {
		add("created_at >= $%d", *f.StartTime)
	}
	if f.EndTime != nil {
		add("created_at <= $%d", *f.EndTime)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Query returns matching events, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	limit := filter.Limit
	if limit <= 0 || limit > maxQueryLimit {
		limit = defaultQueryLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	where, args := filter.where()
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM audit_events%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		eventColumns, where, len(args)-1, len(args))

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errQueryEventsFmt, err)
	}

	events, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, fmt.Errorf(errQueryEventsFmt, err)
	}
	return events, nil
}

func scanEvent(row pgx.CollectableRow) (*Event, error) {
	event := &Event{}
	var metadata []byte

	err := row.Scan(
		&event.ID, &event.EventType, &event.ActorType, &event.ActorID,
		&event.ResourceType, &event.ResourceID, &event.Action, &event.Status,
		&event.IPAddress, &event.UserAgent, &event.RequestID,
		&metadata, &event.ErrorMessage, &event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return nil, err
		}
	}
	return event, nil
}
