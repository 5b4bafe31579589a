package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	// ActorIDKey carries the acting user id through request contexts
	ActorIDKey ContextKey = "actor_id"
)

// SystemActor is recorded when no user initiated the action (scheduler, startup)
const SystemActor = "system"

// ActorFromContext returns the acting user id or SystemActor.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(ActorIDKey).(string); ok && actor != "" {
		return actor
	}
	return SystemActor
}

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionDelete   AuditAction = "DELETE"
	AuditActionReport   AuditAction = "REPORT"
	AuditActionExport   AuditAction = "EXPORT"
	AuditActionSchedule AuditAction = "SCHEDULE"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Module    string             `bson:"module" json:"module"`
	RecordID  string             `bson:"record_id" json:"record_id"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Log struct {
	AppID        string            `bson:"app_id" json:"app_id"`
	Message      string            `bson:"message" json:"message"`
	Caller       string            `bson:"caller,omitempty" json:"caller,omitempty"`
	Fields       map[string]string `bson:"fields,omitempty" json:"fields,omitempty"`
	LogLevelId   int               `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time         `bson:"created_on_utc" json:"created_on_utc"`
}
