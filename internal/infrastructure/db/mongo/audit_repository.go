package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/apiwiz/task-system/internal/core/ports"
)

const collectionAudit = "audit_events"

// AuditRepository persists the security/activity trail written by the
// async dispatcher.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type mongoAuditEvent struct {
	Action     string    `bson:"action"`
	ActorEmail string    `bson:"actor_email"`
	TargetID   string    `bson:"target_id,omitempty"`
	At         time.Time `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *ports.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAuditEvent{
		Action:     event.Action,
		ActorEmail: event.ActorEmail,
		TargetID:   event.TargetID,
		At:         event.At.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
