package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const auditCollection = "audit_trail"

// AuditTrail implements the audit sink on a MongoDB collection. Entries
// are inserted and never updated or deleted.
type AuditTrail struct {
	coll *mongo.Collection
}

func NewAuditTrail(db *mongo.Database) *AuditTrail {
	return &AuditTrail{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ActorID    string `bson:"actor_id"`
	Action     string `bson:"action"`
	TargetType string `bson:"target_type"`
	TargetID   string `bson:"target_id"`
	Timestamp  int64  `bson:"timestamp"`
}

func (t *AuditTrail) Record(ctx context.Context, actorID, action, targetType, targetID string) error {
	doc := auditDoc{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Timestamp:  time.Now().UTC().Unix(),
	}

	if _, err := t.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
