package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is one delivered (or recorded) notification in the Cassandra
// history, clustered per recipient by creation time.
type Notification struct {
	ID          string    `cassandra:"id" json:"id"`
	RecipientID string    `cassandra:"recipient_id" json:"recipientId"`
	Email       string    `cassandra:"email" json:"email"`
	Message     string    `cassandra:"message" json:"message"`
	CreatedAt   time.Time `cassandra:"created_at" json:"createdAt"`
	IsRead      bool      `cassandra:"is_read" json:"isRead"`
}

// Outbox entry statuses.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
)

// OutboxEntry is written after a successful mutation whose watched field
// changed. A background worker drains pending entries and dispatches the
// email; dispatch failures leave the entry pending for the next tick and
// never affect the mutation that produced it.
type OutboxEntry struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID    primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	RecipientEmail string             `bson:"recipientEmail" json:"recipientEmail"`
	Subject        string             `bson:"subject" json:"subject"`
	Body           string             `bson:"body" json:"body"`
	TaskID         primitive.ObjectID `bson:"taskId" json:"taskId"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	SentAt         *time.Time         `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
}
