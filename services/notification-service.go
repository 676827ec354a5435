package services

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/utils"
)

// OutboxStore persists pending notification dispatches. Entries are written
// after the mutation that triggered them succeeds and drained separately, so
// a failed dispatch can never fail or roll back the mutation.
type OutboxStore interface {
	Append(ctx context.Context, entry *models.OutboxEntry) error
	Pending(ctx context.Context) ([]models.OutboxEntry, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Recent(ctx context.Context, limit int64) ([]models.OutboxEntry, error)
}

// HistoryStore records delivered notifications for the recipient's feed.
type HistoryStore interface {
	CreateNotification(notification *models.Notification) error
}

// MongoOutbox is the Mongo-backed OutboxStore.
type MongoOutbox struct {
	coll *mongo.Collection
}

func NewMongoOutbox(coll *mongo.Collection) *MongoOutbox {
	return &MongoOutbox{coll: coll}
}

func (o *MongoOutbox) Append(ctx context.Context, entry *models.OutboxEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.Status = models.OutboxPending
	entry.CreatedAt = time.Now()
	_, err := o.coll.InsertOne(ctx, entry)
	return err
}

func (o *MongoOutbox) Pending(ctx context.Context) ([]models.OutboxEntry, error) {
	cursor, err := o.coll.Find(ctx, bson.M{"status": models.OutboxPending})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.OutboxEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (o *MongoOutbox) MarkSent(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := o.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": models.OutboxSent, "sentAt": at},
	})
	return err
}

func (o *MongoOutbox) Recent(ctx context.Context, limit int64) ([]models.OutboxEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := o.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.OutboxEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// NotificationService drains the outbox: each pending entry is emailed
// through the circuit breaker, recorded in the notification history, and
// marked sent. Failures are logged and left pending for the next tick.
type NotificationService struct {
	outbox  OutboxStore
	history HistoryStore
	sender  utils.EmailSender
	breaker *gobreaker.CircuitBreaker

	mu sync.Mutex // one drain at a time
}

func NewNotificationService(outbox OutboxStore, history HistoryStore, sender utils.EmailSender, breaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{
		outbox:  outbox,
		history: history,
		sender:  sender,
		breaker: breaker,
	}
}

// Enqueue appends a dispatch to the outbox. Callers treat a failure here as
// best-effort: it is logged and swallowed, never propagated to the mutation.
func (ns *NotificationService) Enqueue(ctx context.Context, entry *models.OutboxEntry) error {
	return ns.outbox.Append(ctx, entry)
}

// RecentOutbox lists the latest outbox entries for the email management page.
func (ns *NotificationService) RecentOutbox(ctx context.Context, limit int64) ([]models.OutboxEntry, error) {
	return ns.outbox.Recent(ctx, limit)
}

// Kick triggers an asynchronous drain so the common case delivers promptly
// without the mutation waiting on it.
func (ns *NotificationService) Kick() {
	go func() {
		if err := ns.DrainOnce(context.Background()); err != nil {
			logging.Logger.Warnf("Event ID: OUTBOX_DRAIN_FAILED, Description: Outbox drain failed: %v", err)
		}
	}()
}

// Start runs the drain loop until the context is cancelled.
func (ns *NotificationService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ns.DrainOnce(ctx); err != nil {
				logging.Logger.Warnf("Event ID: OUTBOX_DRAIN_FAILED, Description: Outbox drain failed: %v", err)
			}
		}
	}
}

// DrainOnce dispatches every pending entry. An entry that fails to send stays
// pending; an entry that sends is recorded and marked sent exactly once.
func (ns *NotificationService) DrainOnce(ctx context.Context) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	entries, err := ns.outbox.Pending(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		entry := entry
		_, err := ns.breaker.Execute(func() (interface{}, error) {
			return nil, ns.sender.Send(entry.RecipientEmail, entry.Subject, entry.Body)
		})
		if err != nil {
			logging.Logger.Warnf("Event ID: NOTIFICATION_DISPATCH_FAILED, Description: Failed to dispatch notification %s to '%s': %v", entry.ID.Hex(), entry.RecipientEmail, err)
			continue
		}

		if ns.history != nil {
			if err := ns.history.CreateNotification(&models.Notification{
				RecipientID: entry.RecipientID.Hex(),
				Email:       entry.RecipientEmail,
				Message:     entry.Body,
				CreatedAt:   time.Now(),
				IsRead:      false,
			}); err != nil {
				logging.Logger.Warnf("Event ID: NOTIFICATION_HISTORY_FAILED, Description: Failed to record notification history for %s: %v", entry.ID.Hex(), err)
			}
		}

		if err := ns.outbox.MarkSent(ctx, entry.ID, time.Now()); err != nil {
			logging.Logger.Errorf("Event ID: OUTBOX_MARK_FAILED, Description: Failed to mark outbox entry %s as sent: %v", entry.ID.Hex(), err)
		}
	}

	return nil
}
