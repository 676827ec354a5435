package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

type mockOutbox struct {
	entries []models.OutboxEntry
	sent    map[primitive.ObjectID]bool
}

func newMockOutbox(entries ...models.OutboxEntry) *mockOutbox {
	return &mockOutbox{entries: entries, sent: map[primitive.ObjectID]bool{}}
}

func (m *mockOutbox) Append(ctx context.Context, entry *models.OutboxEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.Status = models.OutboxPending
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockOutbox) Pending(ctx context.Context) ([]models.OutboxEntry, error) {
	var pending []models.OutboxEntry
	for _, e := range m.entries {
		if !m.sent[e.ID] {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (m *mockOutbox) MarkSent(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	m.sent[id] = true
	return nil
}

func (m *mockOutbox) Recent(ctx context.Context, limit int64) ([]models.OutboxEntry, error) {
	return m.entries, nil
}

type mockSender struct {
	sent []string
	fail map[string]error
}

func (m *mockSender) Send(to, subject, body string) error {
	if err := m.fail[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, to)
	return nil
}

type mockHistory struct {
	recorded []models.Notification
}

func (m *mockHistory) CreateNotification(notification *models.Notification) error {
	m.recorded = append(m.recorded, *notification)
	return nil
}

func testBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"})
}

func pendingEntry(email string) models.OutboxEntry {
	return models.OutboxEntry{
		ID:             primitive.NewObjectID(),
		RecipientID:    primitive.NewObjectID(),
		RecipientEmail: email,
		Subject:        "You have been assigned a task",
		Body:           "Task details inside.",
		Status:         models.OutboxPending,
	}
}

func TestDrainOnceDeliversAndRecordsExactlyOnce(t *testing.T) {
	entry := pendingEntry("worker@agency.test")
	outbox := newMockOutbox(entry)
	sender := &mockSender{}
	history := &mockHistory{}

	ns := NewNotificationService(outbox, history, sender, testBreaker())

	if err := ns.DrainOnce(context.Background()); err != nil {
		t.Fatalf("DrainOnce returned error: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "worker@agency.test" {
		t.Fatalf("expected exactly one send, got %v", sender.sent)
	}
	if len(history.recorded) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.recorded))
	}
	if !outbox.sent[entry.ID] {
		t.Fatal("expected entry marked sent")
	}

	// A second drain finds nothing pending.
	if err := ns.DrainOnce(context.Background()); err != nil {
		t.Fatalf("second DrainOnce returned error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected no re-delivery, got %d sends", len(sender.sent))
	}
}

func TestDrainOnceLeavesFailedEntryPending(t *testing.T) {
	ok := pendingEntry("reachable@agency.test")
	bad := pendingEntry("unreachable@agency.test")
	outbox := newMockOutbox(bad, ok)
	sender := &mockSender{fail: map[string]error{"unreachable@agency.test": errors.New("smtp refused")}}
	history := &mockHistory{}

	ns := NewNotificationService(outbox, history, sender, testBreaker())

	if err := ns.DrainOnce(context.Background()); err != nil {
		t.Fatalf("DrainOnce returned error: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "reachable@agency.test" {
		t.Fatalf("expected the deliverable entry to go out, got %v", sender.sent)
	}
	if outbox.sent[bad.ID] {
		t.Fatal("failed entry must stay pending")
	}
	if !outbox.sent[ok.ID] {
		t.Fatal("delivered entry must be marked sent")
	}
	if len(history.recorded) != 1 {
		t.Fatalf("expected only the delivered entry in history, got %d", len(history.recorded))
	}
}

func TestDrainOnceWithoutHistoryStore(t *testing.T) {
	outbox := newMockOutbox(pendingEntry("worker@agency.test"))
	sender := &mockSender{}

	ns := NewNotificationService(outbox, nil, sender, testBreaker())

	if err := ns.DrainOnce(context.Background()); err != nil {
		t.Fatalf("DrainOnce returned error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(sender.sent))
	}
}

func TestEnqueueMarksEntryPending(t *testing.T) {
	outbox := newMockOutbox()
	ns := NewNotificationService(outbox, nil, &mockSender{}, testBreaker())

	entry := models.OutboxEntry{RecipientEmail: "client@agency.test", Subject: "s", Body: "b"}
	if err := ns.Enqueue(context.Background(), &entry); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
	if len(outbox.entries) != 1 || outbox.entries[0].Status != models.OutboxPending {
		t.Fatalf("expected one pending entry, got %+v", outbox.entries)
	}
}
