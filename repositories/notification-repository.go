package repositories

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/sirupsen/logrus"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

// NotificationRepo is the Cassandra-backed notification history, clustered
// per recipient by creation time descending.
type NotificationRepo struct {
	session *gocql.Session
	logger  *logrus.Logger
}

func NewNotificationRepo(contactPoint string, logger *logrus.Logger) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(contactPoint)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		logger.Errorf("Event ID: CASS_CONNECT_FAILED, Description: Failed to connect to Cassandra: %v", err)
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS agency_notifications
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		logger.Errorf("Event ID: CASS_KEYSPACE_FAILED, Description: Failed to create keyspace: %v", err)
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "agency_notifications"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		logger.Errorf("Event ID: CASS_KEYSPACE_CONNECT_FAILED, Description: Failed to connect to agency_notifications keyspace: %v", err)
		return nil, err
	}

	logger.Info("Event ID: CASS_CONNECTED, Description: Connected to Cassandra agency_notifications keyspace.")
	return &NotificationRepo{
		session: session,
		logger:  logger,
	}, nil
}

func (nr *NotificationRepo) CloseSession() {
	nr.session.Close()
	nr.logger.Info("Event ID: CASS_SESSION_CLOSED, Description: Cassandra session closed.")
}

// CreateTable creates the notifications table when missing.
func (nr *NotificationRepo) CreateTable() {
	err := nr.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			recipient_id TEXT,
			email TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((recipient_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		nr.logger.Errorf("Event ID: CASS_TABLE_FAILED, Description: Failed to create notifications table: %v", err)
	} else {
		nr.logger.Info("Event ID: CASS_TABLE_READY, Description: Notifications table ready.")
	}
}

func (nr *NotificationRepo) CreateNotification(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = gocql.TimeUUID().String()
	}

	err := nr.session.Query(
		`INSERT INTO notifications (id, recipient_id, email, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.RecipientID, notification.Email,
		notification.Message, notification.CreatedAt, notification.IsRead,
	).Exec()
	if err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_INSERT_FAILED, Description: Failed to record notification: %v", err)
		return err
	}

	return nil
}

func (nr *NotificationRepo) GetNotificationsByRecipient(recipientID string) ([]models.Notification, error) {
	query := `SELECT id, recipient_id, email, message, created_at, is_read
			  FROM notifications WHERE recipient_id = ?`

	iter := nr.session.Query(query, recipientID).Iter()
	var notifications []models.Notification
	var notification models.Notification

	for iter.Scan(&notification.ID, &notification.RecipientID, &notification.Email,
		&notification.Message, &notification.CreatedAt, &notification.IsRead) {
		notifications = append(notifications, notification)
	}

	if err := iter.Close(); err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_FETCH_FAILED, Description: Failed to fetch notifications for recipient %s: %v", recipientID, err)
		return nil, err
	}

	return notifications, nil
}

func (nr *NotificationRepo) MarkNotificationAsRead(recipientID, notificationID, createdAt string) error {
	uuid, err := gocql.ParseUUID(notificationID)
	if err != nil {
		nr.logger.Warnf("Event ID: NOTIFICATION_BAD_UUID, Description: Invalid UUID format: %v", err)
		return err
	}

	parsedCreatedAt, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		nr.logger.Warnf("Event ID: NOTIFICATION_BAD_TIMESTAMP, Description: Invalid created_at format: %v", err)
		return err
	}

	query := `UPDATE notifications SET is_read = true WHERE recipient_id = ? AND id = ? AND created_at = ?`
	if err := nr.session.Query(query, recipientID, uuid, parsedCreatedAt).Exec(); err != nil {
		nr.logger.Errorf("Event ID: NOTIFICATION_UPDATE_FAILED, Description: Failed to mark notification as read: %v", err)
		return err
	}

	return nil
}
