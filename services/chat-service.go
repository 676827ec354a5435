package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
)

// Magic link redemption outcomes. Store failures are mapped onto
// ErrInvalidLink so no raw error ever reaches an unauthenticated caller.
var (
	ErrInvalidLink = errors.New("invalid link")
	ErrExpiredLink = errors.New("expired link")
)

// DefaultMagicLinkTTL is how long a minted link stays redeemable.
const DefaultMagicLinkTTL = 7 * 24 * time.Hour

// ChatService manages conversations, messages, participants, and the
// single-use magic links granting conversation access.
type ChatService struct {
	conversationsCollection *mongo.Collection
	messagesCollection      *mongo.Collection
	participantsCollection  *mongo.Collection
	magicLinksCollection    *mongo.Collection
}

func NewChatService(db *mongo.Database) *ChatService {
	return &ChatService{
		conversationsCollection: db.Collection("conversations"),
		messagesCollection:      db.Collection("messages"),
		participantsCollection:  db.Collection("conversation_participants"),
		magicLinksCollection:    db.Collection("magic_links"),
	}
}

func (s *ChatService) CreateConversation(ctx context.Context, subject string, createdBy primitive.ObjectID, participantIDs []primitive.ObjectID) (*models.Conversation, error) {
	conversation := &models.Conversation{
		ID:        primitive.NewObjectID(),
		Subject:   subject,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if _, err := s.conversationsCollection.InsertOne(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %v", err)
	}

	seen := map[primitive.ObjectID]bool{}
	for _, pid := range append(participantIDs, createdBy) {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		participant := models.Participant{
			ID:             primitive.NewObjectID(),
			ConversationID: conversation.ID,
			ProfileID:      pid,
			JoinedAt:       time.Now(),
		}
		if _, err := s.participantsCollection.InsertOne(ctx, participant); err != nil {
			return nil, fmt.Errorf("failed to add participant: %v", err)
		}
	}

	return conversation, nil
}

// IsParticipant reports whether the profile belongs to the conversation.
func (s *ChatService) IsParticipant(ctx context.Context, conversationID, profileID primitive.ObjectID) (bool, error) {
	count, err := s.participantsCollection.CountDocuments(ctx, bson.M{
		"conversationId": conversationID,
		"profileId":      profileID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %v", err)
	}
	return count > 0, nil
}

// SendMessage appends a message from a participant.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID primitive.ObjectID, body, attachmentPath string) (*models.Message, error) {
	ok, err := s.IsParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("sender is not a participant of this conversation")
	}

	message := &models.Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		AttachmentPath: attachmentPath,
		CreatedAt:      time.Now(),
	}
	if _, err := s.messagesCollection.InsertOne(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %v", err)
	}
	return message, nil
}

// GetMessages lists a conversation's messages in creation order.
func (s *ChatService) GetMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.messagesCollection.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// GetInbox lists conversations newest first with last-message previews.
func (s *ChatService) GetInbox(ctx context.Context) ([]models.ConversationView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.conversationsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve conversations: %v", err)
	}
	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("failed to decode conversations: %v", err)
	}

	views := make([]models.ConversationView, 0, len(conversations))
	for _, c := range conversations {
		view := models.ConversationView{Conversation: c}
		var last models.Message
		lastOpts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		if err := s.messagesCollection.FindOne(ctx, bson.M{"conversationId": c.ID}, lastOpts).Decode(&last); err == nil {
			view.LastMessage = last.Body
			view.LastMessageTime = last.CreatedAt
		}
		views = append(views, view)
	}
	return views, nil
}

// CreateMagicLink mints a single-use link into a conversation.
func (s *ChatService) CreateMagicLink(ctx context.Context, conversationID, createdBy primitive.ObjectID, ttl time.Duration) (*models.MagicLink, error) {
	var conversation models.Conversation
	if err := s.conversationsCollection.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&conversation); err != nil {
		return nil, fmt.Errorf("conversation not found: %v", err)
	}

	if ttl <= 0 {
		ttl = DefaultMagicLinkTTL
	}
	link := &models.MagicLink{
		ID:             primitive.NewObjectID(),
		Token:          uuid.New().String(),
		ConversationID: conversationID,
		ExpiresAt:      time.Now().Add(ttl),
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}
	if _, err := s.magicLinksCollection.InsertOne(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to create magic link: %v", err)
	}
	return link, nil
}

// EvaluateMagicLink decides a redemption outcome for a link that was already
// consumed from the store.
func EvaluateMagicLink(link *models.MagicLink, now time.Time) error {
	if link == nil {
		return ErrInvalidLink
	}
	if now.After(link.ExpiresAt) {
		return ErrExpiredLink
	}
	return nil
}

// RedeemMagicLink consumes a token and returns its target conversation. The
// lookup and deletion are one atomic check-and-delete, so a token can only
// ever be redeemed once; an expired record is also removed by the same
// operation. Missing tokens and store failures both surface as ErrInvalidLink.
func (s *ChatService) RedeemMagicLink(ctx context.Context, token string) (primitive.ObjectID, error) {
	var link models.MagicLink
	err := s.magicLinksCollection.FindOneAndDelete(ctx, bson.M{"token": token}).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, ErrInvalidLink
	}
	if err != nil {
		logging.Logger.Errorf("Event ID: MAGIC_LINK_LOOKUP_FAILED, Description: Magic link lookup failed: %v", err)
		return primitive.NilObjectID, ErrInvalidLink
	}

	if err := EvaluateMagicLink(&link, time.Now()); err != nil {
		return primitive.NilObjectID, err
	}
	return link.ConversationID, nil
}

// CollectionsReachable checks the messaging collections for diagnostics.
func (s *ChatService) CollectionsReachable(ctx context.Context) error {
	for _, coll := range []*mongo.Collection{s.conversationsCollection, s.messagesCollection, s.participantsCollection} {
		if err := coll.FindOne(ctx, bson.M{}).Err(); err != nil && err != mongo.ErrNoDocuments {
			return fmt.Errorf("collection %s unreachable: %v", coll.Name(), err)
		}
	}
	return nil
}
