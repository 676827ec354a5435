package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation groups messages between a set of participant profiles.
type Conversation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject   string             `bson:"subject" json:"subject"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Participant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversationId" json:"conversationId"`
	ProfileID      primitive.ObjectID `bson:"profileId" json:"profileId"`
	JoinedAt       time.Time          `bson:"joinedAt" json:"joinedAt"`
}

type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversationId" json:"conversationId"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	Body           string             `bson:"body" json:"body"`
	AttachmentPath string             `bson:"attachmentPath,omitempty" json:"attachmentPath,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// ConversationView is the inbox shape: a conversation with its last message
// collapsed onto it.
type ConversationView struct {
	Conversation
	LastMessage     string    `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
}

// MagicLink is a single-use, time-boxed token granting access to one
// conversation. Redemption deletes the record atomically.
type MagicLink struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token          string             `bson:"token" json:"token"`
	ConversationID primitive.ObjectID `bson:"conversationId" json:"conversationId"`
	ExpiresAt      time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedBy      primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
