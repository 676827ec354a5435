package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResourceType string

const (
	ResourceDocument ResourceType = "document"
	ResourceVideo    ResourceType = "video"
	ResourceFile     ResourceType = "file"
)

// Collection groups knowledge-base resources.
type Collection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Resource is a stored object inside a collection.
type Resource struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollectionID primitive.ObjectID `bson:"collectionId" json:"collectionId"`
	FileName     string             `bson:"fileName" json:"fileName"`
	StoragePath  string             `bson:"storagePath" json:"storagePath"`
	MimeType     string             `bson:"mimeType" json:"mimeType"`
	FileSize     int64              `bson:"fileSize" json:"fileSize"`
	Type         ResourceType       `bson:"type" json:"type"`
	UploadedBy   primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
