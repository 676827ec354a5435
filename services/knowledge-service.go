package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

// KnowledgeService manages knowledge-base collections and their resources.
type KnowledgeService struct {
	collectionsCollection *mongo.Collection
	resourcesCollection   *mongo.Collection
}

func NewKnowledgeService(db *mongo.Database) *KnowledgeService {
	return &KnowledgeService{
		collectionsCollection: db.Collection("collections"),
		resourcesCollection:   db.Collection("resources"),
	}
}

func (s *KnowledgeService) CreateCollection(ctx context.Context, collection *models.Collection) (*models.Collection, error) {
	collection.ID = primitive.NewObjectID()
	collection.CreatedAt = time.Now()
	if _, err := s.collectionsCollection.InsertOne(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %v", err)
	}
	return collection, nil
}

// GetCollections lists collections newest first.
func (s *KnowledgeService) GetCollections(ctx context.Context) ([]models.Collection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collectionsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve collections: %v", err)
	}
	defer cursor.Close(ctx)

	var collections []models.Collection
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, fmt.Errorf("failed to decode collections: %v", err)
	}
	return collections, nil
}

// CollectionDetail is the collection page view model.
type CollectionDetail struct {
	models.Collection
	Resources []models.Resource `json:"resources"`
}

func (s *KnowledgeService) GetCollectionByID(ctx context.Context, collectionID primitive.ObjectID) (*CollectionDetail, error) {
	var collection models.Collection
	if err := s.collectionsCollection.FindOne(ctx, bson.M{"_id": collectionID}).Decode(&collection); err != nil {
		return nil, fmt.Errorf("collection not found: %v", err)
	}

	detail := &CollectionDetail{Collection: collection}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.resourcesCollection.Find(ctx, bson.M{"collectionId": collectionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve resources: %v", err)
	}
	if err := cursor.All(ctx, &detail.Resources); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %v", err)
	}

	return detail, nil
}

// CollectionExists verifies the upload target before anything is stored.
func (s *KnowledgeService) CollectionExists(ctx context.Context, collectionID primitive.ObjectID) (bool, error) {
	count, err := s.collectionsCollection.CountDocuments(ctx, bson.M{"_id": collectionID})
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %v", err)
	}
	return count > 0, nil
}

// RecordResource persists the metadata of a stored object.
func (s *KnowledgeService) RecordResource(ctx context.Context, resource *models.Resource) (*models.Resource, error) {
	resource.ID = primitive.NewObjectID()
	resource.CreatedAt = time.Now()
	if _, err := s.resourcesCollection.InsertOne(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to record resource: %v", err)
	}
	return resource, nil
}
