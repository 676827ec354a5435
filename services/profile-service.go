package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

// ProfileService manages identity records. Credential handling is delegated
// to the platform's auth service; this layer only stores profile shapes.
type ProfileService struct {
	profilesCollection       *mongo.Collection
	clientProfilesCollection *mongo.Collection
}

func NewProfileService(db *mongo.Database) *ProfileService {
	return &ProfileService{
		profilesCollection:       db.Collection("profiles"),
		clientProfilesCollection: db.Collection("client_profiles"),
	}
}

// EnrollProfile creates a profile at signup. When the role is client, the 1:1
// client_profiles extension is created automatically.
func (s *ProfileService) EnrollProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	if !profile.Role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", profile.Role)
	}

	var existing models.Profile
	if err := s.profilesCollection.FindOne(ctx, bson.M{"email": profile.Email}).Decode(&existing); err == nil {
		return nil, fmt.Errorf("profile with email already exists")
	}

	profile.Email = html.EscapeString(profile.Email)
	profile.FirstName = html.EscapeString(profile.FirstName)
	profile.LastName = html.EscapeString(profile.LastName)
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	if _, err := s.profilesCollection.InsertOne(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %v", err)
	}

	if profile.Role == models.RoleClient {
		extension := models.ClientProfile{
			ID:        primitive.NewObjectID(),
			ProfileID: profile.ID,
			CreatedAt: time.Now(),
		}
		if _, err := s.clientProfilesCollection.InsertOne(ctx, extension); err != nil {
			return nil, fmt.Errorf("failed to create client profile: %v", err)
		}
	}

	return profile, nil
}

func (s *ProfileService) GetProfileByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.profilesCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile); err != nil {
		return nil, fmt.Errorf("profile not found: %v", err)
	}
	return &profile, nil
}

func (s *ProfileService) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.profilesCollection.FindOne(ctx, bson.M{"email": email}).Decode(&profile); err != nil {
		return nil, fmt.Errorf("profile not found: %v", err)
	}
	return &profile, nil
}

// UpdateRole changes a profile's role. Only admin routes reach this; a user
// can never change their own role.
func (s *ProfileService) UpdateRole(ctx context.Context, profileID primitive.ObjectID, role models.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}

	result, err := s.profilesCollection.UpdateOne(ctx, bson.M{"_id": profileID}, bson.M{
		"$set": bson.M{"role": role, "updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update role: %v", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("profile not found")
	}

	// A profile promoted to client gains the extension record if missing.
	if role == models.RoleClient {
		var extension models.ClientProfile
		err := s.clientProfilesCollection.FindOne(ctx, bson.M{"profileId": profileID}).Decode(&extension)
		if err == mongo.ErrNoDocuments {
			extension = models.ClientProfile{
				ID:        primitive.NewObjectID(),
				ProfileID: profileID,
				CreatedAt: time.Now(),
			}
			if _, err := s.clientProfilesCollection.InsertOne(ctx, extension); err != nil {
				return fmt.Errorf("failed to create client profile: %v", err)
			}
		}
	}

	return nil
}
