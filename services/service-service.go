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

// ServiceService manages client services and their milestones.
type ServiceService struct {
	servicesCollection       *mongo.Collection
	milestonesCollection     *mongo.Collection
	profilesCollection       *mongo.Collection
	clientProfilesCollection *mongo.Collection
}

func NewServiceService(db *mongo.Database) *ServiceService {
	return &ServiceService{
		servicesCollection:       db.Collection("services"),
		milestonesCollection:     db.Collection("milestones"),
		profilesCollection:       db.Collection("profiles"),
		clientProfilesCollection: db.Collection("client_profiles"),
	}
}

func (s *ServiceService) CreateService(ctx context.Context, svc *models.Service) (*models.Service, error) {
	var client models.Profile
	if err := s.profilesCollection.FindOne(ctx, bson.M{"_id": svc.ClientID, "role": models.RoleClient}).Decode(&client); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to look up client: %v", err)
	}

	if svc.Status == "" {
		svc.Status = models.ServicePlanning
	}
	svc.ID = primitive.NewObjectID()
	svc.CreatedAt = time.Now()

	if _, err := s.servicesCollection.InsertOne(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %v", err)
	}
	return svc, nil
}

// GetAllServices lists services newest first.
func (s *ServiceService) GetAllServices(ctx context.Context) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.servicesCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve services: %v", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %v", err)
	}
	return services, nil
}

// ServiceDetail is the service page view model: the service, its client's
// name, and its milestones in display order.
type ServiceDetail struct {
	models.Service
	ClientName string             `json:"clientName"`
	Milestones []models.Milestone `json:"milestones"`
}

func (s *ServiceService) GetServiceByID(ctx context.Context, serviceID primitive.ObjectID) (*ServiceDetail, error) {
	var svc models.Service
	if err := s.servicesCollection.FindOne(ctx, bson.M{"_id": serviceID}).Decode(&svc); err != nil {
		return nil, fmt.Errorf("service not found: %v", err)
	}

	detail := &ServiceDetail{Service: svc}

	var client models.Profile
	if err := s.profilesCollection.FindOne(ctx, bson.M{"_id": svc.ClientID}).Decode(&client); err == nil {
		detail.ClientName = client.FirstName + " " + client.LastName
	}

	opts := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})
	cursor, err := s.milestonesCollection.Find(ctx, bson.M{"serviceId": serviceID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve milestones: %v", err)
	}
	if err := cursor.All(ctx, &detail.Milestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %v", err)
	}

	return detail, nil
}

// DeleteService removes a service. The admin-only restriction is enforced at
// the route layer.
func (s *ServiceService) DeleteService(ctx context.Context, serviceID primitive.ObjectID) error {
	result, err := s.servicesCollection.DeleteOne(ctx, bson.M{"_id": serviceID})
	if err != nil {
		return fmt.Errorf("failed to delete service: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrServiceNotFound
	}
	return nil
}

// CreateMilestone appends a milestone at the end of the service's display
// order.
func (s *ServiceService) CreateMilestone(ctx context.Context, milestone *models.Milestone) (*models.Milestone, error) {
	var svc models.Service
	if err := s.servicesCollection.FindOne(ctx, bson.M{"_id": milestone.ServiceID}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to look up service: %v", err)
	}

	count, err := s.milestonesCollection.CountDocuments(ctx, bson.M{"serviceId": milestone.ServiceID})
	if err != nil {
		return nil, fmt.Errorf("failed to count milestones: %v", err)
	}

	if milestone.Status == "" {
		milestone.Status = models.MilestonePending
	}
	milestone.ID = primitive.NewObjectID()
	milestone.OrderIndex = int(count)
	milestone.CreatedAt = time.Now()

	if _, err := s.milestonesCollection.InsertOne(ctx, milestone); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %v", err)
	}
	return milestone, nil
}

// ClientView joins a client profile with its extension record for the
// clients list.
type ClientView struct {
	models.Profile
	CompanyName string `json:"companyName,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// GetClients lists client profiles newest first, joined with their
// client_profiles extensions.
func (s *ServiceService) GetClients(ctx context.Context) ([]ClientView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.profilesCollection.Find(ctx, bson.M{"role": models.RoleClient}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve clients: %v", err)
	}
	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %v", err)
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	extCursor, err := s.clientProfilesCollection.Find(ctx, bson.M{"profileId": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve client profiles: %v", err)
	}
	var extensions []models.ClientProfile
	if err := extCursor.All(ctx, &extensions); err != nil {
		return nil, fmt.Errorf("failed to decode client profiles: %v", err)
	}
	extByProfile := make(map[primitive.ObjectID]models.ClientProfile, len(extensions))
	for _, e := range extensions {
		extByProfile[e.ProfileID] = e
	}

	views := make([]ClientView, 0, len(profiles))
	for _, p := range profiles {
		view := ClientView{Profile: p}
		if e, ok := extByProfile[p.ID]; ok {
			view.CompanyName = e.CompanyName
			view.Phone = e.Phone
		}
		views = append(views, view)
	}
	return views, nil
}
