package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ServiceStatus string

const (
	ServicePlanning   ServiceStatus = "planning"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceOnHold     ServiceStatus = "on_hold"
)

// Service is a unit of work for one client. Status transitions are free-form;
// deletion is restricted to admins.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Status      ServiceStatus      `bson:"status" json:"status"`
	Budget      float64            `bson:"budget" json:"budget"`
	StartDate   *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// Milestone belongs to exactly one Service. OrderIndex defines display order
// within the service.
type Milestone struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ServiceID   primitive.ObjectID `bson:"serviceId" json:"serviceId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status      MilestoneStatus    `bson:"status" json:"status"`
	OrderIndex  int                `bson:"orderIndex" json:"orderIndex"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
