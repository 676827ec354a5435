package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeamMember Role = "team_member"
	RoleClient     Role = "client"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeamMember, RoleClient:
		return true
	}
	return false
}

// Profile is the identity record, one per auth identity. Role is set at
// signup and may only be changed by an admin afterwards.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Role      Role               `bson:"role" json:"role"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ClientProfile extends a Profile with role=client, 1:1 via ProfileID.
// Created automatically when a client profile is enrolled.
type ClientProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProfileID   primitive.ObjectID `bson:"profileId" json:"profileId"`
	CompanyName string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
