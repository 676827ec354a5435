package services

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

func TestEvaluateMagicLink(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		link *models.MagicLink
		want error
	}{
		{"missing link is invalid", nil, ErrInvalidLink},
		{
			"expired link",
			&models.MagicLink{ConversationID: primitive.NewObjectID(), ExpiresAt: now.Add(-time.Minute)},
			ErrExpiredLink,
		},
		{
			"live link",
			&models.MagicLink{ConversationID: primitive.NewObjectID(), ExpiresAt: now.Add(time.Hour)},
			nil,
		},
		{
			"link expiring this instant is still valid",
			&models.MagicLink{ConversationID: primitive.NewObjectID(), ExpiresAt: now},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateMagicLink(tt.link, now); got != tt.want {
				t.Fatalf("EvaluateMagicLink = %v, want %v", got, tt.want)
			}
		})
	}
}
