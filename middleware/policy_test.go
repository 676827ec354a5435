package middleware

import (
	"testing"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

func TestAllowedMatchesAccessMatrix(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		resource Resource
		want     bool
	}{
		{"admin sees services", models.RoleAdmin, ResourceServices, true},
		{"team member sees services", models.RoleTeamMember, ResourceServices, true},
		{"client never sees services", models.RoleClient, ResourceServices, false},
		{"client never sees clients list", models.RoleClient, ResourceClients, false},
		{"client sees own tasks", models.RoleClient, ResourceClientTasks, true},
		{"admin does not use client task page", models.RoleAdmin, ResourceClientTasks, false},
		{"team member does not use client task page", models.RoleTeamMember, ResourceClientTasks, false},
		{"client never sees messages", models.RoleClient, ResourceMessages, false},
		{"team member sees messages", models.RoleTeamMember, ResourceMessages, true},
		{"client reads knowledge", models.RoleClient, ResourceKnowledgeRead, true},
		{"client never writes knowledge", models.RoleClient, ResourceKnowledgeWrite, false},
		{"team member writes knowledge", models.RoleTeamMember, ResourceKnowledgeWrite, true},
		{"only admin manages email", models.RoleTeamMember, ResourceEmailAdmin, false},
		{"admin manages email", models.RoleAdmin, ResourceEmailAdmin, true},
		{"only admin manages sms", models.RoleClient, ResourceSMSAdmin, false},
		{"admin manages sms", models.RoleAdmin, ResourceSMSAdmin, true},
		{"every role reads notifications", models.RoleClient, ResourceNotifications, true},
		{"unknown role denied everywhere", models.Role("intruder"), ResourceServices, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allowed(tt.role, tt.resource); got != tt.want {
				t.Fatalf("Allowed(%q, %q) = %v, want %v", tt.role, tt.resource, got, tt.want)
			}
		})
	}
}

func TestHomeFor(t *testing.T) {
	tests := []struct {
		role models.Role
		want string
	}{
		{models.RoleAdmin, "/admin"},
		{models.RoleTeamMember, "/team"},
		{models.RoleClient, "/client"},
		{models.Role("unknown"), "/dashboard"},
	}

	for _, tt := range tests {
		if got := HomeFor(tt.role); got != tt.want {
			t.Fatalf("HomeFor(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
