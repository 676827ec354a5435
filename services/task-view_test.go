package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

func TestComposeTaskViewsFlattensRelations(t *testing.T) {
	serviceID := primitive.NewObjectID()
	milestoneID := primitive.NewObjectID()

	svcs := []models.Service{{ID: serviceID, Name: "Website Redesign"}}
	milestones := []models.Milestone{{ID: milestoneID, ServiceID: serviceID, Title: "Discovery"}}
	tasks := []models.Task{{ID: primitive.NewObjectID(), MilestoneID: milestoneID, Title: "Kickoff call"}}

	views := ComposeTaskViews(tasks, milestones, svcs)
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].MilestoneTitle != "Discovery" {
		t.Fatalf("expected milestone title flattened, got %q", views[0].MilestoneTitle)
	}
	if views[0].ServiceID != serviceID || views[0].ServiceName != "Website Redesign" {
		t.Fatalf("expected service fields flattened, got %s %q", views[0].ServiceID.Hex(), views[0].ServiceName)
	}
}

func TestComposeTaskViewsKeepsTaskWithMissingRelations(t *testing.T) {
	tasks := []models.Task{{ID: primitive.NewObjectID(), MilestoneID: primitive.NewObjectID(), Title: "Orphan"}}

	views := ComposeTaskViews(tasks, nil, nil)
	if len(views) != 1 {
		t.Fatalf("expected orphan task kept, got %d views", len(views))
	}
	if views[0].MilestoneTitle != "" || views[0].ServiceName != "" {
		t.Fatalf("expected empty view fields for orphan, got %q %q", views[0].MilestoneTitle, views[0].ServiceName)
	}
}

func TestVisibleToClient(t *testing.T) {
	clientID := primitive.NewObjectID()
	teamMemberID := primitive.NewObjectID()
	ownedServiceID := primitive.NewObjectID()
	foreignServiceID := primitive.NewObjectID()
	owned := map[primitive.ObjectID]bool{ownedServiceID: true}

	view := func(assignee *primitive.ObjectID, visibility string, serviceID primitive.ObjectID) models.TaskView {
		return models.TaskView{
			Task:      models.Task{AssigneeID: assignee, Visibility: visibility},
			ServiceID: serviceID,
		}
	}

	tests := []struct {
		name string
		view models.TaskView
		want bool
	}{
		{"assigned to client", view(&clientID, models.VisibilityTeam, ownedServiceID), true},
		{"assigned to client on foreign service", view(&clientID, models.VisibilityTeam, foreignServiceID), true},
		{"team task assigned to someone else stays hidden", view(&teamMemberID, models.VisibilityTeam, ownedServiceID), false},
		{"same task becomes visible when flipped to client visibility", view(&teamMemberID, models.VisibilityClient, ownedServiceID), true},
		{"client-visible task on foreign service stays hidden", view(nil, models.VisibilityClient, foreignServiceID), false},
		{"unassigned team task on owned service stays hidden", view(nil, models.VisibilityTeam, ownedServiceID), false},
		{"unassigned client-visible task on owned service", view(nil, models.VisibilityClient, ownedServiceID), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleToClient(tt.view, clientID, owned); got != tt.want {
				t.Fatalf("VisibleToClient = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterTasksForClient(t *testing.T) {
	clientID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	serviceID := primitive.NewObjectID()
	owned := map[primitive.ObjectID]bool{serviceID: true}

	views := []models.TaskView{
		{Task: models.Task{Title: "mine", AssigneeID: &clientID}},
		{Task: models.Task{Title: "theirs", AssigneeID: &otherID, Visibility: models.VisibilityTeam}, ServiceID: serviceID},
		{Task: models.Task{Title: "shared", Visibility: models.VisibilityClient}, ServiceID: serviceID},
	}

	filtered := FilterTasksForClient(views, clientID, owned)
	if len(filtered) != 2 {
		t.Fatalf("expected 2 visible tasks, got %d", len(filtered))
	}
	if filtered[0].Title != "mine" || filtered[1].Title != "shared" {
		t.Fatalf("unexpected filter result: %q, %q", filtered[0].Title, filtered[1].Title)
	}
}

func TestUniqueServicesDeduplicatesInFirstSeenOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	views := []models.TaskView{
		{ServiceID: first, ServiceName: "Alpha"},
		{ServiceID: second, ServiceName: "Beta"},
		{ServiceID: first, ServiceName: "Alpha"},
		{},
	}

	summaries := UniqueServices(views)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != first || summaries[1].ID != second {
		t.Fatal("expected first-seen order preserved")
	}
}

func TestAssigneeChanged(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	aCopy := a

	tests := []struct {
		name     string
		old, new *primitive.ObjectID
		want     bool
	}{
		{"both unassigned", nil, nil, false},
		{"newly assigned", nil, &a, true},
		{"cleared", &a, nil, true},
		{"reassigned", &a, &b, true},
		{"same assignee written again", &a, &aCopy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssigneeChanged(tt.old, tt.new); got != tt.want {
				t.Fatalf("AssigneeChanged = %v, want %v", got, tt.want)
			}
		})
	}
}
