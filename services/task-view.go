package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/models"
)

// ComposeTaskViews flattens milestone and service fields onto each task. A
// task whose milestone or service is missing from the fetched sets keeps
// empty view fields rather than being dropped.
func ComposeTaskViews(tasks []models.Task, milestones []models.Milestone, svcs []models.Service) []models.TaskView {
	milestonesByID := make(map[primitive.ObjectID]models.Milestone, len(milestones))
	for _, m := range milestones {
		milestonesByID[m.ID] = m
	}
	servicesByID := make(map[primitive.ObjectID]models.Service, len(svcs))
	for _, s := range svcs {
		servicesByID[s.ID] = s
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := models.TaskView{Task: t}
		if m, ok := milestonesByID[t.MilestoneID]; ok {
			view.MilestoneTitle = m.Title
			if s, ok := servicesByID[m.ServiceID]; ok {
				view.ServiceID = s.ID
				view.ServiceName = s.Name
			}
		}
		views = append(views, view)
	}
	return views
}

// VisibleToClient reports whether a client caller may see the task: either it
// is assigned to them, or it is client-visible and belongs to one of their
// services.
func VisibleToClient(view models.TaskView, clientID primitive.ObjectID, ownedServices map[primitive.ObjectID]bool) bool {
	if view.AssigneeID != nil && *view.AssigneeID == clientID {
		return true
	}
	return view.Visibility == models.VisibilityClient && ownedServices[view.ServiceID]
}

// FilterTasksForClient keeps only the tasks the client may see.
func FilterTasksForClient(views []models.TaskView, clientID primitive.ObjectID, ownedServices map[primitive.ObjectID]bool) []models.TaskView {
	filtered := make([]models.TaskView, 0, len(views))
	for _, v := range views {
		if VisibleToClient(v, clientID, ownedServices) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// ServiceSummary is the de-duplicated service reference derived from a task
// page's result set.
type ServiceSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// UniqueServices scans the fetched set once and de-duplicates the services
// represented among the tasks, preserving first-seen order.
func UniqueServices(views []models.TaskView) []ServiceSummary {
	seen := make(map[primitive.ObjectID]bool, len(views))
	var summaries []ServiceSummary
	for _, v := range views {
		if v.ServiceID.IsZero() || seen[v.ServiceID] {
			continue
		}
		seen[v.ServiceID] = true
		summaries = append(summaries, ServiceSummary{ID: v.ServiceID, Name: v.ServiceName})
	}
	return summaries
}

// AssigneeChanged reports whether the watched assignee field actually changed
// value between the pre-mutation and post-mutation states. Reassigning a task
// to its current assignee is not a change.
func AssigneeChanged(old, new *primitive.ObjectID) bool {
	if old == nil && new == nil {
		return false
	}
	if old == nil || new == nil {
		return true
	}
	return *old != *new
}
