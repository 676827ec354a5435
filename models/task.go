package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Task visibility values. "client" marks a task visible to the owning client
// even when not assigned to them.
const (
	VisibilityTeam   = "team"
	VisibilityClient = "client"
)

// Task belongs to exactly one Milestone.
type Task struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MilestoneID    primitive.ObjectID  `bson:"milestoneId" json:"milestoneId"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description" json:"description"`
	AssigneeID     *primitive.ObjectID `bson:"assigneeId,omitempty" json:"assigneeId,omitempty"`
	Status         TaskStatus          `bson:"status" json:"status"`
	Priority       TaskPriority        `bson:"priority" json:"priority"`
	Visibility     string              `bson:"visibility" json:"visibility"`
	DueDate        *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	EstimatedHours float64             `bson:"estimatedHours,omitempty" json:"estimatedHours,omitempty"`
	ActualHours    float64             `bson:"actualHours,omitempty" json:"actualHours,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// TaskView is the flattened, role-appropriate shape served to pages: the task
// plus the names of its milestone and owning service collapsed onto it.
type TaskView struct {
	Task
	MilestoneTitle string             `json:"milestoneTitle"`
	ServiceID      primitive.ObjectID `json:"serviceId"`
	ServiceName    string             `json:"serviceName"`
}
