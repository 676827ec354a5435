package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
)

// TaskService owns task reads and the mutation + notification pipeline.
type TaskService struct {
	tasksCollection      *mongo.Collection
	milestonesCollection *mongo.Collection
	servicesCollection   *mongo.Collection
	profilesCollection   *mongo.Collection
	notifier             *NotificationService
}

func NewTaskService(db *mongo.Database, notifier *NotificationService) *TaskService {
	return &TaskService{
		tasksCollection:      db.Collection("tasks"),
		milestonesCollection: db.Collection("milestones"),
		servicesCollection:   db.Collection("services"),
		profilesCollection:   db.Collection("profiles"),
		notifier:             notifier,
	}
}

// TaskUpdate carries the mutable task fields. Nil pointers mean "unchanged".
type TaskUpdate struct {
	Title          *string              `json:"title,omitempty"`
	Description    *string              `json:"description,omitempty"`
	Status         *models.TaskStatus   `json:"status,omitempty"`
	Priority       *models.TaskPriority `json:"priority,omitempty"`
	Visibility     *string              `json:"visibility,omitempty"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	EstimatedHours *float64             `json:"estimatedHours,omitempty"`
	ActualHours    *float64             `json:"actualHours,omitempty"`
	AssigneeID     *primitive.ObjectID  `json:"assigneeId,omitempty"`
	ClearAssignee  bool                 `json:"clearAssignee,omitempty"`
}

func (s *TaskService) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	var milestone models.Milestone
	if err := s.milestonesCollection.FindOne(ctx, bson.M{"_id": task.MilestoneID}).Decode(&milestone); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("failed to look up milestone: %v", err)
	}

	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Visibility == "" {
		task.Visibility = models.VisibilityTeam
	}
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()

	if _, err := s.tasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	// A task created with an assignee counts as an assignment change.
	if task.AssigneeID != nil {
		s.notifyAssignment(ctx, task)
	}

	return task, nil
}

// UpdateTask performs the single atomic write and, only when the assignee
// actually changed value, fires one best-effort notification. The write's
// result is returned to the caller regardless of the notification outcome.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, update TaskUpdate) (*models.Task, error) {
	// Read the pre-mutation state of the watched field.
	var current models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&current); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to look up task: %v", err)
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.Visibility != nil {
		set["visibility"] = *update.Visibility
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}
	if update.EstimatedHours != nil {
		set["estimatedHours"] = *update.EstimatedHours
	}
	if update.ActualHours != nil {
		set["actualHours"] = *update.ActualHours
	}
	assigneeTouched := false
	if update.ClearAssignee {
		set["assigneeId"] = nil
		assigneeTouched = true
	} else if update.AssigneeID != nil {
		set["assigneeId"] = *update.AssigneeID
		assigneeTouched = true
	}
	if len(set) == 0 {
		return &current, nil
	}

	result, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrTaskNotFound
	}

	var updated models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to retrieve updated task: %v", err)
	}

	if assigneeTouched && AssigneeChanged(current.AssigneeID, updated.AssigneeID) && updated.AssigneeID != nil {
		s.notifyAssignment(ctx, &updated)
	}

	return &updated, nil
}

// AssignTask reassigns a task. Passing nil clears the assignee.
func (s *TaskService) AssignTask(ctx context.Context, taskID primitive.ObjectID, assigneeID *primitive.ObjectID) (*models.Task, error) {
	update := TaskUpdate{AssigneeID: assigneeID, ClearAssignee: assigneeID == nil}
	return s.UpdateTask(ctx, taskID, update)
}

// notifyAssignment enqueues exactly one "task assigned" dispatch. Any failure
// here is logged and swallowed; the mutation already succeeded.
func (s *TaskService) notifyAssignment(ctx context.Context, task *models.Task) {
	if s.notifier == nil || task.AssigneeID == nil {
		return
	}

	var assignee models.Profile
	if err := s.profilesCollection.FindOne(ctx, bson.M{"_id": *task.AssigneeID}).Decode(&assignee); err != nil {
		logging.Logger.Warnf("Event ID: ASSIGNEE_LOOKUP_FAILED, Description: Could not resolve assignee %s for task %s: %v", task.AssigneeID.Hex(), task.ID.Hex(), err)
		return
	}

	entry := &models.OutboxEntry{
		RecipientID:    assignee.ID,
		RecipientEmail: assignee.Email,
		Subject:        "You have been assigned a task",
		Body:           fmt.Sprintf("Task '%s' has been assigned to you.", task.Title),
		TaskID:         task.ID,
	}
	if err := s.notifier.Enqueue(ctx, entry); err != nil {
		logging.Logger.Warnf("Event ID: OUTBOX_ENQUEUE_FAILED, Description: Failed to enqueue assignment notification for task %s: %v", task.ID.Hex(), err)
		return
	}
	s.notifier.Kick()
}

// GetTaskByID returns one task.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to look up task: %v", err)
	}
	return &task, nil
}

// GetTasksForMilestone lists a milestone's tasks, newest first.
func (s *TaskService) GetTasksForMilestone(ctx context.Context, milestoneID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.tasksCollection.Find(ctx, bson.M{"milestoneId": milestoneID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

// ClientTasksPage is the composed view model for the client task page.
type ClientTasksPage struct {
	Tasks    []models.TaskView `json:"tasks"`
	Services []ServiceSummary  `json:"services"`
}

// GetTasksForClient returns only the tasks the client may see: their own
// assigned tasks plus client-visible tasks in the services they own.
func (s *TaskService) GetTasksForClient(ctx context.Context, clientID primitive.ObjectID) (*ClientTasksPage, error) {
	// The client's services and their milestones, one level each.
	svcCursor, err := s.servicesCollection.Find(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve client services: %v", err)
	}
	var ownedSvcs []models.Service
	if err := svcCursor.All(ctx, &ownedSvcs); err != nil {
		return nil, fmt.Errorf("failed to decode client services: %v", err)
	}

	owned := make(map[primitive.ObjectID]bool, len(ownedSvcs))
	ownedIDs := make([]primitive.ObjectID, 0, len(ownedSvcs))
	for _, svc := range ownedSvcs {
		owned[svc.ID] = true
		ownedIDs = append(ownedIDs, svc.ID)
	}

	msCursor, err := s.milestonesCollection.Find(ctx, bson.M{"serviceId": bson.M{"$in": ownedIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve milestones: %v", err)
	}
	var ownedMilestones []models.Milestone
	if err := msCursor.All(ctx, &ownedMilestones); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %v", err)
	}
	milestoneIDs := make([]primitive.ObjectID, 0, len(ownedMilestones))
	for _, m := range ownedMilestones {
		milestoneIDs = append(milestoneIDs, m.ID)
	}

	filter := bson.M{"$or": []bson.M{
		{"assigneeId": clientID},
		{"milestoneId": bson.M{"$in": milestoneIDs}, "visibility": models.VisibilityClient},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.tasksCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	milestones, svcs, err := s.relationsFor(ctx, tasks, ownedMilestones, ownedSvcs)
	if err != nil {
		return nil, err
	}

	views := ComposeTaskViews(tasks, milestones, svcs)
	views = FilterTasksForClient(views, clientID, owned)

	return &ClientTasksPage{
		Tasks:    views,
		Services: UniqueServices(views),
	}, nil
}

// GetAllTaskViews returns every task with its relations flattened, newest
// first, for admin and team callers.
func (s *TaskService) GetAllTaskViews(ctx context.Context) ([]models.TaskView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.tasksCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}

	milestones, svcs, err := s.relationsFor(ctx, tasks, nil, nil)
	if err != nil {
		return nil, err
	}

	return ComposeTaskViews(tasks, milestones, svcs), nil
}

// relationsFor fetches any milestones and services referenced by the tasks
// that are not already in the known sets.
func (s *TaskService) relationsFor(ctx context.Context, tasks []models.Task, knownMilestones []models.Milestone, knownSvcs []models.Service) ([]models.Milestone, []models.Service, error) {
	haveMilestone := make(map[primitive.ObjectID]bool, len(knownMilestones))
	for _, m := range knownMilestones {
		haveMilestone[m.ID] = true
	}
	var missingMilestoneIDs []primitive.ObjectID
	for _, t := range tasks {
		if !haveMilestone[t.MilestoneID] {
			haveMilestone[t.MilestoneID] = true
			missingMilestoneIDs = append(missingMilestoneIDs, t.MilestoneID)
		}
	}

	milestones := knownMilestones
	if len(missingMilestoneIDs) > 0 {
		cursor, err := s.milestonesCollection.Find(ctx, bson.M{"_id": bson.M{"$in": missingMilestoneIDs}})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to retrieve milestones: %v", err)
		}
		var fetched []models.Milestone
		if err := cursor.All(ctx, &fetched); err != nil {
			return nil, nil, fmt.Errorf("failed to decode milestones: %v", err)
		}
		milestones = append(milestones, fetched...)
	}

	haveSvc := make(map[primitive.ObjectID]bool, len(knownSvcs))
	for _, svc := range knownSvcs {
		haveSvc[svc.ID] = true
	}
	var missingSvcIDs []primitive.ObjectID
	for _, m := range milestones {
		if !haveSvc[m.ServiceID] {
			haveSvc[m.ServiceID] = true
			missingSvcIDs = append(missingSvcIDs, m.ServiceID)
		}
	}

	svcs := knownSvcs
	if len(missingSvcIDs) > 0 {
		cursor, err := s.servicesCollection.Find(ctx, bson.M{"_id": bson.M{"$in": missingSvcIDs}})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to retrieve services: %v", err)
		}
		var fetched []models.Service
		if err := cursor.All(ctx, &fetched); err != nil {
			return nil, nil, fmt.Errorf("failed to decode services: %v", err)
		}
		svcs = append(svcs, fetched...)
	}

	return milestones, svcs, nil
}
