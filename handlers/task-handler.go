package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filenamedotexe/agency-os-sub006/logging"
	"github.com/filenamedotexe/agency-os-sub006/models"
	"github.com/filenamedotexe/agency-os-sub006/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if task.Title == "" || task.MilestoneID.IsZero() {
		respondError(w, http.StatusBadRequest, "title and milestoneId are required")
		return
	}

	created, err := h.service.CreateTask(r.Context(), &task)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_CREATE_FAILED, Description: Failed to create task: %v", err)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var update services.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.service.UpdateTask(r.Context(), taskID, update)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_UPDATE_FAILED, Description: Failed to update task %s: %v", taskID.Hex(), err)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// AssignTask reassigns a task. A null assigneeId clears the assignment.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req struct {
		AssigneeID *string `json:"assigneeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var assigneeID *primitive.ObjectID
	if req.AssigneeID != nil {
		id, err := primitive.ObjectIDFromHex(*req.AssigneeID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid assignee ID format")
			return
		}
		assigneeID = &id
	}

	updated, err := h.service.AssignTask(r.Context(), taskID, assigneeID)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_ASSIGN_FAILED, Description: Failed to assign task %s: %v", taskID.Hex(), err)
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.GetAllTaskViews(r.Context())
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_LIST_FAILED, Description: Failed to list tasks: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, views)
}
