package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/dto"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/services"
	"github.com/xinwork/repair-order-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks filtered by status, project_id, team_id and assigned_to_id
func (h *TaskHandler) ListTasks(c *gin.Context) {
	status, ok := queryEnum(c, "status", models.ParseTaskStatus)
	if !ok {
		return
	}
	projectID, ok := queryID(c, "project_id")
	if !ok {
		return
	}
	teamID, ok := queryID(c, "team_id")
	if !ok {
		return
	}
	assignedToID, ok := queryID(c, "assigned_to_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.List(c.Request.Context(), services.ListTasksInput{
		Status:       status,
		ProjectID:    projectID,
		TeamID:       teamID,
		AssignedToID: assignedToID,
		Pagination:   params,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToTaskDTOs(tasks), params, total))
}

// ListMyTasks returns tasks assigned to the caller directly or as a worker
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	status, ok := queryEnum(c, "status", models.ParseTaskStatus)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	tasks, total, err := h.taskService.ListMine(c.Request.Context(), actor.ID, status, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(dto.ToTaskDTOs(tasks), params, total))
}

// GetTask returns a task with its line items and workers
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task))
}

// CreateTask creates a task owned by the caller
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), services.CreateTaskInput{
		Title:               req.Title,
		Description:         req.Description,
		Attachment:          req.Attachment,
		WorkList:            req.WorkList,
		CompanyMaterialList: req.CompanyMaterialList,
		SelfMaterialList:    req.SelfMaterialList,
		ProjectID:           req.ProjectID,
		AssignedToID:        req.AssignedToID,
		TeamID:              req.TeamID,
		CreatorID:           actor.ID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update; line items, when present, are replaced and costed
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	status, ok := optionalEnum(c, req.Status, models.ParseTaskStatus)
	if !ok {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), actor, id, services.UpdateTaskInput{
		Title:               req.Title,
		Description:         req.Description,
		Attachment:          req.Attachment,
		WorkList:            req.WorkList,
		CompanyMaterialList: req.CompanyMaterialList,
		SelfMaterialList:    req.SelfMaterialList,
		ProjectID:           req.ProjectID,
		AssignedToID:        req.AssignedToID,
		TeamID:              req.TeamID,
		Status:              status,
		Lines:               req.Lines(),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task))
}

// CompleteTask records the final line items and marks the task completed
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CompleteTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), id, dto.ToLineItems(req.Materials, req.WorkItems))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*task))
}

// DeleteTask removes a task with its line items and workers
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// AddWorker links a user to a task
func (h *TaskHandler) AddWorker(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AddWorkerRequest
	if !bindJSON(c, &req) {
		return
	}

	worker, err := h.taskService.AddWorker(c.Request.Context(), id, req.UserID, req.IsPrimary)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskWorkerDTO(*worker))
}

// RemoveWorker unlinks a user from a task
func (h *TaskHandler) RemoveWorker(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.taskService.RemoveWorker(c.Request.Context(), id, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Worker removed successfully"})
}
