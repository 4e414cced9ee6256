package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
	"github.com/xinwork/repair-order-api/internal/utils"
	"gorm.io/gorm"
)

// taskDetail is the preload set for a single task response
var taskDetail = []string{
	"Materials", "Materials.Material",
	"WorkItems", "WorkItems.WorkItem",
	"Workers", "Workers.User",
}

// TaskService handles task business logic
type TaskService struct {
	repos      *repository.Repositories
	aggregator *CostAggregator
	now        func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(repos *repository.Repositories) *TaskService {
	return &TaskService{
		repos:      repos,
		aggregator: NewCostAggregator(),
		now:        time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status       *models.TaskStatus
	ProjectID    *uint64
	TeamID       *uint64
	AssignedToID *uint64
	Pagination   utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title               string
	Description         string
	Attachment          string
	WorkList            string
	CompanyMaterialList string
	SelfMaterialList    string
	ProjectID           *uint64
	AssignedToID        *uint64
	TeamID              *uint64
	CreatorID           uint64
}

// UpdateTaskInput represents a partial task update.
// Lines, when set, replaces every line item and recomputes the costs.
type UpdateTaskInput struct {
	Title               *string
	Description         *string
	Attachment          *string
	WorkList            *string
	CompanyMaterialList *string
	SelfMaterialList    *string
	ProjectID           *uint64
	AssignedToID        *uint64
	TeamID              *uint64
	Status              *models.TaskStatus
	Lines               *LineItems
}

// List returns tasks matching the filters
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.repos.WithContext(ctx).Tasks.List(repository.TaskFilter{
		Status:       input.Status,
		ProjectID:    input.ProjectID,
		TeamID:       input.TeamID,
		AssignedToID: input.AssignedToID,
		Pagination:   input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListMine returns tasks assigned to the user directly or as a worker
func (s *TaskService) ListMine(ctx context.Context, userID uint64, status *models.TaskStatus, params utils.PaginationParams) ([]models.Task, int64, error) {
	tasks, total, err := s.repos.WithContext(ctx).Tasks.List(repository.TaskFilter{
		Status:     status,
		WorkerID:   &userID,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// Get returns a task with its line items and workers
func (s *TaskService) Get(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.repos.WithContext(ctx).Tasks.FindByID(id, taskDetail...)
	if err != nil {
		return nil, lookupError(err, "task", id)
	}
	return task, nil
}

// Create creates a new task. A task created with an assignee starts as assigned.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierrors.NewValidation("title is required")
	}

	repos := s.repos.WithContext(ctx)
	if err := checkTaskReferences(repos, input.ProjectID, input.TeamID, input.AssignedToID); err != nil {
		return nil, err
	}

	task := newTask(input, s.now())
	if err := repos.Tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Update applies a partial update. Status changes follow the task state machine;
// moving to assigned stamps assigned_at and defaults the assignee to the actor,
// moving to completed stamps completed_at.
func (s *TaskService) Update(ctx context.Context, actor Actor, id uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.Lines != nil {
		if err := s.aggregator.Validate(*input.Lines); err != nil {
			return nil, err
		}
	}

	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		task, err := tx.Tasks.FindByID(id)
		if err != nil {
			return lookupError(err, "task", id)
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return apierrors.NewValidation("title cannot be empty")
			}
			task.Title = title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Attachment != nil {
			task.Attachment = *input.Attachment
		}
		if input.WorkList != nil {
			task.WorkList = *input.WorkList
		}
		if input.CompanyMaterialList != nil {
			task.CompanyMaterialList = *input.CompanyMaterialList
		}
		if input.SelfMaterialList != nil {
			task.SelfMaterialList = *input.SelfMaterialList
		}

		if err := checkTaskReferences(tx, input.ProjectID, input.TeamID, input.AssignedToID); err != nil {
			return err
		}
		if input.ProjectID != nil {
			task.ProjectID = input.ProjectID
		}
		if input.TeamID != nil {
			task.TeamID = input.TeamID
		}
		if input.AssignedToID != nil {
			task.AssignedToID = input.AssignedToID
		}

		if input.Status != nil && *input.Status != task.Status {
			if err := s.transition(task, *input.Status, actor); err != nil {
				return err
			}
		}

		if input.Lines != nil {
			return s.aggregator.Apply(tx, task, *input.Lines, false)
		}
		if err := tx.Tasks.Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *TaskService) transition(task *models.Task, next models.TaskStatus, actor Actor) error {
	if !task.Status.CanTransitionTo(next) {
		return apierrors.NewConflict("cannot change task status from %s to %s", task.Status, next)
	}

	now := s.now()
	switch next {
	case models.TaskStatusAssigned:
		task.AssignedAt = &now
		if task.AssignedToID == nil {
			assignee := actor.ID
			task.AssignedToID = &assignee
		}
	case models.TaskStatusCompleted:
		task.CompletedAt = &now
	}
	task.Status = next
	return nil
}

// Complete replaces the task's line items, recomputes its costs and marks it completed.
// Completion is allowed from any non-terminal status.
func (s *TaskService) Complete(ctx context.Context, id uint64, lines LineItems) (*models.Task, error) {
	if err := s.aggregator.Validate(lines); err != nil {
		return nil, err
	}

	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		task, err := tx.Tasks.FindByID(id)
		if err != nil {
			return lookupError(err, "task", id)
		}

		switch task.Status {
		case models.TaskStatusCompleted:
			return apierrors.NewConflict("task already completed")
		case models.TaskStatusCancelled:
			return apierrors.NewConflict("cancelled task cannot be completed")
		}

		return s.aggregator.Apply(tx, task, lines, true)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a task with its line items and workers
func (s *TaskService) Delete(ctx context.Context, id uint64) error {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Tasks.FindByID(id); err != nil {
		return lookupError(err, "task", id)
	}

	if err := repos.Tasks.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AddWorker links a user to a task
func (s *TaskService) AddWorker(ctx context.Context, taskID, userID uint64, isPrimary bool) (*models.TaskWorker, error) {
	var worker *models.TaskWorker
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Tasks.FindByID(taskID); err != nil {
			return lookupError(err, "task", taskID)
		}
		user, err := tx.Users.FindByID(userID)
		if err != nil {
			return referenceError(err, "user", userID)
		}

		if _, err := tx.Tasks.FindWorker(taskID, userID); err == nil {
			return apierrors.NewConflict("user %d already works on task %d", userID, taskID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check task worker: %w", err)
		}

		worker = &models.TaskWorker{
			TaskID:     taskID,
			UserID:     userID,
			IsPrimary:  isPrimary,
			AssignedAt: s.now(),
		}
		if err := tx.Tasks.AddWorker(worker); err != nil {
			return fmt.Errorf("failed to add task worker: %w", err)
		}
		worker.User = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

// RemoveWorker unlinks a user from a task
func (s *TaskService) RemoveWorker(ctx context.Context, taskID, userID uint64) error {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Tasks.FindWorker(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewNotFound("user %d does not work on task %d", userID, taskID)
		}
		return fmt.Errorf("failed to find task worker: %w", err)
	}

	if err := repos.Tasks.RemoveWorker(taskID, userID); err != nil {
		return fmt.Errorf("failed to remove task worker: %w", err)
	}
	return nil
}

// checkTaskReferences verifies that every supplied foreign key exists
func checkTaskReferences(repos *repository.Repositories, projectID, teamID, assigneeID *uint64) error {
	if projectID != nil {
		if _, err := repos.Projects.FindByID(*projectID); err != nil {
			return referenceError(err, "project", *projectID)
		}
	}
	if teamID != nil {
		if _, err := repos.Teams.FindByID(*teamID); err != nil {
			return referenceError(err, "team", *teamID)
		}
	}
	if assigneeID != nil {
		if _, err := repos.Users.FindByID(*assigneeID); err != nil {
			return referenceError(err, "user", *assigneeID)
		}
	}
	return nil
}

// newTask builds a pending task, or an assigned one when an assignee is given
func newTask(input CreateTaskInput, now time.Time) *models.Task {
	task := &models.Task{
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		Attachment:          input.Attachment,
		WorkList:            input.WorkList,
		CompanyMaterialList: input.CompanyMaterialList,
		SelfMaterialList:    input.SelfMaterialList,
		ProjectID:           input.ProjectID,
		TeamID:              input.TeamID,
		AssignedToID:        input.AssignedToID,
		Status:              models.TaskStatusPending,
		CreatedByID:         input.CreatorID,
	}
	if task.AssignedToID != nil {
		task.Status = models.TaskStatusAssigned
		task.AssignedAt = &now
	}
	return task
}
