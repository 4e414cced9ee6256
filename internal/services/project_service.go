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

const (
	minProjectPriority     = 1
	maxProjectPriority     = 5
	defaultProjectPriority = 3
)

// ProjectService handles project business logic
type ProjectService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(repos *repository.Repositories) *ProjectService {
	return &ProjectService{repos: repos, now: time.Now}
}

// ProjectDetail is a project with its task counters
type ProjectDetail struct {
	models.Project
	TasksCount          int64 `json:"tasks_count"`
	CompletedTasksCount int64 `json:"completed_tasks_count"`
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title        string
	Description  string
	Location     string
	ContactName  string
	ContactPhone string
	Priority     int
	CreatorID    uint64
}

// UpdateProjectInput represents a partial project update
type UpdateProjectInput struct {
	Title        *string
	Description  *string
	Location     *string
	ContactName  *string
	ContactPhone *string
	Status       *models.ProjectStatus
	Priority     *int
}

// List returns projects, optionally filtered by status
func (s *ProjectService) List(ctx context.Context, status *models.ProjectStatus, params utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.repos.WithContext(ctx).Projects.List(repository.ProjectFilter{
		Status:     status,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Get returns a project with its task counters
func (s *ProjectService) Get(ctx context.Context, id uint64) (*ProjectDetail, error) {
	repos := s.repos.WithContext(ctx)
	project, err := repos.Projects.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "project", id)
	}

	total, completed, err := repos.Projects.CountTasks(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count project tasks: %w", err)
	}

	return &ProjectDetail{Project: *project, TasksCount: total, CompletedTasksCount: completed}, nil
}

// Create creates a new pending project
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apierrors.NewValidation("title is required")
	}
	priority := input.Priority
	if priority == 0 {
		priority = defaultProjectPriority
	}
	if err := checkPriority(priority); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:        title,
		Description:  input.Description,
		Location:     input.Location,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		Status:       models.ProjectStatusPending,
		Priority:     priority,
		CreatedByID:  input.CreatorID,
	}
	if err := s.repos.WithContext(ctx).Projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// Update applies a partial update; moving to completed stamps completed_at
func (s *ProjectService) Update(ctx context.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	repos := s.repos.WithContext(ctx)
	project, err := repos.Projects.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "project", id)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apierrors.NewValidation("title cannot be empty")
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Location != nil {
		project.Location = *input.Location
	}
	if input.ContactName != nil {
		project.ContactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		project.ContactPhone = *input.ContactPhone
	}
	if input.Priority != nil {
		if err := checkPriority(*input.Priority); err != nil {
			return nil, err
		}
		project.Priority = *input.Priority
	}
	if input.Status != nil && *input.Status != project.Status {
		if *input.Status == models.ProjectStatusCompleted {
			now := s.now()
			project.CompletedAt = &now
		}
		project.Status = *input.Status
	}

	if err := repos.Projects.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete removes a project that has no tasks
func (s *ProjectService) Delete(ctx context.Context, id uint64) error {
	return s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Projects.FindByID(id); err != nil {
			return lookupError(err, "project", id)
		}

		total, _, err := tx.Projects.CountTasks(id)
		if err != nil {
			return fmt.Errorf("failed to count project tasks: %w", err)
		}
		if total > 0 {
			return apierrors.NewConflict("project %d still has %d tasks", id, total)
		}

		if err := tx.Projects.Delete(id); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
}

// ListTeams returns the teams linked to a project
func (s *ProjectService) ListTeams(ctx context.Context, id uint64) ([]models.ProjectTeam, error) {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Projects.FindByID(id); err != nil {
		return nil, lookupError(err, "project", id)
	}

	links, err := repos.Projects.ListTeams(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list project teams: %w", err)
	}
	return links, nil
}

// AddTeam links a team to a project
func (s *ProjectService) AddTeam(ctx context.Context, projectID, teamID uint64) (*models.ProjectTeam, error) {
	var link *models.ProjectTeam
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Projects.FindByID(projectID); err != nil {
			return lookupError(err, "project", projectID)
		}
		team, err := tx.Teams.FindByID(teamID)
		if err != nil {
			return referenceError(err, "team", teamID)
		}

		if _, err := tx.Projects.FindTeamLink(projectID, teamID); err == nil {
			return apierrors.NewConflict("team %d already works on project %d", teamID, projectID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check project team: %w", err)
		}

		link = &models.ProjectTeam{ProjectID: projectID, TeamID: teamID, AssignedAt: s.now()}
		if err := tx.Projects.AddTeam(link); err != nil {
			return fmt.Errorf("failed to add project team: %w", err)
		}
		link.Team = *team
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// RemoveTeam unlinks a team from a project
func (s *ProjectService) RemoveTeam(ctx context.Context, projectID, teamID uint64) error {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Projects.FindTeamLink(projectID, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewNotFound("team %d is not linked to project %d", teamID, projectID)
		}
		return fmt.Errorf("failed to find project team: %w", err)
	}

	if err := repos.Projects.RemoveTeam(projectID, teamID); err != nil {
		return fmt.Errorf("failed to remove project team: %w", err)
	}
	return nil
}

func checkPriority(priority int) error {
	if priority < minProjectPriority || priority > maxProjectPriority {
		return apierrors.NewValidation("priority must be between %d and %d", minProjectPriority, maxProjectPriority)
	}
	return nil
}
