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

// TeamService handles team and membership business logic
type TeamService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewTeamService creates a new TeamService
func NewTeamService(repos *repository.Repositories) *TeamService {
	return &TeamService{repos: repos, now: time.Now}
}

// UpdateTeamInput represents a partial team update
type UpdateTeamInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// List returns teams; inactive teams are included only when requested
func (s *TeamService) List(ctx context.Context, includeInactive bool, params utils.PaginationParams) ([]models.Team, int64, error) {
	teams, total, err := s.repos.WithContext(ctx).Teams.List(!includeInactive, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, total, nil
}

// Get returns a team with its members
func (s *TeamService) Get(ctx context.Context, id uint64) (*models.Team, error) {
	team, err := s.repos.WithContext(ctx).Teams.FindByID(id, "Members", "Members.User")
	if err != nil {
		return nil, lookupError(err, "team", id)
	}
	return team, nil
}

// Create creates a team led by its creator
func (s *TeamService) Create(ctx context.Context, actor Actor, name, description string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierrors.NewValidation("name is required")
	}

	team := &models.Team{Name: name, Description: description, IsActive: true}
	leader := &models.TeamMember{UserID: actor.ID, JoinedAt: s.now()}
	if err := s.repos.WithContext(ctx).Teams.CreateWithLeader(team, leader); err != nil {
		if errors.Is(err, repository.ErrCreateTeamLeader) {
			return nil, fmt.Errorf("failed to add team leader: %w", err)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// Update changes a team; only its leader or an admin may do so
func (s *TeamService) Update(ctx context.Context, actor Actor, id uint64, input UpdateTeamInput) (*models.Team, error) {
	repos := s.repos.WithContext(ctx)
	team, err := repos.Teams.FindByID(id)
	if err != nil {
		return nil, lookupError(err, "team", id)
	}
	if err := ensureTeamManager(repos, actor, id); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apierrors.NewValidation("name cannot be empty")
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}

	if err := repos.Teams.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// Delete removes a team without tasks, or deactivates one that has tasks
func (s *TeamService) Delete(ctx context.Context, actor Actor, id uint64) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Teams.FindByID(id); err != nil {
			return lookupError(err, "team", id)
		}
		if err := ensureTeamManager(tx, actor, id); err != nil {
			return err
		}

		var err error
		outcome, err = dependentDelete{
			entity:     "team",
			dependents: tx.Teams.CountTasks,
			deactivate: tx.Teams.Deactivate,
			remove:     tx.Teams.Delete,
		}.apply(id)
		return err
	})
	return outcome, err
}

// ListMembers returns the members of a team, leaders first
func (s *TeamService) ListMembers(ctx context.Context, id uint64) ([]models.TeamMember, error) {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Teams.FindByID(id); err != nil {
		return nil, lookupError(err, "team", id)
	}

	members, err := repos.Teams.ListMembers(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

// AddMember adds a user to a team
func (s *TeamService) AddMember(ctx context.Context, actor Actor, teamID, userID uint64, isLeader bool) (*models.TeamMember, error) {
	var member *models.TeamMember
	err := s.repos.WithContext(ctx).Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Teams.FindByID(teamID); err != nil {
			return lookupError(err, "team", teamID)
		}
		if err := ensureTeamManager(tx, actor, teamID); err != nil {
			return err
		}
		user, err := tx.Users.FindByID(userID)
		if err != nil {
			return referenceError(err, "user", userID)
		}

		if _, err := tx.Teams.FindMember(teamID, userID); err == nil {
			return apierrors.NewConflict("user %d is already a member of team %d", userID, teamID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check team member: %w", err)
		}

		member = &models.TeamMember{
			TeamID:   teamID,
			UserID:   userID,
			IsLeader: isLeader,
			JoinedAt: s.now(),
		}
		if err := tx.Teams.AddMember(member); err != nil {
			return fmt.Errorf("failed to add team member: %w", err)
		}
		member.User = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember removes a user from a team. Leaders cannot remove themselves.
func (s *TeamService) RemoveMember(ctx context.Context, actor Actor, teamID, userID uint64) error {
	repos := s.repos.WithContext(ctx)
	if _, err := repos.Teams.FindByID(teamID); err != nil {
		return lookupError(err, "team", teamID)
	}
	if err := ensureTeamManager(repos, actor, teamID); err != nil {
		return err
	}

	member, err := repos.Teams.FindMember(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewNotFound("user %d is not a member of team %d", userID, teamID)
		}
		return fmt.Errorf("failed to find team member: %w", err)
	}
	if member.IsLeader && userID == actor.ID {
		return apierrors.NewConflict("team leader cannot remove themself")
	}

	if err := repos.Teams.RemoveMember(teamID, userID); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return nil
}

// ensureTeamManager allows admins and leaders of the team
func ensureTeamManager(repos *repository.Repositories, actor Actor, teamID uint64) error {
	if actor.IsAdmin() {
		return nil
	}

	member, err := repos.Teams.FindMember(teamID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewForbidden("only the team leader or an admin can manage team %d", teamID)
		}
		return fmt.Errorf("failed to check team leader: %w", err)
	}
	if !member.IsLeader {
		return apierrors.NewForbidden("only the team leader or an admin can manage team %d", teamID)
	}
	return nil
}
