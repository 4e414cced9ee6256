package dto

import (
	"time"

	"github.com/xinwork/repair-order-api/internal/models"
)

// TeamRequest represents a new team
type TeamRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// UpdateTeamRequest represents a partial team update
type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// TeamMemberRequest adds a user to a team
type TeamMemberRequest struct {
	UserID   uint64 `json:"user_id" binding:"required"`
	IsLeader bool   `json:"is_leader"`
}

// TeamMemberDTO represents a team member
type TeamMemberDTO struct {
	User     UserSummaryDTO `json:"user"`
	IsLeader bool           `json:"is_leader"`
	JoinedAt time.Time      `json:"joined_at"`
}

// TeamDetailDTO is a team with its members
type TeamDetailDTO struct {
	models.Team
	Members []TeamMemberDTO `json:"members"`
}

// ToTeamMemberDTO converts a membership loaded with its user
func ToTeamMemberDTO(m models.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{User: ToUserSummaryDTO(m.User), IsLeader: m.IsLeader, JoinedAt: m.JoinedAt}
}

// ToTeamMemberDTOs converts a slice of memberships
func ToTeamMemberDTOs(members []models.TeamMember) []TeamMemberDTO {
	out := make([]TeamMemberDTO, len(members))
	for i, m := range members {
		out[i] = ToTeamMemberDTO(m)
	}
	return out
}

// ToTeamDetailDTO converts a team loaded with its members
func ToTeamDetailDTO(team models.Team) TeamDetailDTO {
	return TeamDetailDTO{Team: team, Members: ToTeamMemberDTOs(team.Members)}
}
