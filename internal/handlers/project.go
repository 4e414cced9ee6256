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

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns projects, optionally filtered by status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	status, ok := queryEnum(c, "status", models.ParseProjectStatus)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	projects, total, err := h.projectService.List(c.Request.Context(), status, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(projects, params, total))
}

// GetProject returns a project with its task counts
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), services.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Priority:     req.Priority,
		CreatorID:    actor.ID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	status, ok := optionalEnum(c, req.Status, models.ParseProjectStatus)
	if !ok {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), id, services.UpdateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		Status:       status,
		Priority:     req.Priority,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project that has no tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Project deleted successfully"})
}

// ListTeams returns the teams working on a project
func (h *ProjectHandler) ListTeams(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	teams, err := h.projectService.ListTeams(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// AddTeam links a team to a project
func (h *ProjectHandler) AddTeam(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ProjectTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.projectService.AddTeam(c.Request.Context(), id, req.TeamID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// RemoveTeam unlinks a team from a project
func (h *ProjectHandler) RemoveTeam(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	teamID, ok := pathID(c, "team_id")
	if !ok {
		return
	}

	if err := h.projectService.RemoveTeam(c.Request.Context(), id, teamID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Team removed from project"})
}
