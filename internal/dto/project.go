package dto

// ProjectRequest represents a new project
type ProjectRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	Location     string `json:"location" binding:"max=255"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactPhone string `json:"contact_phone" binding:"max=30"`
	Priority     int    `json:"priority"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	ContactName  *string `json:"contact_name"`
	ContactPhone *string `json:"contact_phone"`
	Status       *string `json:"status"`
	Priority     *int    `json:"priority"`
}

// ProjectTeamRequest links a team to a project
type ProjectTeamRequest struct {
	TeamID uint64 `json:"team_id" binding:"required"`
}
