package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves the task columns without touching associations
	Update(task *models.Task) error

	// Delete removes a task together with its line items and workers
	Delete(id uint64) error

	// DeleteLineItems removes every material and work item line of a task
	DeleteLineItems(taskID uint64) error

	// CreateMaterialLines inserts material line items
	CreateMaterialLines(lines []models.TaskMaterial) error

	// CreateWorkItemLines inserts work item line items
	CreateWorkItemLines(lines []models.TaskWorkItem) error

	// AddWorker adds a worker to a task
	AddWorker(worker *models.TaskWorker) error

	// RemoveWorker removes a worker from a task
	RemoveWorker(taskID, userID uint64) error

	// FindWorker finds a specific task worker row
	FindWorker(taskID, userID uint64) (*models.TaskWorker, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status       *models.TaskStatus
	ProjectID    *uint64
	TeamID       *uint64
	AssignedToID *uint64
	// WorkerID matches tasks assigned to the user directly or through a worker row
	WorkerID   *uint64
	Pagination utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with filtering and pagination
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project and its team links
	Delete(id uint64) error

	// CountTasks returns the total and completed task counts of a project
	CountTasks(projectID uint64) (total int64, completed int64, err error)

	// AddTeam links a team to a project
	AddTeam(link *models.ProjectTeam) error

	// RemoveTeam unlinks a team from a project
	RemoveTeam(projectID, teamID uint64) error

	// FindTeamLink finds a specific project team link
	FindTeamLink(projectID, teamID uint64) (*models.ProjectTeam, error)

	// ListTeams lists the team links of a project with teams preloaded
	ListTeams(projectID uint64) ([]models.ProjectTeam, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status     *models.ProjectStatus
	Pagination utils.PaginationParams
}

// MaterialRepository defines the interface for material catalog access
type MaterialRepository interface {
	// Create creates a new material
	Create(material *models.Material) error

	// FindByID finds a material by ID
	FindByID(id uint64) (*models.Material, error)

	// FindByIDs returns the materials with the given IDs keyed by ID
	FindByIDs(ids []uint64) (map[uint64]models.Material, error)

	// ExistingCodes returns which of the given codes are already used
	ExistingCodes(codes []string) ([]string, error)

	// List retrieves materials with filtering and pagination
	List(filter MaterialFilter) ([]models.Material, int64, error)

	// Update updates a material
	Update(material *models.Material) error

	// Delete removes a material row
	Delete(id uint64) error

	// Deactivate marks a material inactive
	Deactivate(id uint64) error

	// CountUsages counts the task line items referencing a material
	CountUsages(id uint64) (int64, error)
}

// MaterialFilter holds filtering options for listing materials
type MaterialFilter struct {
	IsActive   *bool
	Category   string
	SupplyType *models.SupplyType
	Code       string
	Name       string
	Pagination utils.PaginationParams
}

// WorkItemRepository defines the interface for work item catalog access
type WorkItemRepository interface {
	// Create creates a new work item
	Create(item *models.WorkItem) error

	// FindByID finds a work item by ID
	FindByID(id uint64) (*models.WorkItem, error)

	// FindByIDs returns the work items with the given IDs keyed by ID
	FindByIDs(ids []uint64) (map[uint64]models.WorkItem, error)

	// ExistingProjectNumbers returns which of the given project numbers are already used
	ExistingProjectNumbers(numbers []string) ([]string, error)

	// List retrieves work items with filtering and pagination
	List(filter WorkItemFilter) ([]models.WorkItem, int64, error)

	// Update updates a work item
	Update(item *models.WorkItem) error

	// Delete removes a work item row
	Delete(id uint64) error

	// Deactivate marks a work item inactive
	Deactivate(id uint64) error

	// CountUsages counts the task line items referencing a work item
	CountUsages(id uint64) (int64, error)
}

// WorkItemFilter holds filtering options for listing work items
type WorkItemFilter struct {
	IsActive      *bool
	Category      *models.WorkItemCategory
	ProjectNumber string
	Name          string
	Pagination    utils.PaginationParams
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// CreateWithLeader creates a team and its leader membership in one transaction
	CreateWithLeader(team *models.Team, leader *models.TeamMember) error

	// FindByID finds a team by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Team, error)

	// List retrieves teams with pagination
	List(activeOnly bool, params utils.PaginationParams) ([]models.Team, int64, error)

	// Update updates a team
	Update(team *models.Team) error

	// Delete removes a team with its members and project links
	Delete(id uint64) error

	// Deactivate marks a team inactive
	Deactivate(id uint64) error

	// CountTasks counts the tasks handled by a team
	CountTasks(id uint64) (int64, error)

	// AddMember adds a member to a team
	AddMember(member *models.TeamMember) error

	// RemoveMember removes a member from a team
	RemoveMember(teamID, userID uint64) error

	// FindMember finds a specific team member
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// ListMembers lists the members of a team with users preloaded
	ListMembers(teamID uint64) ([]models.TeamMember, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ExistingUsernames returns which of the given usernames are already used
	ExistingUsernames(usernames []string) ([]string, error)

	// ExistingEmails returns which of the given emails are already used
	ExistingEmails(emails []string) ([]string, error)

	// List retrieves users with filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user row
	Delete(id uint64) error

	// Deactivate marks a user inactive
	Deactivate(id uint64) error

	// CountDependents counts projects, tasks and memberships referencing a user
	CountDependents(id uint64) (int64, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       *models.Role
	IsActive   *bool
	Pagination utils.PaginationParams
}

// StatisticsRepository runs the read-only aggregate queries behind the statistics endpoints
type StatisticsRepository interface {
	// ProjectStatusCounts counts projects created in the window per status
	ProjectStatusCounts(window TimeWindow) (map[models.ProjectStatus]int64, error)

	// TaskStatusCounts counts tasks created in the window per status
	TaskStatusCounts(window TimeWindow) (map[models.TaskStatus]int64, error)

	// CompletionDurations returns created->completed durations of tasks created in the window
	CompletionDurations(window TimeWindow) ([]time.Duration, error)

	// MaterialCostTotals sums material line items of tasks completed in the window
	MaterialCostTotals(window TimeWindow) (MaterialTotals, error)

	// WorkItemCostTotal sums work item line items of tasks completed in the window
	WorkItemCostTotal(window TimeWindow) (decimal.Decimal, error)

	// TopMaterials ranks materials by quantity used on tasks completed in the window
	TopMaterials(window TimeWindow, limit int) ([]UsageRow, error)

	// TopWorkItems ranks work items by quantity used on tasks completed in the window
	TopWorkItems(window TimeWindow, limit int) ([]UsageRow, error)

	// TeamPerformance reports task counts, income and size of every active team
	TeamPerformance(window TimeWindow) ([]TeamRow, error)
}

// TimeWindow is a half-open [Start, End) interval
type TimeWindow struct {
	Start time.Time
	End   time.Time
}
