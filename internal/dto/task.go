package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                  uint64            `json:"id"`
	ProjectID           *uint64           `json:"project_id"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	Attachment          string            `json:"attachment"`
	WorkList            string            `json:"work_list"`
	CompanyMaterialList string            `json:"company_material_list"`
	SelfMaterialList    string            `json:"self_material_list"`
	Status              models.TaskStatus `json:"status"`
	LaborCost           decimal.Decimal   `json:"labor_cost"`
	MaterialCost        decimal.Decimal   `json:"material_cost"`
	CompanyMaterialCost decimal.Decimal   `json:"company_material_cost"`
	SelfMaterialCost    decimal.Decimal   `json:"self_material_cost"`
	TotalCost           decimal.Decimal   `json:"total_cost"`
	CreatedByID         uint64            `json:"created_by_id"`
	AssignedToID        *uint64           `json:"assigned_to_id"`
	TeamID              *uint64           `json:"team_id"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	AssignedAt          *time.Time        `json:"assigned_at"`
	CompletedAt         *time.Time        `json:"completed_at"`
}

// TaskDetailDTO adds line items and workers to a task
type TaskDetailDTO struct {
	TaskDTO
	Materials []TaskMaterialDTO `json:"materials"`
	WorkItems []TaskWorkItemDTO `json:"work_items"`
	Workers   []TaskWorkerDTO   `json:"workers"`
}

// TaskMaterialDTO represents a material line item
type TaskMaterialDTO struct {
	ID                uint64          `json:"id"`
	MaterialID        uint64          `json:"material_id"`
	MaterialCode      string          `json:"material_code"`
	MaterialName      string          `json:"material_name"`
	Unit              string          `json:"unit"`
	Quantity          decimal.Decimal `json:"quantity"`
	IsCompanyProvided bool            `json:"is_company_provided"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalPrice        decimal.Decimal `json:"total_price"`
}

// TaskWorkItemDTO represents a labor line item
type TaskWorkItemDTO struct {
	ID            uint64          `json:"id"`
	WorkItemID    uint64          `json:"work_item_id"`
	ProjectNumber string          `json:"project_number"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// TaskWorkerDTO represents a worker on a task
type TaskWorkerDTO struct {
	User       UserSummaryDTO `json:"user"`
	IsPrimary  bool           `json:"is_primary"`
	AssignedAt time.Time      `json:"assigned_at"`
}

// CreateTaskRequest represents a new task
type CreateTaskRequest struct {
	Title               string  `json:"title" binding:"required,max=200"`
	Description         string  `json:"description"`
	Attachment          string  `json:"attachment"`
	WorkList            string  `json:"work_list"`
	CompanyMaterialList string  `json:"company_material_list"`
	SelfMaterialList    string  `json:"self_material_list"`
	ProjectID           *uint64 `json:"project_id"`
	TeamID              *uint64 `json:"team_id"`
	AssignedToID        *uint64 `json:"assigned_to_id"`
}

// UpdateTaskRequest represents a partial task update.
// Supplying materials or work_items replaces every line item of the task.
type UpdateTaskRequest struct {
	Title               *string                `json:"title"`
	Description         *string                `json:"description"`
	Attachment          *string                `json:"attachment"`
	WorkList            *string                `json:"work_list"`
	CompanyMaterialList *string                `json:"company_material_list"`
	SelfMaterialList    *string                `json:"self_material_list"`
	ProjectID           *uint64                `json:"project_id"`
	TeamID              *uint64                `json:"team_id"`
	AssignedToID        *uint64                `json:"assigned_to_id"`
	Status              *string                `json:"status"`
	Materials           *[]MaterialLineRequest `json:"materials"`
	WorkItems           *[]WorkItemLineRequest `json:"work_items"`
}

// CompleteTaskRequest carries the final line items of a task
type CompleteTaskRequest struct {
	Materials []MaterialLineRequest `json:"materials" binding:"dive"`
	WorkItems []WorkItemLineRequest `json:"work_items" binding:"dive"`
}

// MaterialLineRequest is one material used on a task
type MaterialLineRequest struct {
	MaterialID        uint64          `json:"material_id" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	IsCompanyProvided bool            `json:"is_company_provided"`
}

// WorkItemLineRequest is one work item performed on a task
type WorkItemLineRequest struct {
	WorkItemID uint64          `json:"work_item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// AddWorkerRequest links a user to a task
type AddWorkerRequest struct {
	UserID    uint64 `json:"user_id" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// ToLineItems converts request lines to the aggregator input
func ToLineItems(materials []MaterialLineRequest, workItems []WorkItemLineRequest) services.LineItems {
	items := services.LineItems{
		Materials: make([]services.MaterialLine, len(materials)),
		WorkItems: make([]services.WorkItemLine, len(workItems)),
	}
	for i, m := range materials {
		items.Materials[i] = services.MaterialLine{
			MaterialID:        m.MaterialID,
			Quantity:          m.Quantity,
			IsCompanyProvided: m.IsCompanyProvided,
		}
	}
	for i, w := range workItems {
		items.WorkItems[i] = services.WorkItemLine{WorkItemID: w.WorkItemID, Quantity: w.Quantity}
	}
	return items
}

// Lines returns the replacement line items, or nil when the request carries none
func (r UpdateTaskRequest) Lines() *services.LineItems {
	if r.Materials == nil && r.WorkItems == nil {
		return nil
	}
	var (
		materials []MaterialLineRequest
		workItems []WorkItemLineRequest
	)
	if r.Materials != nil {
		materials = *r.Materials
	}
	if r.WorkItems != nil {
		workItems = *r.WorkItems
	}
	items := ToLineItems(materials, workItems)
	return &items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:                  task.ID,
		ProjectID:           task.ProjectID,
		Title:               task.Title,
		Description:         task.Description,
		Attachment:          task.Attachment,
		WorkList:            task.WorkList,
		CompanyMaterialList: task.CompanyMaterialList,
		SelfMaterialList:    task.SelfMaterialList,
		Status:              task.Status,
		LaborCost:           task.LaborCost,
		MaterialCost:        task.MaterialCost,
		CompanyMaterialCost: task.CompanyMaterialCost,
		SelfMaterialCost:    task.SelfMaterialCost,
		TotalCost:           task.TotalCost,
		CreatedByID:         task.CreatedByID,
		AssignedToID:        task.AssignedToID,
		TeamID:              task.TeamID,
		CreatedAt:           task.CreatedAt,
		UpdatedAt:           task.UpdatedAt,
		AssignedAt:          task.AssignedAt,
		CompletedAt:         task.CompletedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

// ToTaskDetailDTO converts a task loaded with its line items and workers
func ToTaskDetailDTO(task models.Task) TaskDetailDTO {
	detail := TaskDetailDTO{
		TaskDTO:   ToTaskDTO(task),
		Materials: make([]TaskMaterialDTO, len(task.Materials)),
		WorkItems: make([]TaskWorkItemDTO, len(task.WorkItems)),
		Workers:   make([]TaskWorkerDTO, len(task.Workers)),
	}
	for i, m := range task.Materials {
		detail.Materials[i] = TaskMaterialDTO{
			ID:                m.ID,
			MaterialID:        m.MaterialID,
			MaterialCode:      m.Material.Code,
			MaterialName:      m.Material.Name,
			Unit:              m.Material.Unit,
			Quantity:          m.Quantity,
			IsCompanyProvided: m.IsCompanyProvided,
			UnitPrice:         m.UnitPrice,
			TotalPrice:        m.TotalPrice,
		}
	}
	for i, w := range task.WorkItems {
		detail.WorkItems[i] = TaskWorkItemDTO{
			ID:            w.ID,
			WorkItemID:    w.WorkItemID,
			ProjectNumber: w.WorkItem.ProjectNumber,
			Name:          w.WorkItem.Name,
			Unit:          w.WorkItem.Unit,
			Quantity:      w.Quantity,
			UnitPrice:     w.UnitPrice,
			TotalPrice:    w.TotalPrice,
		}
	}
	for i, w := range task.Workers {
		detail.Workers[i] = ToTaskWorkerDTO(w)
	}
	return detail
}

// ToTaskWorkerDTO converts a TaskWorker loaded with its user
func ToTaskWorkerDTO(worker models.TaskWorker) TaskWorkerDTO {
	return TaskWorkerDTO{
		User:       ToUserSummaryDTO(worker.User),
		IsPrimary:  worker.IsPrimary,
		AssignedAt: worker.AssignedAt,
	}
}
