package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xinwork/repair-order-api/internal/models"
	"gorm.io/gorm"
)

// MaterialTotals splits material spend by who supplied the material
type MaterialTotals struct {
	Total   decimal.Decimal
	Company decimal.Decimal
	Self    decimal.Decimal
}

// UsageRow is one catalog entry ranked by consumed quantity
type UsageRow struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

// TeamRow aggregates a team's work in a window
type TeamRow struct {
	ID             uint64          `json:"id"`
	Name           string          `json:"name"`
	CompletedTasks int64           `json:"completed_tasks_count"`
	TotalTasks     int64           `json:"total_tasks_count"`
	Income         decimal.Decimal `json:"total_income"`
	Members        int64           `json:"members_count"`
}

// GormStatisticsRepository is a GORM implementation of StatisticsRepository
type GormStatisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository creates a new StatisticsRepository
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &GormStatisticsRepository{db: db}
}

func (r *GormStatisticsRepository) completedTaskIDs(window TimeWindow) *gorm.DB {
	return r.db.Model(&models.Task{}).
		Select("id").
		Where("status = ? AND completed_at >= ? AND completed_at < ?", models.TaskStatusCompleted, window.Start, window.End)
}

// ProjectStatusCounts counts projects created in the window per status
func (r *GormStatisticsRepository) ProjectStatusCounts(window TimeWindow) (map[models.ProjectStatus]int64, error) {
	var rows []struct {
		Status models.ProjectStatus
		Count  int64
	}
	if err := r.db.Model(&models.Project{}).
		Select("status, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", window.Start, window.End).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ProjectStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TaskStatusCounts counts tasks created in the window per status
func (r *GormStatisticsRepository) TaskStatusCounts(window TimeWindow) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}
	if err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", window.Start, window.End).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CompletionDurations returns created->completed durations of tasks created in the window
func (r *GormStatisticsRepository) CompletionDurations(window TimeWindow) ([]time.Duration, error) {
	var tasks []models.Task
	if err := r.db.Select("id", "created_at", "completed_at").
		Where("status = ? AND created_at >= ? AND created_at < ? AND completed_at IS NOT NULL",
			models.TaskStatusCompleted, window.Start, window.End).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	durations := make([]time.Duration, 0, len(tasks))
	for _, t := range tasks {
		durations = append(durations, t.CompletedAt.Sub(t.CreatedAt))
	}
	return durations, nil
}

// MaterialCostTotals sums material line items of tasks completed in the window
func (r *GormStatisticsRepository) MaterialCostTotals(window TimeWindow) (MaterialTotals, error) {
	var totals MaterialTotals
	err := r.db.Model(&models.TaskMaterial{}).
		Select(`COALESCE(SUM(total_price), 0) AS total,
			COALESCE(SUM(CASE WHEN is_company_provided THEN total_price ELSE 0 END), 0) AS company,
			COALESCE(SUM(CASE WHEN is_company_provided THEN 0 ELSE total_price END), 0) AS self`).
		Where("task_id IN (?)", r.completedTaskIDs(window)).
		Scan(&totals).Error
	return totals, err
}

// WorkItemCostTotal sums work item line items of tasks completed in the window
func (r *GormStatisticsRepository) WorkItemCostTotal(window TimeWindow) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&models.TaskWorkItem{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Where("task_id IN (?)", r.completedTaskIDs(window)).
		Scan(&result).Error
	return result.Total, err
}

// TopMaterials ranks materials by quantity used on tasks completed in the window
func (r *GormStatisticsRepository) TopMaterials(window TimeWindow, limit int) ([]UsageRow, error) {
	rows := []UsageRow{}
	err := r.db.Model(&models.TaskMaterial{}).
		Select("materials.id AS id, materials.name AS name, SUM(task_materials.quantity) AS total_quantity, SUM(task_materials.total_price) AS total_cost").
		Joins("JOIN materials ON materials.id = task_materials.material_id").
		Where("task_materials.task_id IN (?)", r.completedTaskIDs(window)).
		Group("materials.id, materials.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TopWorkItems ranks work items by quantity used on tasks completed in the window
func (r *GormStatisticsRepository) TopWorkItems(window TimeWindow, limit int) ([]UsageRow, error) {
	rows := []UsageRow{}
	err := r.db.Model(&models.TaskWorkItem{}).
		Select("work_items.id AS id, work_items.name AS name, SUM(task_work_items.quantity) AS total_quantity, SUM(task_work_items.total_price) AS total_cost").
		Joins("JOIN work_items ON work_items.id = task_work_items.work_item_id").
		Where("task_work_items.task_id IN (?)", r.completedTaskIDs(window)).
		Group("work_items.id, work_items.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// TeamPerformance reports task counts, income and size of every active team
func (r *GormStatisticsRepository) TeamPerformance(window TimeWindow) ([]TeamRow, error) {
	const query = `
		SELECT teams.id AS id, teams.name AS name,
			(SELECT COUNT(*) FROM tasks WHERE tasks.team_id = teams.id
				AND tasks.status = @completed AND tasks.completed_at >= @start AND tasks.completed_at < @end) AS completed_tasks,
			(SELECT COUNT(*) FROM tasks WHERE tasks.team_id = teams.id
				AND tasks.created_at >= @start AND tasks.created_at < @end) AS total_tasks,
			(SELECT COALESCE(SUM(tasks.total_cost), 0) FROM tasks WHERE tasks.team_id = teams.id
				AND tasks.status = @completed AND tasks.completed_at >= @start AND tasks.completed_at < @end) AS income,
			(SELECT COUNT(*) FROM team_members WHERE team_members.team_id = teams.id) AS members
		FROM teams
		WHERE teams.is_active = @active
		ORDER BY teams.name`

	rows := []TeamRow{}
	err := r.db.Raw(query, map[string]interface{}{
		"completed": models.TaskStatusCompleted,
		"start":     window.Start,
		"end":       window.End,
		"active":    true,
	}).Scan(&rows).Error
	return rows, err
}
