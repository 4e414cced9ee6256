package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xinwork/repair-order-api/internal/constants"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
)

const statisticsDateLayout = "2006-01-02"

// StatisticsService computes read-only reports over a date window
type StatisticsService struct {
	repos *repository.Repositories
	now   func() time.Time
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(repos *repository.Repositories) *StatisticsService {
	return &StatisticsService{repos: repos, now: time.Now}
}

// Window describes the reporting period in a response
type Window struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ProjectStatistics counts projects by status
type ProjectStatistics struct {
	Window         Window                         `json:"window"`
	Total          int64                          `json:"total"`
	ByStatus       map[models.ProjectStatus]int64 `json:"by_status"`
	CompletionRate float64                        `json:"completion_rate"`
}

// TaskStatistics counts tasks by status
type TaskStatistics struct {
	Window                 Window                      `json:"window"`
	Total                  int64                       `json:"total"`
	ByStatus               map[models.TaskStatus]int64 `json:"by_status"`
	CompletionRate         float64                     `json:"completion_rate"`
	AverageCompletionHours float64                     `json:"average_completion_hours"`
}

// MaterialStatistics summarizes material spend
type MaterialStatistics struct {
	Window       Window                `json:"window"`
	TotalCost    decimal.Decimal       `json:"total_cost"`
	CompanyCost  decimal.Decimal       `json:"company_cost"`
	SelfCost     decimal.Decimal       `json:"self_cost"`
	TopMaterials []repository.UsageRow `json:"top_materials"`
}

// WorkItemStatistics summarizes labor spend
type WorkItemStatistics struct {
	Window       Window                `json:"window"`
	TotalCost    decimal.Decimal       `json:"total_cost"`
	TopWorkItems []repository.UsageRow `json:"top_work_items"`
}

// TeamStatistics lists per-team performance
type TeamStatistics struct {
	Window Window               `json:"window"`
	Teams  []repository.TeamRow `json:"teams"`
}

// ParseWindow turns optional YYYY-MM-DD bounds into a half-open window.
// The end date is inclusive; missing bounds default to the last 30 days.
func (s *StatisticsService) ParseWindow(startDate, endDate string) (repository.TimeWindow, error) {
	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if v := strings.TrimSpace(endDate); v != "" {
		parsed, err := time.ParseInLocation(statisticsDateLayout, v, now.Location())
		if err != nil {
			return repository.TimeWindow{}, apierrors.NewValidation("invalid end_date %q, expected YYYY-MM-DD", endDate)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -constants.DefaultStatisticsWindowDays)
	if v := strings.TrimSpace(startDate); v != "" {
		parsed, err := time.ParseInLocation(statisticsDateLayout, v, now.Location())
		if err != nil {
			return repository.TimeWindow{}, apierrors.NewValidation("invalid start_date %q, expected YYYY-MM-DD", startDate)
		}
		start = parsed
	}

	if start.After(end) {
		return repository.TimeWindow{}, apierrors.NewValidation("start_date must not be after end_date")
	}
	return repository.TimeWindow{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

// Projects reports project counts for projects created in the window
func (s *StatisticsService) Projects(ctx context.Context, window repository.TimeWindow) (*ProjectStatistics, error) {
	counts, err := s.repos.WithContext(ctx).Statistics.ProjectStatusCounts(window)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &ProjectStatistics{
		Window:         describeWindow(window),
		Total:          total,
		ByStatus:       counts,
		CompletionRate: rate(counts[models.ProjectStatusCompleted], total),
	}, nil
}

// Tasks reports task counts and average completion time for tasks created in the window
func (s *StatisticsService) Tasks(ctx context.Context, window repository.TimeWindow) (*TaskStatistics, error) {
	repos := s.repos.WithContext(ctx)
	counts, err := repos.Statistics.TaskStatusCounts(window)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	durations, err := repos.Statistics.CompletionDurations(window)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion times: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	var average float64
	if len(durations) > 0 {
		var sum time.Duration
		for _, d := range durations {
			sum += d
		}
		average = (sum / time.Duration(len(durations))).Hours()
	}

	return &TaskStatistics{
		Window:                 describeWindow(window),
		Total:                  total,
		ByStatus:               counts,
		CompletionRate:         rate(counts[models.TaskStatusCompleted], total),
		AverageCompletionHours: average,
	}, nil
}

// Materials reports material spend on tasks completed in the window
func (s *StatisticsService) Materials(ctx context.Context, window repository.TimeWindow) (*MaterialStatistics, error) {
	repos := s.repos.WithContext(ctx)
	totals, err := repos.Statistics.MaterialCostTotals(window)
	if err != nil {
		return nil, fmt.Errorf("failed to sum material costs: %w", err)
	}
	top, err := repos.Statistics.TopMaterials(window, constants.StatisticsTopN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank materials: %w", err)
	}

	return &MaterialStatistics{
		Window:       describeWindow(window),
		TotalCost:    totals.Total,
		CompanyCost:  totals.Company,
		SelfCost:     totals.Self,
		TopMaterials: top,
	}, nil
}

// WorkItems reports labor spend on tasks completed in the window
func (s *StatisticsService) WorkItems(ctx context.Context, window repository.TimeWindow) (*WorkItemStatistics, error) {
	repos := s.repos.WithContext(ctx)
	total, err := repos.Statistics.WorkItemCostTotal(window)
	if err != nil {
		return nil, fmt.Errorf("failed to sum labor costs: %w", err)
	}
	top, err := repos.Statistics.TopWorkItems(window, constants.StatisticsTopN)
	if err != nil {
		return nil, fmt.Errorf("failed to rank work items: %w", err)
	}

	return &WorkItemStatistics{
		Window:       describeWindow(window),
		TotalCost:    total,
		TopWorkItems: top,
	}, nil
}

// Teams reports per-team performance in the window
func (s *StatisticsService) Teams(ctx context.Context, window repository.TimeWindow) (*TeamStatistics, error) {
	rows, err := s.repos.WithContext(ctx).Statistics.TeamPerformance(window)
	if err != nil {
		return nil, fmt.Errorf("failed to load team performance: %w", err)
	}
	return &TeamStatistics{Window: describeWindow(window), Teams: rows}, nil
}

func describeWindow(w repository.TimeWindow) Window {
	return Window{
		StartDate: w.Start.Format(statisticsDateLayout),
		EndDate:   w.End.AddDate(0, 0, -1).Format(statisticsDateLayout),
	}
}

func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
