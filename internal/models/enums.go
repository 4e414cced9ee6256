package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type (
	Role             string
	ProjectStatus    string
	TaskStatus       string
	SupplyType       string
	WorkItemCategory string
)

const (
	RoleAdmin   Role = "admin"
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
)

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

const (
	SupplyTypeCompany SupplyType = "company"
	SupplyTypeSelf    SupplyType = "self"
	SupplyTypeBoth    SupplyType = "both"
)

const (
	WorkItemCategoryPower    WorkItemCategory = "power"
	WorkItemCategoryWired    WorkItemCategory = "wired"
	WorkItemCategoryWireless WorkItemCategory = "wireless"
	WorkItemCategoryLine     WorkItemCategory = "line"
	WorkItemCategoryPipeline WorkItemCategory = "pipeline"
)

var (
	roles              = []Role{RoleAdmin, RoleWorker, RoleManager}
	projectStatuses    = []ProjectStatus{ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusCancelled}
	taskStatuses       = []TaskStatus{TaskStatusPending, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
	supplyTypes        = []SupplyType{SupplyTypeCompany, SupplyTypeSelf, SupplyTypeBoth}
	workItemCategories = []WorkItemCategory{
		WorkItemCategoryPower,
		WorkItemCategoryWired,
		WorkItemCategoryWireless,
		WorkItemCategoryLine,
		WorkItemCategoryPipeline,
	}
)

// workItemCategoryLabels maps the display labels used in spreadsheets to categories.
var workItemCategoryLabels = map[string]WorkItemCategory{
	"通信电源": WorkItemCategoryPower,
	"有线通信": WorkItemCategoryWired,
	"无线通信": WorkItemCategoryWireless,
	"通信线路": WorkItemCategoryLine,
	"通信管道": WorkItemCategoryPipeline,
}

// Label returns the display label of the category
func (c WorkItemCategory) Label() string {
	for label, category := range workItemCategoryLabels {
		if category == c {
			return label
		}
	}
	return string(c)
}

func parseEnum[T ~string](kind, raw string, allowed []T) (T, error) {
	value := T(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range allowed {
		if candidate == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q", kind, raw)
}

func scanEnum[T ~string](dst *T, src any, parse func(string) (T, error)) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		*dst = ""
		return nil
	default:
		return fmt.Errorf("cannot scan %T into %T", src, *dst)
	}
	parsed, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

func valueEnum[T ~string](v T, parse func(string) (T, error)) (driver.Value, error) {
	if _, err := parse(string(v)); err != nil {
		return nil, err
	}
	return string(v), nil
}

func ParseRole(s string) (Role, error) {
	return parseEnum("role", s, roles)
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	return parseEnum("project status", s, projectStatuses)
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	return parseEnum("task status", s, taskStatuses)
}

func ParseSupplyType(s string) (SupplyType, error) {
	return parseEnum("supply type", s, supplyTypes)
}

// ParseWorkItemCategory accepts either the slug or the display label.
func ParseWorkItemCategory(s string) (WorkItemCategory, error) {
	if category, ok := workItemCategoryLabels[strings.TrimSpace(s)]; ok {
		return category, nil
	}
	return parseEnum("work item category", s, workItemCategories)
}

// WorkItemCategories lists every category in display order
func WorkItemCategories() []WorkItemCategory {
	out := make([]WorkItemCategory, len(workItemCategories))
	copy(out, workItemCategories)
	return out
}

func (r *Role) Scan(src any) error {
	return scanEnum(r, src, ParseRole)
}

func (r Role) Value() (driver.Value, error) {
	return valueEnum(r, ParseRole)
}

func (s *ProjectStatus) Scan(src any) error {
	return scanEnum(s, src, ParseProjectStatus)
}

func (s ProjectStatus) Value() (driver.Value, error) {
	return valueEnum(s, ParseProjectStatus)
}

func (s *TaskStatus) Scan(src any) error {
	return scanEnum(s, src, ParseTaskStatus)
}

func (s TaskStatus) Value() (driver.Value, error) {
	return valueEnum(s, ParseTaskStatus)
}

func (s *SupplyType) Scan(src any) error {
	return scanEnum(s, src, ParseSupplyType)
}

func (s SupplyType) Value() (driver.Value, error) {
	return valueEnum(s, ParseSupplyType)
}

func (c *WorkItemCategory) Scan(src any) error {
	return scanEnum(c, src, ParseWorkItemCategory)
}

func (c WorkItemCategory) Value() (driver.Value, error) {
	return valueEnum(c, ParseWorkItemCategory)
}

// IsTerminal reports whether no further transitions are allowed
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusAssigned, TaskStatusCancelled},
	TaskStatusAssigned:   {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCancelled},
}

// CanTransitionTo reports whether the task state machine allows s -> next.
// Staying in the same non-terminal state is allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		return !s.IsTerminal()
	}
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
