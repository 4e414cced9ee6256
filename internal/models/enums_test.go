package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		want     bool
	}{
		{TaskStatusPending, TaskStatusAssigned, true},
		{TaskStatusPending, TaskStatusCancelled, true},
		{TaskStatusPending, TaskStatusInProgress, false},
		{TaskStatusPending, TaskStatusCompleted, false},
		{TaskStatusAssigned, TaskStatusInProgress, true},
		{TaskStatusAssigned, TaskStatusCompleted, false},
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusInProgress, TaskStatusAssigned, false},
		{TaskStatusInProgress, TaskStatusInProgress, true},
		{TaskStatusCompleted, TaskStatusCompleted, false},
		{TaskStatusCompleted, TaskStatusPending, false},
		{TaskStatusCancelled, TaskStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseEnums(t *testing.T) {
	role, err := ParseRole(" Manager ")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, role)

	_, err = ParseRole("root")
	assert.Error(t, err)

	status, err := ParseTaskStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusInProgress, status)

	_, err = ParseSupplyType("borrowed")
	assert.Error(t, err)
}

func TestParseWorkItemCategory_AcceptsLabels(t *testing.T) {
	category, err := ParseWorkItemCategory("通信线路")
	require.NoError(t, err)
	assert.Equal(t, WorkItemCategoryLine, category)
	assert.Equal(t, "通信线路", category.Label())

	category, err = ParseWorkItemCategory("pipeline")
	require.NoError(t, err)
	assert.Equal(t, WorkItemCategoryPipeline, category)

	_, err = ParseWorkItemCategory("plumbing")
	assert.Error(t, err)
}

func TestEnumScanValue(t *testing.T) {
	var status TaskStatus
	require.NoError(t, status.Scan([]byte("assigned")))
	assert.Equal(t, TaskStatusAssigned, status)

	assert.Error(t, status.Scan("unknown"))

	_, err := TaskStatus("bogus").Value()
	assert.Error(t, err)

	v, err := SupplyTypeCompany.Value()
	require.NoError(t, err)
	assert.Equal(t, "company", v)
}
