package services

import (
	"github.com/xinwork/repair-order-api/internal/constants"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/utils"
)

func (suite *ServiceTestSuite) completeScenario() (*models.Task, *models.Material, *models.WorkItem) {
	task := suite.createTask("Fix fibre cabinet")
	m1 := suite.createMaterial("M1", "10")
	w1 := suite.createWorkItem("W1", "5")

	completed, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{{MaterialID: m1.ID, Quantity: qty("2"), IsCompanyProvided: true}},
		WorkItems: []WorkItemLine{{WorkItemID: w1.ID, Quantity: qty("3")}},
	})
	suite.Require().NoError(err)
	return completed, m1, w1
}

func (suite *ServiceTestSuite) TestComplete_ComputesCosts() {
	task, _, _ := suite.completeScenario()

	suite.assertDecimal("20", task.CompanyMaterialCost, "company_material_cost")
	suite.assertDecimal("0", task.SelfMaterialCost, "self_material_cost")
	suite.assertDecimal("20", task.MaterialCost, "material_cost")
	suite.assertDecimal("15", task.LaborCost, "labor_cost")
	suite.assertDecimal("35", task.TotalCost, "total_cost")
	suite.Equal(models.TaskStatusCompleted, task.Status)
	suite.NotNil(task.CompletedAt)

	suite.Require().Len(task.Materials, 1)
	suite.assertDecimal("10", task.Materials[0].UnitPrice, "material unit_price")
	suite.assertDecimal("20", task.Materials[0].TotalPrice, "material total_price")
	suite.Require().Len(task.WorkItems, 1)
	suite.assertDecimal("15", task.WorkItems[0].TotalPrice, "work item total_price")
}

func (suite *ServiceTestSuite) TestComplete_TwiceConflicts() {
	task, m1, _ := suite.completeScenario()

	_, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{{MaterialID: m1.ID, Quantity: qty("100")}},
	})
	suite.assertKind(err, apierrors.KindConflict)
	suite.Contains(err.Error(), "task already completed")

	stored := suite.reloadTask(task.ID)
	suite.assertDecimal("35", stored.TotalCost, "total_cost")
	suite.assertDecimal("20", stored.CompanyMaterialCost, "company_material_cost")
	suite.Equal(int64(1), suite.count(&models.TaskMaterial{}))
}

func (suite *ServiceTestSuite) TestComplete_CancelledConflicts() {
	task := suite.createTask("Cancelled job")
	cancelled := models.TaskStatusCancelled
	_, err := suite.tasks.Update(suite.ctx, suite.actor(suite.admin), task.ID, UpdateTaskInput{Status: &cancelled})
	suite.Require().NoError(err)

	_, err = suite.tasks.Complete(suite.ctx, task.ID, LineItems{})
	suite.assertKind(err, apierrors.KindConflict)
}

func (suite *ServiceTestSuite) TestComplete_MissingTask() {
	_, err := suite.tasks.Complete(suite.ctx, 404, LineItems{})
	suite.assertKind(err, apierrors.KindNotFound)
}

func (suite *ServiceTestSuite) TestUpdateLines_MissingCatalogItemLeavesTaskUntouched() {
	task := suite.createTask("Replace splitter")
	m1 := suite.createMaterial("M1", "10")
	w1 := suite.createWorkItem("W1", "5")

	lines := &LineItems{
		Materials: []MaterialLine{{MaterialID: m1.ID, Quantity: qty("1")}},
		WorkItems: []WorkItemLine{{WorkItemID: w1.ID, Quantity: qty("2")}},
	}
	_, err := suite.tasks.Update(suite.ctx, suite.actor(suite.admin), task.ID, UpdateTaskInput{Lines: lines})
	suite.Require().NoError(err)
	before := suite.reloadTask(task.ID)

	_, err = suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{{MaterialID: m1.ID, Quantity: qty("4")}, {MaterialID: 9999, Quantity: qty("1")}},
	})
	suite.assertKind(err, apierrors.KindValidation)
	suite.Contains(err.Error(), "9999")

	after := suite.reloadTask(task.ID)
	suite.Equal(before.Status, after.Status)
	suite.True(before.TotalCost.Equal(after.TotalCost))
	suite.True(before.SelfMaterialCost.Equal(after.SelfMaterialCost))
	suite.True(before.LaborCost.Equal(after.LaborCost))

	var lineRows []models.TaskMaterial
	suite.Require().NoError(suite.db.Where("task_id = ?", task.ID).Find(&lineRows).Error)
	suite.Require().Len(lineRows, 1)
	suite.assertDecimal("1", lineRows[0].Quantity, "quantity")
	suite.Equal(int64(1), suite.count(&models.TaskWorkItem{}))
}

func (suite *ServiceTestSuite) TestUpdateLines_SelfProvidedAndIdentity() {
	task := suite.createTask("Mixed supply")
	m1 := suite.createMaterial("M1", "12.50")
	m2 := suite.createMaterial("M2", "3.10")
	w1 := suite.createWorkItem("W1", "7.25")

	updated, err := suite.tasks.Update(suite.ctx, suite.actor(suite.admin), task.ID, UpdateTaskInput{Lines: &LineItems{
		Materials: []MaterialLine{
			{MaterialID: m1.ID, Quantity: qty("2"), IsCompanyProvided: true},
			{MaterialID: m2.ID, Quantity: qty("3")},
		},
		WorkItems: []WorkItemLine{{WorkItemID: w1.ID, Quantity: qty("0.5")}},
	}})
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusPending, updated.Status)
	suite.assertDecimal("25", updated.CompanyMaterialCost, "company_material_cost")
	suite.assertDecimal("9.3", updated.SelfMaterialCost, "self_material_cost")
	suite.assertDecimal("3.63", updated.LaborCost, "labor_cost")
	suite.True(updated.MaterialCost.Equal(updated.CompanyMaterialCost.Add(updated.SelfMaterialCost)))
	suite.True(updated.TotalCost.Equal(updated.LaborCost.Add(updated.MaterialCost)))
}

func (suite *ServiceTestSuite) TestComplete_FractionalQuantitiesRoundToCents() {
	task := suite.createTask("Partial metres")
	m1 := suite.createMaterial("M1", "0.1")
	w1 := suite.createWorkItem("W1", "3.33")

	completed, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{
			{MaterialID: m1.ID, Quantity: qty("3"), IsCompanyProvided: true},
			{MaterialID: m1.ID, Quantity: qty("0.2")},
		},
		WorkItems: []WorkItemLine{{WorkItemID: w1.ID, Quantity: qty("1.234")}},
	})
	suite.Require().NoError(err)

	suite.assertDecimal("0.3", completed.CompanyMaterialCost, "company_material_cost")
	suite.assertDecimal("0.02", completed.SelfMaterialCost, "self_material_cost")
	suite.assertDecimal("0.32", completed.MaterialCost, "material_cost")
	suite.assertDecimal("4.11", completed.LaborCost, "labor_cost")
	suite.assertDecimal("4.43", completed.TotalCost, "total_cost")

	stored := suite.reloadTask(task.ID)
	suite.True(stored.MaterialCost.Equal(stored.CompanyMaterialCost.Add(stored.SelfMaterialCost)))
	suite.True(stored.TotalCost.Equal(stored.LaborCost.Add(stored.MaterialCost)))

	reloaded, err := suite.tasks.Get(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(reloaded.WorkItems, 1)
	line := reloaded.WorkItems[0]
	suite.assertDecimal("1.234", line.Quantity, "work item quantity")
	suite.assertDecimal("4.11", line.TotalPrice, "work item total_price")
	suite.True(line.TotalPrice.Equal(line.Quantity.Mul(line.UnitPrice).Round(constants.MoneyScale)))
	for _, m := range reloaded.Materials {
		suite.True(m.TotalPrice.Equal(m.TotalPrice.Round(constants.MoneyScale)), "material total_price %s", m.TotalPrice)
	}
}

func (suite *ServiceTestSuite) TestLineQuantityRoundingToZeroIsRejected() {
	task := suite.createTask("Tiny quantity")
	m1 := suite.createMaterial("M1", "10")

	_, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{{MaterialID: m1.ID, Quantity: qty("0.0004")}},
	})
	suite.assertKind(err, apierrors.KindValidation)
	suite.Equal(int64(0), suite.count(&models.TaskMaterial{}))
}

func (suite *ServiceTestSuite) TestLineItemPricesAreSnapshots() {
	task, m1, w1 := suite.completeScenario()

	m1.UnitPrice = qty("99")
	suite.Require().NoError(suite.db.Save(m1).Error)
	w1.UnitPrice = qty("42")
	suite.Require().NoError(suite.db.Save(w1).Error)

	reloaded, err := suite.tasks.Get(suite.ctx, task.ID)
	suite.Require().NoError(err)
	for _, line := range reloaded.Materials {
		suite.True(line.TotalPrice.Equal(line.Quantity.Mul(line.UnitPrice)))
		suite.assertDecimal("10", line.UnitPrice, "material unit_price")
	}
	for _, line := range reloaded.WorkItems {
		suite.True(line.TotalPrice.Equal(line.Quantity.Mul(line.UnitPrice)))
		suite.assertDecimal("5", line.UnitPrice, "work item unit_price")
	}
	suite.assertDecimal("35", reloaded.TotalCost, "total_cost")
}

func (suite *ServiceTestSuite) TestLineQuantityMustBePositive() {
	task := suite.createTask("Zero quantity")
	m1 := suite.createMaterial("M1", "10")

	_, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{{MaterialID: m1.ID, Quantity: qty("0")}},
	})
	suite.assertKind(err, apierrors.KindValidation)
	suite.Equal(models.TaskStatusPending, suite.reloadTask(task.ID).Status)
}

func (suite *ServiceTestSuite) TestStatusTransitions() {
	task := suite.createTask("Dispatch")
	actor := suite.actor(suite.worker)
	status := func(s models.TaskStatus) UpdateTaskInput { return UpdateTaskInput{Status: &s} }

	_, err := suite.tasks.Update(suite.ctx, actor, task.ID, status(models.TaskStatusInProgress))
	suite.assertKind(err, apierrors.KindConflict)

	assigned, err := suite.tasks.Update(suite.ctx, actor, task.ID, status(models.TaskStatusAssigned))
	suite.Require().NoError(err)
	suite.NotNil(assigned.AssignedAt)
	suite.Require().NotNil(assigned.AssignedToID)
	suite.Equal(suite.worker.ID, *assigned.AssignedToID)

	_, err = suite.tasks.Update(suite.ctx, actor, task.ID, status(models.TaskStatusInProgress))
	suite.Require().NoError(err)

	done, err := suite.tasks.Update(suite.ctx, actor, task.ID, status(models.TaskStatusCompleted))
	suite.Require().NoError(err)
	suite.NotNil(done.CompletedAt)

	_, err = suite.tasks.Update(suite.ctx, actor, task.ID, status(models.TaskStatusCancelled))
	suite.assertKind(err, apierrors.KindConflict)
}

func (suite *ServiceTestSuite) TestCreate_WithAssigneeStartsAssigned() {
	task, err := suite.tasks.Create(suite.ctx, CreateTaskInput{
		Title:        "Assigned on creation",
		AssignedToID: &suite.worker.ID,
		CreatorID:    suite.admin.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusAssigned, task.Status)
	suite.NotNil(task.AssignedAt)

	missing := uint64(777)
	_, err = suite.tasks.Create(suite.ctx, CreateTaskInput{Title: "Bad project", ProjectID: &missing, CreatorID: suite.admin.ID})
	suite.assertKind(err, apierrors.KindValidation)

	_, err = suite.tasks.Create(suite.ctx, CreateTaskInput{Title: "  ", CreatorID: suite.admin.ID})
	suite.assertKind(err, apierrors.KindValidation)
}

func (suite *ServiceTestSuite) TestWorkers_AndListMine() {
	mine := suite.createTask("Worker task")
	suite.createTask("Someone else's task")
	params := utils.PaginationParams{Page: 1, Limit: constants.DefaultPageSize}

	tasks, total, err := suite.tasks.ListMine(suite.ctx, suite.worker.ID, nil, params)
	suite.Require().NoError(err)
	suite.Equal(int64(0), total)
	suite.Empty(tasks)

	worker, err := suite.tasks.AddWorker(suite.ctx, mine.ID, suite.worker.ID, true)
	suite.Require().NoError(err)
	suite.True(worker.IsPrimary)
	suite.Equal("worker", worker.User.Username)

	_, err = suite.tasks.AddWorker(suite.ctx, mine.ID, suite.worker.ID, false)
	suite.assertKind(err, apierrors.KindConflict)

	tasks, total, err = suite.tasks.ListMine(suite.ctx, suite.worker.ID, nil, params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(mine.ID, tasks[0].ID)

	suite.Require().NoError(suite.tasks.RemoveWorker(suite.ctx, mine.ID, suite.worker.ID))
	err = suite.tasks.RemoveWorker(suite.ctx, mine.ID, suite.worker.ID)
	suite.assertKind(err, apierrors.KindNotFound)
}

func (suite *ServiceTestSuite) TestList_FiltersByStatus() {
	suite.createTask("One")
	suite.completeScenario()
	params := utils.PaginationParams{Page: 1, Limit: constants.DefaultPageSize}

	completed := models.TaskStatusCompleted
	tasks, total, err := suite.tasks.List(suite.ctx, ListTasksInput{Status: &completed, Pagination: params})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(models.TaskStatusCompleted, tasks[0].Status)
}

func (suite *ServiceTestSuite) TestDeleteTask_RemovesLineItems() {
	task, _, _ := suite.completeScenario()
	_, err := suite.tasks.AddWorker(suite.ctx, task.ID, suite.worker.ID, false)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.tasks.Delete(suite.ctx, task.ID))

	suite.Equal(int64(0), suite.count(&models.Task{}))
	suite.Equal(int64(0), suite.count(&models.TaskMaterial{}))
	suite.Equal(int64(0), suite.count(&models.TaskWorkItem{}))
	suite.Equal(int64(0), suite.count(&models.TaskWorker{}))

	suite.assertKind(suite.tasks.Delete(suite.ctx, task.ID), apierrors.KindNotFound)
}
