package services

import (
	"time"

	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
)

func (suite *ServiceTestSuite) TestParseWindow() {
	suite.statistics.now = func() time.Time { return time.Date(2024, 6, 15, 13, 30, 0, 0, time.UTC) }

	window, err := suite.statistics.ParseWindow("", "")
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC), window.Start)
	suite.Equal(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), window.End)
	suite.Equal(Window{StartDate: "2024-05-16", EndDate: "2024-06-15"}, describeWindow(window))

	window, err = suite.statistics.ParseWindow("2024-01-01", "2024-01-31")
	suite.Require().NoError(err)
	suite.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), window.End)

	_, err = suite.statistics.ParseWindow("2024/01/01", "")
	suite.assertKind(err, apierrors.KindValidation)
	_, err = suite.statistics.ParseWindow("2024-02-01", "2024-01-01")
	suite.assertKind(err, apierrors.KindValidation)
}

func (suite *ServiceTestSuite) TestStatistics_CountCompletedWork() {
	suite.completeScenario()
	suite.createTask("Still pending")

	window, err := suite.statistics.ParseWindow("", "")
	suite.Require().NoError(err)

	tasks, err := suite.statistics.Tasks(suite.ctx, window)
	suite.Require().NoError(err)
	suite.Equal(int64(2), tasks.Total)
	suite.Equal(int64(1), tasks.ByStatus[models.TaskStatusCompleted])
	suite.InDelta(0.5, tasks.CompletionRate, 1e-9)

	materials, err := suite.statistics.Materials(suite.ctx, window)
	suite.Require().NoError(err)
	suite.assertDecimal("20", materials.TotalCost, "total_cost")
	suite.assertDecimal("20", materials.CompanyCost, "company_cost")
	suite.assertDecimal("0", materials.SelfCost, "self_cost")
	suite.Require().Len(materials.TopMaterials, 1)
	suite.assertDecimal("2", materials.TopMaterials[0].TotalQuantity, "total_quantity")

	workItems, err := suite.statistics.WorkItems(suite.ctx, window)
	suite.Require().NoError(err)
	suite.assertDecimal("15", workItems.TotalCost, "total_cost")
	suite.Len(workItems.TopWorkItems, 1)

	projects, err := suite.statistics.Projects(suite.ctx, window)
	suite.Require().NoError(err)
	suite.Equal(int64(0), projects.Total)
	suite.Zero(projects.CompletionRate)
}
