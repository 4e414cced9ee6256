package services

import (
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
)

func (suite *ServiceTestSuite) TestMaterialDelete_SoftWhenReferenced() {
	task := suite.createTask("Uses M2")
	m2 := suite.createMaterial("M2", "8")
	m3 := suite.createMaterial("M3", "8")
	_, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		Materials: []MaterialLine{{MaterialID: m2.ID, Quantity: qty("1")}},
	})
	suite.Require().NoError(err)

	outcome, err := suite.materials.Delete(suite.ctx, m2.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeDeactivated, outcome)
	stored, err := suite.materials.Get(suite.ctx, m2.ID)
	suite.Require().NoError(err)
	suite.False(stored.IsActive)

	outcome, err = suite.materials.Delete(suite.ctx, m3.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeRemoved, outcome)
	_, err = suite.materials.Get(suite.ctx, m3.ID)
	suite.assertKind(err, apierrors.KindNotFound)
}

func (suite *ServiceTestSuite) TestWorkItemDelete_SoftWhenReferenced() {
	task := suite.createTask("Uses W1")
	w1 := suite.createWorkItem("W1", "5")
	w2 := suite.createWorkItem("W2", "5")
	_, err := suite.tasks.Complete(suite.ctx, task.ID, LineItems{
		WorkItems: []WorkItemLine{{WorkItemID: w1.ID, Quantity: qty("1")}},
	})
	suite.Require().NoError(err)

	outcome, err := suite.workItems.Delete(suite.ctx, w1.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeDeactivated, outcome)

	outcome, err = suite.workItems.Delete(suite.ctx, w2.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeRemoved, outcome)
	suite.Equal(int64(1), suite.count(&models.WorkItem{}))
}

func (suite *ServiceTestSuite) TestMaterialCreate_RejectsDuplicateCode() {
	suite.createMaterial("CABLE-01", "3")
	inactive := suite.createMaterial("CABLE-02", "3")
	suite.Require().NoError(suite.db.Model(inactive).Update("is_active", false).Error)

	for _, code := range []string{"CABLE-01", "CABLE-02"} {
		_, err := suite.materials.Create(suite.ctx, MaterialInput{Code: code, Name: "dup", Unit: "m", UnitPrice: qty("1")})
		suite.assertKind(err, apierrors.KindValidation)
	}

	created, err := suite.materials.Create(suite.ctx, MaterialInput{Code: "CABLE-03", Name: "new", Unit: "m", UnitPrice: qty("1")})
	suite.Require().NoError(err)
	suite.Equal(models.SupplyTypeBoth, created.SupplyType)
	suite.Equal("other", created.Category)
	suite.True(created.IsActive)

	_, err = suite.materials.Create(suite.ctx, MaterialInput{Code: "CABLE-04", Name: "free", Unit: "m", UnitPrice: qty("0")})
	suite.assertKind(err, apierrors.KindValidation)
}

func (suite *ServiceTestSuite) TestMaterialCreate_UniqueIndexBacksTheCheck() {
	suite.createMaterial("DUP", "1")
	err := suite.db.Create(&models.Material{
		Category: "x", Code: "DUP", Name: "again", Unit: "m",
		UnitPrice: qty("1"), SupplyType: models.SupplyTypeSelf, IsActive: true,
	}).Error
	suite.Require().Error(err)
	suite.True(isUniqueViolation(err))
}

func (suite *ServiceTestSuite) TestMaterialUpdate() {
	m := suite.createMaterial("M1", "10")
	suite.createMaterial("M2", "10")

	taken := "M2"
	_, err := suite.materials.Update(suite.ctx, m.ID, UpdateMaterialInput{Code: &taken})
	suite.assertKind(err, apierrors.KindValidation)

	price := qty("11.5")
	self := models.SupplyTypeSelf
	updated, err := suite.materials.Update(suite.ctx, m.ID, UpdateMaterialInput{UnitPrice: &price, SupplyType: &self})
	suite.Require().NoError(err)
	suite.assertDecimal("11.5", updated.UnitPrice, "unit_price")
	suite.Equal(models.SupplyTypeSelf, updated.SupplyType)
}

func (suite *ServiceTestSuite) TestWorkItemCreate() {
	item, err := suite.workItems.Create(suite.ctx, WorkItemInput{
		ProjectNumber: "TXL-001", Name: "Pull cable", Unit: "km", UnitPrice: qty("0"),
	})
	suite.Require().NoError(err)
	suite.Equal(models.WorkItemCategoryLine, item.Category)

	_, err = suite.workItems.Create(suite.ctx, WorkItemInput{
		ProjectNumber: "TXL-001", Name: "Again", Unit: "km", UnitPrice: qty("1"),
	})
	suite.assertKind(err, apierrors.KindValidation)

	_, err = suite.workItems.Create(suite.ctx, WorkItemInput{
		ProjectNumber: "TXL-002", Name: "Negative", Unit: "km", UnitPrice: qty("-1"),
	})
	suite.assertKind(err, apierrors.KindValidation)
}

func (suite *ServiceTestSuite) TestWorkItemCategories() {
	categories := suite.workItems.Categories()
	suite.Require().Len(categories, 5)
	suite.Equal(models.WorkItemCategoryPower, categories[0].Value)
	suite.Equal("通信电源", categories[0].Label)
}
