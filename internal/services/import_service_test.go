package services

import (
	"bytes"
	"fmt"

	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/importer"
	"github.com/xinwork/repair-order-api/internal/models"
)

func (suite *ServiceTestSuite) importCSV(actor Actor, entity ImportEntity, raw string) (*ImportResult, error) {
	return suite.imports.Import(suite.ctx, actor, entity, []byte(raw), importer.FormatCSV)
}

func (suite *ServiceTestSuite) TestImportMaterials_Commits() {
	raw := "code,name,unit,unit_price,category,supply_type\n" +
		"M1,Fibre cable,m,2.50,cable,company\n" +
		"M2,Junction box,pcs,18,,\n"

	result, err := suite.importCSV(suite.actor(suite.worker), ImportMaterials, raw)
	suite.Require().NoError(err)
	suite.Equal(2, result.Imported)

	items, ok := result.Items.([]models.Material)
	suite.Require().True(ok)
	suite.Equal(models.SupplyTypeCompany, items[0].SupplyType)
	suite.Equal(models.SupplyTypeBoth, items[1].SupplyType)
	suite.Equal("other", items[1].Category)
	suite.NotZero(items[1].ID)
	suite.Equal(int64(2), suite.count(&models.Material{}))
}

func (suite *ServiceTestSuite) TestImportMaterials_ExistingCodeRejectsBatch() {
	suite.createMaterial("M1", "1")

	raw := "code,name,unit,unit_price\nM2,Pipe,m,3\nM1,Cable,m,2\n"
	_, err := suite.importCSV(suite.actor(suite.admin), ImportMaterials, raw)

	suite.assertKind(err, apierrors.KindValidation)
	suite.Contains(err.Error(), "row 3")
	suite.Contains(err.Error(), `"M1"`)
	suite.Equal(int64(1), suite.count(&models.Material{}))
}

func (suite *ServiceTestSuite) TestImportMaterials_MissingPriceColumn() {
	_, err := suite.importCSV(suite.actor(suite.admin), ImportMaterials, "code,name,unit\nM1,Cable,m\n")

	suite.assertKind(err, apierrors.KindValidation)
	suite.Contains(err.Error(), "unit_price")
	suite.Zero(suite.count(&models.Material{}))
}

func (suite *ServiceTestSuite) TestImportMaterials_DuplicatesInFile() {
	raw := "code,name,unit,unit_price\nM1,a,m,1\nM1,b,m,1\n"
	_, err := suite.importCSV(suite.actor(suite.admin), ImportMaterials, raw)

	suite.assertKind(err, apierrors.KindValidation)
	var de *apierrors.DomainError
	suite.Require().ErrorAs(err, &de)
	suite.Equal([]string{`duplicate code "M1" in rows 2 and 3`}, de.Details)
}

func (suite *ServiceTestSuite) TestImportWorkItems_Commits() {
	raw := "project_number,name,unit,unit_price,category,skilled_labor_days\n" +
		"W1,Lay cable,km,120,line,1.5\n"

	result, err := suite.importCSV(suite.actor(suite.admin), ImportWorkItems, raw)
	suite.Require().NoError(err)
	suite.Equal(1, result.Imported)

	items := result.Items.([]models.WorkItem)
	suite.Equal(models.WorkItemCategoryLine, items[0].Category)
	suite.assertDecimal("1.5", items[0].SkilledLaborDays, "skilled_labor_days")
}

func (suite *ServiceTestSuite) TestImportUsers_BadRowImportsNothing() {
	raw := "username,email,password,role\n" +
		"alice,alice@example.com,secret1,worker\n" +
		"bob,not-an-email,secret1,worker\n"

	_, err := suite.importCSV(suite.actor(suite.admin), ImportUsers, raw)
	suite.assertKind(err, apierrors.KindValidation)
	suite.Contains(err.Error(), "row 3")
	suite.Equal(int64(2), suite.count(&models.User{}))
}

func (suite *ServiceTestSuite) TestImportUsers_AdminOnly() {
	raw := "username,email,password\ncarol,carol@example.com,secret1\n"

	_, err := suite.importCSV(suite.actor(suite.worker), ImportUsers, raw)
	suite.assertKind(err, apierrors.KindForbidden)

	result, err := suite.importCSV(suite.actor(suite.admin), ImportUsers, raw)
	suite.Require().NoError(err)
	users := result.Items.([]models.User)
	suite.Equal(models.RoleWorker, users[0].Role)
	suite.NotEqual("secret1", users[0].PasswordHash)
}

func (suite *ServiceTestSuite) TestImportTasks_CreatedByActor() {
	project := suite.createProject("Ring road")
	raw := fmt.Sprintf("title,project_id,assigned_to_id\nReplace cabinet,%d,\nSplice fibre,,%d\n",
		project.ID, suite.worker.ID)

	result, err := suite.importCSV(suite.actor(suite.worker), ImportTasks, raw)
	suite.Require().NoError(err)
	tasks := result.Items.([]models.Task)
	suite.Require().Len(tasks, 2)

	suite.Equal(suite.worker.ID, tasks[0].CreatedByID)
	suite.Equal(project.ID, *tasks[0].ProjectID)
	suite.Equal(models.TaskStatusPending, tasks[0].Status)
	suite.Equal(suite.worker.ID, *tasks[1].AssignedToID)
}

func (suite *ServiceTestSuite) TestImportTasks_StartPendingWithAssignee() {
	raw := fmt.Sprintf("title,assigned_to_id\nSplice fibre,%d\n", suite.worker.ID)

	result, err := suite.importCSV(suite.actor(suite.admin), ImportTasks, raw)
	suite.Require().NoError(err)
	imported := result.Items.([]models.Task)[0]

	stored := suite.reloadTask(imported.ID)
	suite.Equal(models.TaskStatusPending, stored.Status)
	suite.Nil(stored.AssignedAt)
	suite.Equal(suite.worker.ID, *stored.AssignedToID)

	assigned := models.TaskStatusAssigned
	updated, err := suite.tasks.Update(suite.ctx, suite.actor(suite.admin), imported.ID, UpdateTaskInput{Status: &assigned})
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusAssigned, updated.Status)
	suite.NotNil(updated.AssignedAt)
	suite.Equal(suite.worker.ID, *updated.AssignedToID)
}

func (suite *ServiceTestSuite) TestImportTasks_MissingProject() {
	_, err := suite.importCSV(suite.actor(suite.admin), ImportTasks, "title,project_id\nJob,42\n")

	suite.assertKind(err, apierrors.KindValidation)
	suite.Contains(err.Error(), "project 42 does not exist")
	suite.Zero(suite.count(&models.Task{}))
}

func (suite *ServiceTestSuite) TestImportTemplate() {
	columns, err := suite.imports.Columns(ImportMaterials)
	suite.Require().NoError(err)
	suite.Equal([]string{"code", "name", "unit", "unit_price", "category", "description", "supply_type"}, columns)

	var buf bytes.Buffer
	suite.Require().NoError(suite.imports.Template(&buf, ImportUsers, importer.FormatCSV))
	suite.Equal("\ufeffusername,email,password,full_name,phone,role\n", buf.String())

	_, err = ParseImportEntity("invoices")
	suite.assertKind(err, apierrors.KindValidation)
	entity, err := ParseImportEntity("Work-Items")
	suite.Require().NoError(err)
	suite.Equal(ImportWorkItems, entity)
}
