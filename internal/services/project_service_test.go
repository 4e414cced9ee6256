package services

import (
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
)

func (suite *ServiceTestSuite) TestProjectDelete_ConflictWithTasks() {
	project := suite.createProject("Street cabinet")
	task, err := suite.tasks.Create(suite.ctx, CreateTaskInput{Title: "Inspect", ProjectID: &project.ID, CreatorID: suite.admin.ID})
	suite.Require().NoError(err)

	err = suite.projects.Delete(suite.ctx, project.ID)
	suite.assertKind(err, apierrors.KindConflict)

	_, err = suite.projects.Get(suite.ctx, project.ID)
	suite.Require().NoError(err)
	stored := suite.reloadTask(task.ID)
	suite.Equal(task.Title, stored.Title)
}

func (suite *ServiceTestSuite) TestProjectDelete_WithoutTasks() {
	project := suite.createProject("Empty project")
	team, err := suite.teams.Create(suite.ctx, suite.actor(suite.admin), "North", "")
	suite.Require().NoError(err)
	_, err = suite.projects.AddTeam(suite.ctx, project.ID, team.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.projects.Delete(suite.ctx, project.ID))
	suite.Equal(int64(0), suite.count(&models.Project{}))
	suite.Equal(int64(0), suite.count(&models.ProjectTeam{}))

	suite.assertKind(suite.projects.Delete(suite.ctx, project.ID), apierrors.KindNotFound)
}

func (suite *ServiceTestSuite) TestProjectGet_Counts() {
	project := suite.createProject("Counted")
	for _, title := range []string{"a", "b"} {
		_, err := suite.tasks.Create(suite.ctx, CreateTaskInput{Title: title, ProjectID: &project.ID, CreatorID: suite.admin.ID})
		suite.Require().NoError(err)
	}
	tasks, _, err := suite.tasks.List(suite.ctx, ListTasksInput{ProjectID: &project.ID})
	suite.Require().NoError(err)
	_, err = suite.tasks.Complete(suite.ctx, tasks[0].ID, LineItems{})
	suite.Require().NoError(err)

	detail, err := suite.projects.Get(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), detail.TasksCount)
	suite.Equal(int64(1), detail.CompletedTasksCount)
}

func (suite *ServiceTestSuite) TestProjectUpdate_CompletionStamp() {
	project := suite.createProject("Stamp")
	suite.Equal(3, project.Priority)

	completed := models.ProjectStatusCompleted
	updated, err := suite.projects.Update(suite.ctx, project.ID, UpdateProjectInput{Status: &completed})
	suite.Require().NoError(err)
	suite.NotNil(updated.CompletedAt)

	priority := 9
	_, err = suite.projects.Update(suite.ctx, project.ID, UpdateProjectInput{Priority: &priority})
	suite.assertKind(err, apierrors.KindValidation)
}

func (suite *ServiceTestSuite) TestProjectTeams() {
	project := suite.createProject("Linked")
	team, err := suite.teams.Create(suite.ctx, suite.actor(suite.admin), "South", "")
	suite.Require().NoError(err)

	link, err := suite.projects.AddTeam(suite.ctx, project.ID, team.ID)
	suite.Require().NoError(err)
	suite.Equal("South", link.Team.Name)

	_, err = suite.projects.AddTeam(suite.ctx, project.ID, team.ID)
	suite.assertKind(err, apierrors.KindConflict)

	links, err := suite.projects.ListTeams(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Len(links, 1)

	suite.Require().NoError(suite.projects.RemoveTeam(suite.ctx, project.ID, team.ID))
	suite.assertKind(suite.projects.RemoveTeam(suite.ctx, project.ID, team.ID), apierrors.KindNotFound)
}
