package services

import (
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
)

func (suite *ServiceTestSuite) TestTeamCreate_CreatorLeads() {
	team, err := suite.teams.Create(suite.ctx, suite.actor(suite.worker), "Fibre crew", "night shift")
	suite.Require().NoError(err)
	suite.True(team.IsActive)

	members, err := suite.teams.ListMembers(suite.ctx, team.ID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	suite.True(members[0].IsLeader)
	suite.Equal(suite.worker.ID, members[0].UserID)
}

func (suite *ServiceTestSuite) TestTeamMutations_RequireLeaderOrAdmin() {
	leader := suite.actor(suite.worker)
	outsider := suite.createUser("outsider", models.RoleManager)
	team, err := suite.teams.Create(suite.ctx, leader, "Crew", "")
	suite.Require().NoError(err)

	name := "Renamed"
	_, err = suite.teams.Update(suite.ctx, suite.actor(outsider), team.ID, UpdateTeamInput{Name: &name})
	suite.assertKind(err, apierrors.KindForbidden)

	_, err = suite.teams.AddMember(suite.ctx, suite.actor(outsider), team.ID, outsider.ID, false)
	suite.assertKind(err, apierrors.KindForbidden)

	updated, err := suite.teams.Update(suite.ctx, suite.actor(suite.admin), team.ID, UpdateTeamInput{Name: &name})
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)

	_, err = suite.teams.AddMember(suite.ctx, leader, team.ID, outsider.ID, false)
	suite.Require().NoError(err)
	_, err = suite.teams.AddMember(suite.ctx, leader, team.ID, outsider.ID, false)
	suite.assertKind(err, apierrors.KindConflict)

	err = suite.teams.RemoveMember(suite.ctx, leader, team.ID, suite.worker.ID)
	suite.assertKind(err, apierrors.KindConflict)

	suite.Require().NoError(suite.teams.RemoveMember(suite.ctx, leader, team.ID, outsider.ID))
	suite.assertKind(suite.teams.RemoveMember(suite.ctx, leader, team.ID, outsider.ID), apierrors.KindNotFound)
}

func (suite *ServiceTestSuite) TestTeamDelete_Policy() {
	busy, err := suite.teams.Create(suite.ctx, suite.actor(suite.admin), "Busy", "")
	suite.Require().NoError(err)
	idle, err := suite.teams.Create(suite.ctx, suite.actor(suite.admin), "Idle", "")
	suite.Require().NoError(err)
	_, err = suite.tasks.Create(suite.ctx, CreateTaskInput{Title: "Team job", TeamID: &busy.ID, CreatorID: suite.admin.ID})
	suite.Require().NoError(err)

	outcome, err := suite.teams.Delete(suite.ctx, suite.actor(suite.admin), busy.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeDeactivated, outcome)

	outcome, err = suite.teams.Delete(suite.ctx, suite.actor(suite.admin), idle.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeRemoved, outcome)

	teams, total, err := suite.teams.List(suite.ctx, true, suite.noPaging())
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.False(teams[0].IsActive)
	suite.Equal(int64(1), suite.count(&models.TeamMember{}))

	_, total, err = suite.teams.List(suite.ctx, false, suite.noPaging())
	suite.Require().NoError(err)
	suite.Equal(int64(0), total)
}
