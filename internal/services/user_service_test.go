package services

import (
	"github.com/xinwork/repair-order-api/internal/config"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
)

func (suite *ServiceTestSuite) TestUserDelete_Policy() {
	admin := suite.actor(suite.admin)

	_, err := suite.users.Delete(suite.ctx, admin, suite.admin.ID)
	suite.assertKind(err, apierrors.KindConflict)

	_, err = suite.users.Delete(suite.ctx, suite.actor(suite.worker), suite.admin.ID)
	suite.assertKind(err, apierrors.KindForbidden)

	task := suite.createTask("Worker history")
	_, err = suite.tasks.AddWorker(suite.ctx, task.ID, suite.worker.ID, false)
	suite.Require().NoError(err)
	outcome, err := suite.users.Delete(suite.ctx, admin, suite.worker.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeDeactivated, outcome)

	fresh := suite.createUser("fresh", models.RoleWorker)
	outcome, err = suite.users.Delete(suite.ctx, admin, fresh.ID)
	suite.Require().NoError(err)
	suite.Equal(DeleteOutcomeRemoved, outcome)
}

func (suite *ServiceTestSuite) TestUserAccessRules() {
	other := suite.createUser("other", models.RoleWorker)
	self := suite.actor(suite.worker)

	_, err := suite.users.Get(suite.ctx, self, other.ID)
	suite.assertKind(err, apierrors.KindForbidden)

	_, _, err = suite.users.List(suite.ctx, self, repository.UserFilter{})
	suite.assertKind(err, apierrors.KindForbidden)

	admin := models.RoleAdmin
	_, err = suite.users.Update(suite.ctx, self, suite.worker.ID, UpdateUserInput{Role: &admin})
	suite.assertKind(err, apierrors.KindForbidden)

	taken := "other@example.com"
	_, err = suite.users.Update(suite.ctx, self, suite.worker.ID, UpdateUserInput{Email: &taken})
	suite.assertKind(err, apierrors.KindValidation)

	phone := "555-0101"
	updated, err := suite.users.Update(suite.ctx, self, suite.worker.ID, UpdateUserInput{Phone: &phone})
	suite.Require().NoError(err)
	suite.Equal(phone, updated.Phone)

	promoted, err := suite.users.Update(suite.ctx, suite.actor(suite.admin), other.ID, UpdateUserInput{Role: &admin})
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, promoted.Role)

	users, total, err := suite.users.List(suite.ctx, suite.actor(suite.admin), repository.UserFilter{Role: &admin})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(users, 2)
}

func (suite *ServiceTestSuite) TestEnsureAdmin_Idempotent() {
	cfg := config.BootstrapConfig{AdminUsername: "root", AdminPassword: "changeme", AdminEmail: "root@example.com"}

	created, err := suite.users.EnsureAdmin(suite.ctx, cfg)
	suite.Require().NoError(err)
	suite.True(created)

	created, err = suite.users.EnsureAdmin(suite.ctx, cfg)
	suite.Require().NoError(err)
	suite.False(created)

	user, err := suite.auth.Authenticate(suite.ctx, "root", "changeme")
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, user.Role)
}

func (suite *ServiceTestSuite) TestRegisterAndLogin() {
	user, err := suite.auth.Register(suite.ctx, RegisterInput{
		Username: "newbie", Email: "newbie@example.com", Password: "secret1",
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleWorker, user.Role)
	suite.NotEqual("secret1", user.PasswordHash)

	_, err = suite.auth.Register(suite.ctx, RegisterInput{Username: "newbie", Email: "x@example.com", Password: "secret1"})
	suite.assertKind(err, apierrors.KindValidation)
	_, err = suite.auth.Register(suite.ctx, RegisterInput{Username: "other", Email: "newbie@example.com", Password: "secret1"})
	suite.assertKind(err, apierrors.KindValidation)
	_, err = suite.auth.Register(suite.ctx, RegisterInput{Username: "short", Email: "short@example.com", Password: "123"})
	suite.assertKind(err, apierrors.KindValidation)

	_, _, err = suite.auth.Login(suite.ctx, "newbie", "wrong-password")
	suite.assertKind(err, apierrors.KindUnauthorized)

	token, _, err := suite.auth.Login(suite.ctx, "newbie", "secret1")
	suite.Require().NoError(err)
	resolved, err := suite.auth.ResolveToken(suite.ctx, token)
	suite.Require().NoError(err)
	suite.Equal(user.ID, resolved.ID)

	suite.Require().NoError(suite.db.Model(user).Update("is_active", false).Error)
	_, _, err = suite.auth.Login(suite.ctx, "newbie", "secret1")
	suite.assertKind(err, apierrors.KindUnauthorized)
	_, err = suite.auth.ResolveToken(suite.ctx, token)
	suite.assertKind(err, apierrors.KindUnauthorized)

	_, err = suite.auth.ResolveToken(suite.ctx, "not-a-token")
	suite.assertKind(err, apierrors.KindUnauthorized)
}
