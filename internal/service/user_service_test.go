package service

import (
	"testing"

	"go-stock-api/internal/apperr"
	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string, role model.Role) {
	t.Helper()
	user := &model.User{Username: username, Role: role}
	require.NoError(t, user.SetPassword("password"))
	require.NoError(t, db.Create(user).Error)
}

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepo(db))
}

func TestUpdateUser_LastAdminCannotBeDemoted(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	seedUser(t, db, "root", model.RoleAdmin)

	role := model.RoleUser
	_, err := svc.UpdateUser("root", &UpdateUserRequest{Role: &role})
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))

	// With a second admin the demotion goes through
	seedUser(t, db, "backup", model.RoleAdmin)
	updated, err := svc.UpdateUser("root", &UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, updated.Role)
}

func TestDeleteUser_LastAdminProtected(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	seedUser(t, db, "root", model.RoleAdmin)

	err := svc.DeleteUser("root")
	assert.True(t, apperr.IsKind(err, apperr.KindInvariantViolation))

	seedUser(t, db, "backup", model.RoleAdmin)
	require.NoError(t, svc.DeleteUser("root"))

	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "backup", users[0].Username)
}

func TestDeleteUser_NonAdminUnaffectedByGuard(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	seedUser(t, db, "root", model.RoleAdmin)
	seedUser(t, db, "clerk", model.RoleUser)

	require.NoError(t, svc.DeleteUser("clerk"))
}

func TestUpdateUser_RenameConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	seedUser(t, db, "maria", model.RoleUser)
	seedUser(t, db, "joana", model.RoleUser)

	name := "joana"
	_, err := svc.UpdateUser("maria", &UpdateUserRequest{Username: &name})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	seedUser(t, db, "maria", model.RoleUser)

	newPass := "newsecret"
	_, err := svc.UpdateUser("maria", &UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, db.First(&stored, "username = ?", "maria").Error)
	assert.True(t, stored.CheckPassword("newsecret"))
	assert.False(t, stored.CheckPassword("password"))
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc := newUserService(newTestDB(t))

	_, err := svc.UpdateUser("ghost", &UpdateUserRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
