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

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(repository.NewUserRepo(db))
}

func TestRegister_CreatesUserWithHashedPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(&RegisterRequest{Username: "maria", Password: "secret", Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "maria", user.Username)
	assert.Equal(t, model.RoleUser, user.Role)

	var stored model.User
	require.NoError(t, db.First(&stored, "username = ?", "maria").Error)
	assert.NotEqual(t, "secret", stored.Password)
	assert.True(t, stored.CheckPassword("secret"))
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	svc := newAuthService(newTestDB(t))

	_, err := svc.Register(&RegisterRequest{Username: "maria", Password: "secret", Role: model.RoleUser})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Username: "maria", Password: "other", Role: model.RoleAdmin})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRegister_ValidatesFields(t *testing.T) {
	svc := newAuthService(newTestDB(t))

	cases := []*RegisterRequest{
		{Password: "secret", Role: model.RoleUser},             // missing username
		{Username: "maria", Role: model.RoleUser},              // missing password
		{Username: "maria", Password: "secret"},                // missing role
		{Username: "maria", Password: "secret", Role: "boss"},  // unknown role
	}
	for _, req := range cases {
		_, err := svc.Register(req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "req %+v, got %v", req, err)
	}
}

func TestLogin_ReturnsTokenOnSuccess(t *testing.T) {
	svc := newAuthService(newTestDB(t))

	_, err := svc.Register(&RegisterRequest{Username: "maria", Password: "secret", Role: model.RoleAdmin})
	require.NoError(t, err)

	resp, err := svc.Login("maria", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "maria", resp.User.Username)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

// Unknown user and wrong password must be indistinguishable.
func TestLogin_GenericFailureMessage(t *testing.T) {
	svc := newAuthService(newTestDB(t))

	_, err := svc.Register(&RegisterRequest{Username: "maria", Password: "secret", Role: model.RoleUser})
	require.NoError(t, err)

	_, errUnknown := svc.Login("nobody", "secret")
	_, errWrongPass := svc.Login("maria", "wrong")

	require.True(t, apperr.IsKind(errUnknown, apperr.KindAuthentication))
	require.True(t, apperr.IsKind(errWrongPass, apperr.KindAuthentication))

	var ae1, ae2 *apperr.Error
	require.ErrorAs(t, errUnknown, &ae1)
	require.ErrorAs(t, errWrongPass, &ae2)
	assert.Equal(t, ae1.Message, ae2.Message)
}
