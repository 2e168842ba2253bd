package service

import (
	"testing"

	"luckyvista-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() model.RegisterRequest {
	return model.RegisterRequest{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Phone:    "+15551234567",
		Tenant:   "acme-corp",
		Password: "Str0ng!Pass",
	}
}

func TestRegisterUser(t *testing.T) {
	db := newTestDB(t)
	s := NewAuthService(db, NewValidationService())

	user, msg, field, err := s.RegisterUser(validRegistration())
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Empty(t, field)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleTenantUser, user.Role)
	assert.Equal(t, "acme-corp", user.Tenant)
	assert.NotEqual(t, "Str0ng!Pass", user.PasswordHash)

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, msg, field, err := s.RegisterUser(validRegistration())
		require.Error(t, err)
		assert.Equal(t, "Email already exists", msg)
		assert.Equal(t, "email", field)
	})
}

func TestRegisterUserValidation(t *testing.T) {
	db := newTestDB(t)
	s := NewAuthService(db, NewValidationService())

	t.Run("weak password", func(t *testing.T) {
		req := validRegistration()
		req.Password = "alllowercase1!"

		_, msg, field, err := s.RegisterUser(req)
		require.Error(t, err)
		assert.Equal(t, "Password must contain at least one uppercase letter", msg)
		assert.Equal(t, "password", field)
	})

	t.Run("bad email", func(t *testing.T) {
		req := validRegistration()
		req.Email = "not-an-email"

		_, _, field, err := s.RegisterUser(req)
		require.Error(t, err)
		assert.Equal(t, "email", field)
	})

	t.Run("bad tenant slug", func(t *testing.T) {
		req := validRegistration()
		req.Tenant = "acme corp!"

		_, _, field, err := s.RegisterUser(req)
		require.Error(t, err)
		assert.Equal(t, "tenant", field)
	})
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	s := NewAuthService(db, NewValidationService())

	_, _, _, err := s.RegisterUser(validRegistration())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := s.Authenticate("jane@example.com", "Str0ng!Pass")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", user.Email)
	})

	t.Run("wrong password and unknown account read the same", func(t *testing.T) {
		_, errWrongPassword := s.Authenticate("jane@example.com", "WrongPass1!")
		require.Error(t, errWrongPassword)

		_, errUnknownAccount := s.Authenticate("nobody@example.com", "Str0ng!Pass")
		require.Error(t, errUnknownAccount)

		assert.Equal(t, errWrongPassword.Error(), errUnknownAccount.Error())
	})
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	s := NewAuthService(db, NewValidationService())

	registered, _, _, err := s.RegisterUser(validRegistration())
	require.NoError(t, err)

	token, err := s.GenerateResetToken(registered.ID)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	user, msg, err := s.ResetPassword(token, "N3wStr0ng!Pass")
	require.NoError(t, err)
	assert.Empty(t, msg)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)

	_, err = s.Authenticate("jane@example.com", "N3wStr0ng!Pass")
	require.NoError(t, err)
	_, err = s.Authenticate("jane@example.com", "Str0ng!Pass")
	require.Error(t, err)

	t.Run("token is single use", func(t *testing.T) {
		_, msg, err := s.ResetPassword(token, "An0ther!Pass")
		require.Error(t, err)
		assert.Equal(t, "Invalid or expired reset token", msg)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, msg, err := s.ResetPassword("deadbeef", "An0ther!Pass")
		require.Error(t, err)
		assert.Equal(t, "Invalid or expired reset token", msg)
	})

	t.Run("weak replacement password leaves token usable", func(t *testing.T) {
		token, err := s.GenerateResetToken(registered.ID)
		require.NoError(t, err)

		_, msg, err := s.ResetPassword(token, "weak")
		require.Error(t, err)
		assert.NotEmpty(t, msg)

		_, _, err = s.ResetPassword(token, "F1nal!Passw0rd")
		require.NoError(t, err)
	})
}

func TestSeedAdminUser(t *testing.T) {
	db := newTestDB(t)
	s := NewAuthService(db, NewValidationService())

	t.Run("blank password skips seeding", func(t *testing.T) {
		require.NoError(t, s.SeedAdminUser("admin@platform.test", ""))

		var count int64
		require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("creates admin once", func(t *testing.T) {
		require.NoError(t, s.SeedAdminUser("admin@platform.test", "Adm1n!Pass"))
		require.NoError(t, s.SeedAdminUser("admin@platform.test", "Adm1n!Pass"))

		var admins []model.User
		require.NoError(t, db.Where("email = ?", "admin@platform.test").Find(&admins).Error)
		require.Len(t, admins, 1)
		assert.Equal(t, model.RoleSuperAdmin, admins[0].Role)
		assert.Equal(t, "platform", admins[0].Tenant)
	})
}
