package service

import (
	"fmt"
	"strings"
	"time"

	"luckyvista-backend/model"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// AuthService handles registration, credential checks and password resets.
type AuthService struct {
	db         *gorm.DB
	validation *ValidationService
}

func NewAuthService(db *gorm.DB, validation *ValidationService) *AuthService {
	return &AuthService{db: db, validation: validation}
}

// RegisterUser validates and creates a tenant_user account. Returns
// (user, errorMessage, fieldName, err); errorMessage is safe to show.
func (s *AuthService) RegisterUser(req model.RegisterRequest) (*model.User, string, string, error) {
	payload := map[string]interface{}{
		"name":     req.Name,
		"email":    req.Email,
		"phone":    req.Phone,
		"tenant":   req.Tenant,
		"password": req.Password,
	}
	if ok, msg, field := s.validation.Validate(payload, RegistrationSchema); !ok {
		return nil, msg, field, fmt.Errorf("validation failed: %s", msg)
	}
	if ok, msg := s.validation.ValidatePasswordStrength(req.Password); !ok {
		return nil, msg, "password", fmt.Errorf("weak password")
	}

	var existing model.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, "Email already exists", "email", fmt.Errorf("duplicate email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "Registration failed", "", fmt.Errorf("failed to hash password: %v", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Tenant:       req.Tenant,
		PasswordHash: string(hash),
		Role:         model.RoleTenantUser,
	}
	if err := s.db.Create(user).Error; err != nil {
		log.WithError(err).Error("failed to create user")
		return nil, "Registration failed", "", fmt.Errorf("failed to create user: %v", err)
	}
	return user, "", "", nil
}

// Authenticate verifies credentials. All failure modes return the same
// generic message so account existence is not confirmed.
func (s *AuthService) Authenticate(email, password string) (*model.User, error) {
	payload := map[string]interface{}{"email": email, "password": password}
	if ok, _, _ := s.validation.Validate(payload, SignInSchema); !ok {
		return nil, fmt.Errorf("invalid credentials")
	}

	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return &user, nil
}

func (s *AuthService) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GenerateResetToken issues a single-use reset token valid for one hour.
func (s *AuthService) GenerateResetToken(userID uint) (string, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")

	reset := &model.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.db.Create(reset).Error; err != nil {
		return "", fmt.Errorf("failed to create reset token: %v", err)
	}
	return token, nil
}

// ResetPassword consumes a valid token and sets the new password as one
// atomic unit. Returns the affected user on success.
func (s *AuthService) ResetPassword(token, newPassword string) (*model.User, string, error) {
	var reset model.PasswordResetToken
	if err := s.db.Where("token = ?", token).First(&reset).Error; err != nil {
		return nil, "Invalid or expired reset token", fmt.Errorf("reset token not found")
	}
	if !reset.IsValid() {
		return nil, "Invalid or expired reset token", fmt.Errorf("reset token expired or used")
	}

	if ok, msg := s.validation.ValidatePasswordStrength(newPassword); !ok {
		return nil, msg, fmt.Errorf("weak password")
	}

	user, err := s.GetUserByID(reset.UserID)
	if err != nil {
		return nil, "Password reset failed", fmt.Errorf("user not found for reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "Password reset failed", fmt.Errorf("failed to hash password: %v", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", reset.UserID).
			Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		return tx.Model(&model.PasswordResetToken{}).Where("id = ?", reset.ID).
			Update("used", true).Error
	})
	if err != nil {
		log.WithError(err).Error("failed to reset password")
		return nil, "Password reset failed", fmt.Errorf("failed to reset password: %v", err)
	}
	return user, "", nil
}

// SeedAdminUser creates the platform super admin once. A blank configured
// password skips seeding rather than shipping a default credential.
func (s *AuthService) SeedAdminUser(email, password string) error {
	if password == "" {
		log.Warn("admin password not configured, skipping admin seed")
		return nil
	}

	var existing model.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := &model.User{
		Name:         "Super Admin",
		Email:        email,
		Phone:        "+1234567890",
		Tenant:       "platform",
		PasswordHash: string(hash),
		Role:         model.RoleSuperAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %v", err)
	}
	log.Info("super admin user created")
	return nil
}
