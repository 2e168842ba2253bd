package service

import (
	"testing"
	"time"

	"luckyvista-backend/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see a fresh in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Feedback{},
		&model.AuditLog{},
		&model.PasswordResetToken{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, tenant, role string) model.User {
	t.Helper()

	user := model.User{
		Name:         name,
		Email:        email,
		Phone:        "+15550000001",
		Tenant:       tenant,
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedFeedback(t *testing.T, db *gorm.DB, userID uint, tenant, label string, rating int, createdAt time.Time) model.Feedback {
	t.Helper()

	feedback := model.Feedback{
		UserID:           userID,
		Tenant:           tenant,
		OverallRating:    rating,
		ExperienceRating: rating,
		Comments:         "seeded feedback row for tests",
		SentimentLabel:   label,
		CreatedAt:        createdAt,
	}
	require.NoError(t, db.Create(&feedback).Error)
	return feedback
}

func userCaller(user model.User) Caller {
	return Caller{UserID: user.ID, TenantID: user.Tenant, Role: user.Role}
}
