package config

import (
	"fmt"

	"luckyvista-backend/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Db *gorm.DB

func ConnectDatabase() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		AppCfg.DBUser, AppCfg.DBPassword, AppCfg.DBHost, AppCfg.DBPort, AppCfg.DBName)

	var err error
	Db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := Db.AutoMigrate(
		&model.User{},
		&model.Feedback{},
		&model.AuditLog{},
		&model.PasswordResetToken{},
	); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}
