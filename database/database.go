package database

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/course_analytics/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	logrus.Info("✅ Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logrus.Info("✅ Database migration successful")
	return nil
}

// SeedAdmin creates the dashboard admin account unless one with that email
// already exists. An empty email or password skips seeding.
func SeedAdmin(db *gorm.DB, email, password, fullName string) error {
	if email == "" || password == "" {
		logrus.Warn("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		logrus.Info("Admin user already exists.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check for admin user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	adminUser := models.User{
		FullName: fullName,
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	logrus.WithField("email", email).Info("✅ Admin user seeded successfully")
	return nil
}
