package bootstrap

import (
	"errors"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Group{},
		&entity.Post{},
		&entity.Comment{},
		&entity.Follow{},
	)
}

// AdminCredentials configures the development admin account.
type AdminCredentials struct {
	Username string
	Email    string
	Password string
}

var DefaultAdmin = AdminCredentials{
	Username: "admin",
	Email:    "admin@blogfeed.local",
	Password: "admin123",
}

func SeedAdminUser(db *gorm.DB, creds AdminCredentials) error {
	var existing entity.User
	err := db.Where("username = ?", creds.Username).First(&existing).Error
	if err == nil {
		logger.Info().Str("username", creds.Username).Msg("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.User{
		Username:     creds.Username,
		Email:        creds.Email,
		PasswordHash: string(hashed),
		Role:         entity.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info().Str("username", creds.Username).Msg("admin user seeded")
	return nil
}
