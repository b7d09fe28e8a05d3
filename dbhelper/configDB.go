package dbhelper

import (
	"fmt"
	"os"

	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func OpenDB() error {
	var err error
	dsn := fmt.Sprintf(
		"%s:%s@tcp(127.0.0.1:3306)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv(utils.DBUSER),
		os.Getenv(utils.DBPASS),
		os.Getenv(utils.DBNAME),
	)
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	return err
}

func InitDB() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.VerificationToken{},
		&models.RefreshToken{},
		&models.UserFriend{},
		&models.UserActivity{},
	)
	if err != nil {
		return err
	}
	return SeedRoles(DB)
}

// SeedRoles resolves the closed role catalog once at startup.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		result := db.FirstOrCreate(&models.Role{}, models.Role{Name: name})
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}
