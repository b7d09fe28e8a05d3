package dbhelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/gorm"
)

// CreateUser hashes the password and persists the user with a normalized
// email. The uniqueness pre-check runs inside the caller's transaction and
// the unique index closes the race behind it.
func CreateUser(tx *gorm.DB, user *models.User, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", utils.ErrValidation)
	}
	user.Email = utils.NormalizeEmail(user.Email)
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: duplicate email", utils.ErrConflict)
	}
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	user.PasswordHash = passwordHash
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	result := tx.Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: duplicate email", utils.ErrConflict)
		}
		return fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return nil
}

func FindUserByEmail(tx *gorm.DB, email string) (models.User, error) {
	var user models.User
	result := tx.Where("email = ?", utils.NormalizeEmail(email)).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return user, utils.ErrNotFound
	}
	if result.Error != nil {
		return user, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return user, nil
}

func FindUserByID(tx *gorm.DB, id string) (models.User, error) {
	var user models.User
	result := tx.Where("id = ?", id).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return user, utils.ErrNotFound
	}
	if result.Error != nil {
		return user, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return user, nil
}

func CheckPassword(user models.User, password string) error {
	if err := utils.ComparePasswords(user.PasswordHash, password); err != nil {
		return utils.ErrUnauthorized
	}
	return nil
}

func UpdateLastLogin(tx *gorm.DB, userID string) error {
	now := time.Now()
	result := tx.Model(&models.User{}).Where("id = ?", userID).Update("last_login", now)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return nil
}

// AssignRole is a set-membership insert against the seeded catalog.
func AssignRole(tx *gorm.DB, userID, roleName string) error {
	var role models.Role
	if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown role %q", utils.ErrValidation, roleName)
		}
		return fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	result := tx.FirstOrCreate(&models.UserRole{}, models.UserRole{UserID: userID, RoleName: roleName})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	return nil
}

func UserRoles(tx *gorm.DB, userID string) ([]string, error) {
	var memberships []models.UserRole
	result := tx.Where("user_id = ?", userID).Find(&memberships)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDependency, result.Error)
	}
	roles := make([]string, 0, len(memberships))
	for _, m := range memberships {
		roles = append(roles, m.RoleName)
	}
	return roles, nil
}
