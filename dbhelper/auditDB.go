package dbhelper

import (
	"fmt"

	"github.com/friendsapp/apiv1/models"
	"github.com/friendsapp/apiv1/utils"
	"gorm.io/gorm"
)

func RecordActivity(tx *gorm.DB, eventType, actorID, objectClass, objectID, details string) error {
	activity := models.UserActivity{
		EventType:   eventType,
		UserID:      actorID,
		ObjectClass: objectClass,
		ObjectID:    objectID,
		Details:     details,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDependency, err)
	}
	return nil
}
