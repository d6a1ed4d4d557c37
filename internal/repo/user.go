package repo

import (
	"fmt"

	"drawing-bot-backend/internal/models"
	"drawing-bot-backend/internal/session"

	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

type UserRepoInterface interface {
	EnsureUser(owner session.Identity) (*models.User, error)
}

func NewUserRepository(db *gorm.DB) UserRepoInterface {
	return &UserRepo{db: db}
}

// EnsureUser returns the caller's user row, creating it on first sight and
// refreshing the display name.
func (r *UserRepo) EnsureUser(owner session.Identity) (*models.User, error) {
	return ensureUser(r.db, owner)
}

func ensureUser(tx *gorm.DB, owner session.Identity) (*models.User, error) {
	name := owner.DisplayName
	if name == "" {
		name = fmt.Sprintf("User %s", owner.UserID)
	}

	user := models.User{}
	err := tx.Where(models.User{ID: owner.UserID}).
		Attrs(models.User{Name: name}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}

	// keep the display name current once the provider supplies one
	if owner.DisplayName != "" && user.Name != owner.DisplayName {
		if err := tx.Model(&user).Update("name", owner.DisplayName).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}
