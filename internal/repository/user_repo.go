package repository

import (
	"context"
	"strings"

	"erp/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository stores operator accounts. Usernames are matched case-insensitively.
type UserRepository interface {
	// CreateIfAbsent inserts user unless the username is taken and reports whether a row was written.
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	user.Username = strings.ToLower(user.Username)
	result := GetDB(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return false, translateErr(result.Error, "User")
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "username = ?", strings.ToLower(username)).Error; err != nil {
		return nil, translateErr(err, "User")
	}
	return &user, nil
}
