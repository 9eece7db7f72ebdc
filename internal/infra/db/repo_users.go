package db

import (
	"context"
	"errors"

	"tdsconnector/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if r.db == nil {
		return domain.User{}, errDBUnavailable
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := userModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrConflict
		}
		return domain.User{}, err
	}
	return userToDomain(model), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepository) GetByDID(ctx context.Context, did string) (domain.User, error) {
	return r.getBy(ctx, "did = ?", did)
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg any) (domain.User, error) {
	if r.db == nil {
		return domain.User{}, errDBUnavailable
	}
	var model UserModel
	err := r.db.WithContext(ctx).First(&model, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return userToDomain(model), nil
}

func userModelFromDomain(user domain.User) UserModel {
	return UserModel{
		ID:          user.ID,
		DID:         user.DID,
		Username:    user.Username,
		Email:       user.Email,
		DIDDocument: user.DIDDocument,
		CreatedAt:   user.CreatedAt,
	}
}

func userToDomain(model UserModel) domain.User {
	return domain.User{
		ID:          model.ID,
		DID:         model.DID,
		Username:    model.Username,
		Email:       model.Email,
		DIDDocument: model.DIDDocument,
		CreatedAt:   model.CreatedAt,
	}
}
