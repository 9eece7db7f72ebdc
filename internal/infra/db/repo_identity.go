package db

import (
	"context"
	"errors"

	"tdsconnector/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DIDRepository struct {
	db *gorm.DB
}

func NewDIDRepository(db *gorm.DB) *DIDRepository {
	return &DIDRepository{db: db}
}

func (r *DIDRepository) Register(ctx context.Context, record domain.DIDRecord) error {
	if r.db == nil {
		return errDBUnavailable
	}
	model := DIDRecordModel{
		DID:          record.DID,
		Document:     record.Document,
		RegisteredAt: record.RegisteredAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *DIDRepository) Get(ctx context.Context, did string) (domain.DIDRecord, error) {
	if r.db == nil {
		return domain.DIDRecord{}, errDBUnavailable
	}
	var model DIDRecordModel
	err := r.db.WithContext(ctx).First(&model, "did = ?", did).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DIDRecord{}, domain.ErrNotFound
		}
		return domain.DIDRecord{}, err
	}
	return domain.DIDRecord{
		DID:          model.DID,
		Document:     model.Document,
		RegisteredAt: model.RegisteredAt,
	}, nil
}

type DataSpaceRepository struct {
	db *gorm.DB
}

func NewDataSpaceRepository(db *gorm.DB) *DataSpaceRepository {
	return &DataSpaceRepository{db: db}
}

func (r *DataSpaceRepository) Create(ctx context.Context, space domain.DataSpace) (domain.DataSpace, error) {
	if r.db == nil {
		return domain.DataSpace{}, errDBUnavailable
	}
	if space.ID == "" {
		space.ID = uuid.NewString()
	}
	model := DataSpaceModel{
		ID:          space.ID,
		Code:        space.Code,
		Name:        space.Name,
		Description: space.Description,
		CreatedAt:   space.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.DataSpace{}, domain.ErrConflict
		}
		return domain.DataSpace{}, err
	}
	return dataSpaceToDomain(model), nil
}

func (r *DataSpaceRepository) GetByID(ctx context.Context, id string) (domain.DataSpace, error) {
	if r.db == nil {
		return domain.DataSpace{}, errDBUnavailable
	}
	var model DataSpaceModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DataSpace{}, domain.ErrNotFound
		}
		return domain.DataSpace{}, err
	}
	return dataSpaceToDomain(model), nil
}

func (r *DataSpaceRepository) List(ctx context.Context) ([]domain.DataSpace, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []DataSpaceModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.DataSpace, 0, len(models))
	for _, model := range models {
		out = append(out, dataSpaceToDomain(model))
	}
	return out, nil
}

func dataSpaceToDomain(model DataSpaceModel) domain.DataSpace {
	return domain.DataSpace{
		ID:          model.ID,
		Code:        model.Code,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
	}
}
