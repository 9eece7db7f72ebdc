package db

import (
	"errors"
	"fmt"
	"log"

	"tdsconnector/internal/config"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("db unavailable")

type Store struct {
	DB *gorm.DB
}

func NewStore(cfg config.Config) (*Store, error) {
	if cfg.PostgresDSN == "" {
		log.Printf("POSTGRES_DSN not set; starting in no-db mode.")
		return &Store{DB: nil}, nil
	}

	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	store := &Store{DB: gdb}
	if cfg.AutoMigrate {
		if err := store.Migrate(); err != nil {
			return nil, err
		}
	}
	if cfg.SeedDataSpaceCode != "" {
		if err := store.seedDataSpace(cfg.SeedDataSpaceCode); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func (s *Store) Migrate() error {
	if s.DB == nil {
		return errDBUnavailable
	}
	return s.DB.AutoMigrate(
		&UserModel{},
		&DIDRecordModel{},
		&DataSpaceModel{},
		&ConnectorModel{},
		&DataOfferingModel{},
		&PolicyTemplateModel{},
		&PolicyRuleModel{},
		&ContractTemplateModel{},
		&ContractTemplatePolicyModel{},
		&DataRequestModel{},
		&ContractModel{},
	)
}

// seedDataSpace makes sure a default data space exists so connectors can be
// registered against a fresh database.
func (s *Store) seedDataSpace(code string) error {
	var count int64
	if err := s.DB.Model(&DataSpaceModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	space := DataSpaceModel{
		ID:          uuid.NewString(),
		Code:        code,
		Name:        code,
		Description: "seeded default data space",
	}
	if err := s.DB.Create(&space).Error; err != nil {
		return err
	}
	log.Printf("seeded data space %s (id=%s)", code, space.ID)
	return nil
}
