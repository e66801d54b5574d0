package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// Migrate creates the schema and the default settings row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.PropertyImage{},
		&models.CustomerPreferredDay{},
		&models.Professional{},
		&models.Service{},
		&models.ServicePackage{},
		&models.ServiceFrequency{},
		&models.ServiceDiscount{},
		&models.Appointment{},
		&models.AppointmentCrew{},
		&models.AppointmentPhoto{},
		&models.Estimate{},
		&models.EstimateService{},
		&models.EstimatePackage{},
		&models.EstimateLineItem{},
		&models.EstimatePhoto{},
		&models.Payment{},
		&models.BusinessSetting{},
		&models.AuditLog{},
		&models.Gallery{},
		&models.GalleryImage{},
		&models.Portfolio{},
		&models.PortfolioImage{},
		&models.HeroImage{},
		&models.Announcement{},
		&models.Message{},
		&models.Contact{},
	); err != nil {
		return err
	}

	settings := models.DefaultBusinessSetting()
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error
}
