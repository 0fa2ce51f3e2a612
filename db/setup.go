package db

import (
	"github.com/statuscore-dev/statuscore/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.Workspace{},
		&models.Monitor{},
		&models.Ping{},
		&models.Incident{},
		&models.IncidentReport{},
		&models.Event{},
		&models.NotificationChannel{},
		&models.StatusPage{},
		&models.StatusPageMonitor{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
