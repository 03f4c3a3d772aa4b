// Package db contains the database connection and migration setup
package db

import (
	"fmt"

	"campusflow/sched-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the configured database and runs migrations. SQLite is
// the default so the app can run without any external services,
// Postgres is used for real deployments
func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch viper.GetString("db.driver") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(viper.GetString("db.dsn")))
	default:
		db, err = gorm.Open(sqlite.Open(viper.GetString("db.dsn")))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(
		model.User{},
		model.Event{},
		model.AcademicProfile{},
		model.Grade{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
