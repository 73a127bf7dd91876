package testutils

import (
	"kanban-lite/kanban/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// Mutation-path tests run against this instead of statement mocks.
func SetupTestDB() (*database.Database, func()) {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		panic(err)
	}
	// A pooled second connection to :memory: would see an empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(gormDB); err != nil {
		panic(err)
	}

	db := &database.Database{DB: gormDB}
	close := func() {
		sqlDB.Close()
	}

	return db, close
}
