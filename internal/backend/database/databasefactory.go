package database

import (
	"fmt"
	"log"
)

// NewDatabase opens the collector's product store and ensures the products table exists.
// "memory" is a shorthand for a throwaway in-memory sqlite database.
func NewDatabase(databaseType, connectionString string) (DatabaseService, error) {
	var (
		database DatabaseService
		err      error
	)
	switch databaseType {
	case "sqlite":
		database, err = NewSQLiteDatabase(connectionString)
	case "memory":
		database, err = NewSQLiteDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", databaseType, err)
	}

	if !database.DoesDatabaseExist() {
		_ = database.Close()
		return nil, fmt.Errorf("failed to reach %s database", databaseType)
	}

	log.Printf("ensuring products table exists (%s)", databaseType)
	if _, err = database.CreateDatabase(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create products table: %w", err)
	}

	return database, nil
}
