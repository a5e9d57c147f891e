package database

import "database/sql"

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// UpsertProduct stores the product under (FolderName, Row), keeping the id of
	// an existing entry, and returns the stored version.
	UpsertProduct(product *Product) (*Product, error)
	// GetProducts returns a folder's products ordered by row
	GetProducts(folderName string) ([]*Product, error)
	// GetProduct returns nil when no entry exists
	GetProduct(folderName string, row int) (*Product, error)
}
