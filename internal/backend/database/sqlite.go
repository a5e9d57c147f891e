package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" would otherwise see its own empty database
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		folder_name TEXT NOT NULL,
		row_number INTEGER NOT NULL,
		barcode TEXT NOT NULL DEFAULT '',
		front_image TEXT NOT NULL DEFAULT '',
		back_image TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL,
		UNIQUE (folder_name, row_number)
	)`)
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) UpsertProduct(product *Product) (*Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.FolderName == "" {
		return nil, errors.New("folder name is empty")
	}
	if product.Row < 1 {
		return nil, fmt.Errorf("row must be positive, got %d", product.Row)
	}

	updatedAt := product.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.Exec(`INSERT INTO products (id, folder_name, row_number, barcode, front_image, back_image, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (folder_name, row_number) DO UPDATE SET
			barcode = excluded.barcode,
			front_image = excluded.front_image,
			back_image = excluded.back_image,
			updated_at = excluded.updated_at`,
		uuid.NewString(), product.FolderName, product.Row, product.Barcode,
		product.FrontImage, product.BackImage, updatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert product: %w", err)
	}

	return s.GetProduct(product.FolderName, product.Row)
}

const productColumns = "id, folder_name, row_number, barcode, front_image, back_image, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (*Product, error) {
	var product Product
	var updatedAt int64
	if err := scanner.Scan(&product.ID, &product.FolderName, &product.Row, &product.Barcode,
		&product.FrontImage, &product.BackImage, &updatedAt); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Unix(0, updatedAt)
	return &product, nil
}

func (s *SQLiteDatabase) GetProducts(folderName string) ([]*Product, error) {
	rows, err := s.db.Query("SELECT "+productColumns+" FROM products WHERE folder_name = ? ORDER BY row_number", folderName)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *SQLiteDatabase) GetProduct(folderName string, row int) (*Product, error) {
	product, err := scanProduct(s.db.QueryRow(
		"SELECT "+productColumns+" FROM products WHERE folder_name = ? AND row_number = ?", folderName, row))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
