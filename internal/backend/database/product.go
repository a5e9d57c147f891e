package database

import "time"

// Product is one uploaded intake row. Images hold bare base64 JPEG payloads.
type Product struct {
	ID         string    `db:"id"`
	FolderName string    `db:"folder_name"`
	Row        int       `db:"row_number"`
	Barcode    string    `db:"barcode"`
	FrontImage string    `db:"front_image"`
	BackImage  string    `db:"back_image"`
	UpdatedAt  time.Time `db:"updated_at"`
}
