package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotAvailable is the placeholder for optional contribution metadata.
const NotAvailable = "NA"

type Location struct {
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

type Contribution struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Address     string    `db:"address"`
	Phone       string    `db:"phone"`
	Description string    `db:"description"`
	Bucket      string    `db:"bucket"`
	Key         string    `db:"storage_key"`
	UploadDate  time.Time `db:"upload_date"`
	FileType    string    `db:"file_type"`
	FileSize    int64     `db:"file_size"`
	Location    Location
}

// ContributionWithContributor is a contribution joined with its owner's display name.
type ContributionWithContributor struct {
	Contribution
	UploadedBy string `db:"uploaded_by"`
}
