package upload

import "time"

// Document is one accepted upload. The profile slot only keeps the latest
// address per kind; this row keeps every accepted file.
type Document struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
	Kind      string    `gorm:"column:kind;type:varchar(32)" json:"kind"`
	BlobKey   string    `gorm:"column:blob_key" json:"-"`
	FileURL   string    `gorm:"column:file_url" json:"url"`
	MimeType  string    `gorm:"column:mime_type" json:"mime_type"`
	Size      int64     `gorm:"column:size" json:"size"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Document) TableName() string { return "document_uploads" }
