package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ImageList is an ordered list of hosted image URLs, stored as a JSON column.
type ImageList []string

// Value implements driver.Valuer for database serialization.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database deserialization.
func (l *ImageList) Scan(value any) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for ImageList", value)
	}
}

// Contribution represents a published contribution: a description plus
// one to five already-hosted image URLs, owned by a single user.
type Contribution struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Images      ImageList      `gorm:"type:text;not null" json:"images"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
