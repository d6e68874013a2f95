package models

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList stores a list of strings as a native text[] on Postgres and as
// a text column elsewhere (the sqlite test database), using the pq array
// literal encoding in both cases.
type StringList pq.StringArray

// GormDataType gives the schema parser a classification for the field;
// without it the parser rejects the slice type before the dialect-specific
// mapping below is consulted.
func (StringList) GormDataType() string {
	return "text"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (s *StringList) Scan(v interface{}) error {
	return (*pq.StringArray)(s).Scan(v)
}

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}

type Post struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Body      string     `gorm:"size:140;not null" json:"body"`
	Hashtags  StringList `json:"hashtags,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
