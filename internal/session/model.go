// File: internal/session/model.go
package session

import (
	"time"
)

// Session is one row of the server-side session store. The payload is opaque
// to this service; only the expiry is inspected, by the cleanup job.
type Session struct {
	SID    string    `gorm:"column:sid;type:varchar(255);primaryKey"`
	Sess   string    `gorm:"column:sess;type:jsonb;not null"`
	Expire time.Time `gorm:"column:expire;not null;index"`
}

// TableName specifies the table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}
