package models

import "time"

type Table struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TableNumber string `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Capacity    int    `gorm:"not null;default:4" json:"capacity"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
	// CurrentSessionID is the sole authority for session validity. It is a
	// generation counter represented as an opaque string, not an expiring
	// token: reissuing it permanently invalidates every prior QR printout.
	CurrentSessionID *string   `gorm:"type:varchar(100)" json:"current_session_id,omitempty"`
	QRCode           *string   `gorm:"type:varchar(255)" json:"qr_code,omitempty"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// HasActiveSession reports whether a session id is currently bound.
func (t *Table) HasActiveSession() bool {
	return t.CurrentSessionID != nil && *t.CurrentSessionID != ""
}
