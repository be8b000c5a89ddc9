// Package session implements the table-session scheme behind the printed QR
// codes. A table carries at most one opaque session id; reissuing it voids
// every previously printed code and cancels the table's open orders, so a
// stale tab or an old printout can never order against a turned-over table.
package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
)

const qrImageSize = 300

type Service struct {
	DB *gorm.DB
	// BaseURL is the public origin the table URL is built on.
	BaseURL string
}

func NewService(db *gorm.DB, baseURL string) *Service {
	return &Service{DB: db, BaseURL: baseURL}
}

// IssueResult is what a table reset / QR regeneration hands back to staff.
type IssueResult struct {
	Table           models.Table `json:"table"`
	SessionID       string       `json:"session_id"`
	TableURL        string       `json:"table_url"`
	QRCodeDataURL   string       `json:"qr_code_url"`
	CancelledOrders int64        `json:"cancelled_orders"`
}

// Validation is the answer to "may this scanned code still order here".
type Validation struct {
	Valid            bool   `json:"valid"`
	Reason           string `json:"reason"`
	HasActiveSession bool   `json:"has_active_session"`
}

// NewSessionID builds an unguessable session identifier: a monotonic
// timestamp component guarantees uniqueness across rapid reissues, the UUID
// part supplies the crypto-random entropy.
func NewSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixNano(), uuid.NewString())
}

// Issue resets the table's seating session: every non-terminal order on the
// table is cancelled and a fresh session id is stored, both inside one
// transaction so a crash cannot leave stale open orders paired with a new
// session. Already served or cancelled orders are untouched.
func (s *Service) Issue(tableID uint) (*IssueResult, error) {
	sessionID := NewSessionID()
	tableURL := fmt.Sprintf("%s/table/%d?session=%s", s.BaseURL, tableID, sessionID)

	// Render before touching the database: a failed render must not leave
	// the session rotated and orders cancelled.
	png, err := qrcode.Encode(tableURL, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}

	var table models.Table
	var cancelled int64

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("table %d not found", tableID)
			}
			return err
		}
		if !table.IsActive {
			return apperr.Validation("table %s is inactive", table.TableNumber)
		}

		res := tx.Model(&models.Order{}).
			Where("table_id = ? AND status IN ?", tableID, models.ActiveStatuses()).
			Update("status", models.StatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		cancelled = res.RowsAffected

		table.CurrentSessionID = &sessionID
		table.QRCode = &tableURL
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}

	return &IssueResult{
		Table:           table,
		SessionID:       sessionID,
		TableURL:        tableURL,
		QRCodeDataURL:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		CancelledOrders: cancelled,
	}, nil
}

// Validate fails closed: anything but an exact match against the table's
// current session id is invalid. Callers must re-validate on every customer
// page load; staff can reset the table while a tab is open.
func (s *Service) Validate(tableID uint, presented string) Validation {
	var table models.Table
	if err := s.DB.Where("id = ? AND is_active = ?", tableID, true).First(&table).Error; err != nil {
		return Validation{
			Valid:  false,
			Reason: "table not found or inactive",
		}
	}

	if presented == "" {
		return Validation{
			Valid:            false,
			Reason:           "no session id provided",
			HasActiveSession: table.HasActiveSession(),
		}
	}

	if !table.HasActiveSession() || *table.CurrentSessionID != presented {
		return Validation{
			Valid:            false,
			Reason:           "session expired or invalid",
			HasActiveSession: table.HasActiveSession(),
		}
	}

	return Validation{
		Valid:            true,
		Reason:           "valid session",
		HasActiveSession: true,
	}
}
