package session

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
)

func setupSessionTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:sessiontest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Table{}, &models.Order{}, &models.OrderItem{}); err != nil {
		panic(err)
	}
	db.Exec("DELETE FROM orders")
	db.Exec("DELETE FROM tables")
	return db
}

func seedTable(db *gorm.DB, number string, active bool) models.Table {
	table := models.Table{TableNumber: number, Capacity: 4, IsActive: true}
	db.Create(&table)
	if !active {
		// The default tag would override a zero-valued bool on create.
		db.Model(&table).Update("is_active", false)
		table.IsActive = false
	}
	return table
}

var orderSeq int

func seedOrder(db *gorm.DB, tableID uint, status models.OrderStatus) models.Order {
	orderSeq++
	order := models.Order{
		OrderNumber: fmt.Sprintf("ORDER-TEST-%d", orderSeq),
		TableID:     tableID,
		Status:      status,
		TotalAmount: 100,
	}
	db.Create(&order)
	return order
}

func TestNewSessionIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		assert.True(t, strings.HasPrefix(id, "session_"))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestIssueStoresFreshSession(t *testing.T) {
	db := setupSessionTestDB()
	svc := NewService(db, "http://localhost:8080")
	table := seedTable(db, "T1", true)

	result, err := svc.Issue(table.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Contains(t, result.TableURL, result.SessionID)
	assert.True(t, strings.HasPrefix(result.QRCodeDataURL, "data:image/png;base64,"))

	var reloaded models.Table
	db.First(&reloaded, table.ID)
	assert.NotNil(t, reloaded.CurrentSessionID)
	assert.Equal(t, result.SessionID, *reloaded.CurrentSessionID)
}

func TestReissueInvalidatesPreviousSession(t *testing.T) {
	db := setupSessionTestDB()
	svc := NewService(db, "http://localhost:8080")
	table := seedTable(db, "T1", true)

	first, err := svc.Issue(table.ID)
	assert.NoError(t, err)
	second, err := svc.Issue(table.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	old := svc.Validate(table.ID, first.SessionID)
	assert.False(t, old.Valid)
	assert.Equal(t, "session expired or invalid", old.Reason)
	assert.True(t, old.HasActiveSession)

	fresh := svc.Validate(table.ID, second.SessionID)
	assert.True(t, fresh.Valid)
}

func TestIssueCancelsOnlyOpenOrders(t *testing.T) {
	db := setupSessionTestDB()
	svc := NewService(db, "http://localhost:8080")
	table := seedTable(db, "T1", true)

	pending := seedOrder(db, table.ID, models.StatusPending)
	preparing := seedOrder(db, table.ID, models.StatusPreparing)
	served := seedOrder(db, table.ID, models.StatusServed)
	cancelled := seedOrder(db, table.ID, models.StatusCancelled)

	result, err := svc.Issue(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.CancelledOrders)

	assertStatus := func(id uint, want models.OrderStatus) {
		var order models.Order
		db.First(&order, id)
		assert.Equal(t, want, order.Status)
	}
	assertStatus(pending.ID, models.StatusCancelled)
	assertStatus(preparing.ID, models.StatusCancelled)
	assertStatus(served.ID, models.StatusServed)
	assertStatus(cancelled.ID, models.StatusCancelled)
}

func TestIssueLeavesOtherTablesAlone(t *testing.T) {
	db := setupSessionTestDB()
	svc := NewService(db, "http://localhost:8080")
	table := seedTable(db, "T1", true)
	other := seedTable(db, "T2", true)
	otherOrder := seedOrder(db, other.ID, models.StatusPending)

	_, err := svc.Issue(table.ID)
	assert.NoError(t, err)

	var reloaded models.Order
	db.First(&reloaded, otherOrder.ID)
	assert.Equal(t, models.StatusPending, reloaded.Status)
}

func TestIssueRejectsMissingAndInactiveTables(t *testing.T) {
	db := setupSessionTestDB()
	svc := NewService(db, "http://localhost:8080")

	_, err := svc.Issue(999)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	inactive := seedTable(db, "T9", false)
	_, err = svc.Issue(inactive.ID)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestIssueLeavesStateUntouchedWhenQRRenderFails(t *testing.T) {
	db := setupSessionTestDB()
	// A base URL past QR capacity makes the render fail.
	svc := NewService(db, "http://"+strings.Repeat("x", 4000))
	table := seedTable(db, "T1", true)
	db.Model(&table).Update("current_session_id", "session_1_existing")
	order := seedOrder(db, table.ID, models.StatusPending)

	_, err := svc.Issue(table.ID)
	assert.Error(t, err)

	var reloaded models.Table
	db.First(&reloaded, table.ID)
	assert.NotNil(t, reloaded.CurrentSessionID)
	assert.Equal(t, "session_1_existing", *reloaded.CurrentSessionID)

	var reloadedOrder models.Order
	db.First(&reloadedOrder, order.ID)
	assert.Equal(t, models.StatusPending, reloadedOrder.Status)
}

func TestValidateFailsClosed(t *testing.T) {
	db := setupSessionTestDB()
	svc := NewService(db, "http://localhost:8080")

	missing := svc.Validate(999, "anything")
	assert.False(t, missing.Valid)
	assert.Equal(t, "table not found or inactive", missing.Reason)

	table := seedTable(db, "T1", true)
	blank := svc.Validate(table.ID, "")
	assert.False(t, blank.Valid)
	assert.Equal(t, "no session id provided", blank.Reason)
	assert.False(t, blank.HasActiveSession)

	noSession := svc.Validate(table.ID, "session_1_bogus")
	assert.False(t, noSession.Valid)
	assert.False(t, noSession.HasActiveSession)

	result, err := svc.Issue(table.ID)
	assert.NoError(t, err)
	wrong := svc.Validate(table.ID, "session_1_bogus")
	assert.False(t, wrong.Valid)
	assert.True(t, wrong.HasActiveSession)

	right := svc.Validate(table.ID, result.SessionID)
	assert.True(t, right.Valid)
	assert.Equal(t, "valid session", right.Reason)
}
