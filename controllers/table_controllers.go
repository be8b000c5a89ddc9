package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/realtime"
	"github.com/thanwa/qr-table-order/session"
	"github.com/thanwa/qr-table-order/utils"
)

type TableController struct {
	DB       *gorm.DB
	Sessions *session.Service
}

func NewTableController(db *gorm.DB, sessions *session.Service) *TableController {
	return &TableController{DB: db, Sessions: sessions}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		utils.RespondAppError(c, apperr.Validation("invalid %s", param))
		return 0, false
	}
	return uint(id), true
}

// CreateTable adds a table. Table numbers are unique; a duplicate is a 409.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing int64
	tc.DB.Model(&models.Table{}).Where("table_number = ?", req.TableNumber).Count(&existing)
	if existing > 0 {
		utils.RespondAppError(c, apperr.Conflict("table number %s already exists", req.TableNumber))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		IsActive:    true,
	}
	if table.Capacity <= 0 {
		table.Capacity = 4
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableNumber, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables lists every table.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID shows one table.
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("table %d not found", tableID))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable changes number, capacity or the active flag.
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var req struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("table %d not found", tableID))
		return
	}

	if req.TableNumber != nil && *req.TableNumber != table.TableNumber {
		var existing int64
		tc.DB.Model(&models.Table{}).
			Where("table_number = ? AND id != ?", *req.TableNumber, table.ID).
			Count(&existing)
		if existing > 0 {
			utils.RespondAppError(c, apperr.Conflict("table number %s already exists", *req.TableNumber))
			return
		}
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil && *req.Capacity > 0 {
		table.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		table.IsActive = *req.IsActive
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("Table %d updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table.
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("table %d not found", tableID))
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// ResetTable closes the physical seating session: voids open orders, binds a
// fresh session id, returns the new QR code. Old printouts of this table's
// code become invalid the instant this returns.
func (tc *TableController) ResetTable(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	result, err := tc.Sessions.Issue(tableID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	realtime.BroadcastTableReset(result.Table, result.CancelledOrders)

	utils.InfoLogger.Printf("Table %d reset, %d open orders cancelled", tableID, result.CancelledOrders)
	utils.RespondJSON(c, http.StatusOK, "Table reset successfully", result)
}

// GenerateQR reissues the table's QR code. This rotates the session id, so
// it carries the same side effects as a reset.
func (tc *TableController) GenerateQR(c *gin.Context) {
	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := tc.Sessions.Issue(req.TableID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	realtime.BroadcastTableReset(result.Table, result.CancelledOrders)

	utils.RespondJSON(c, http.StatusOK, "QR code generated", result)
}

// ValidateSession answers whether a scanned code may still order at this
// table. Customer pages call this on every load; the result is never cached.
func (tc *TableController) ValidateSession(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = c.Query("session")
	}

	validation := tc.Sessions.Validate(tableID, sessionID)
	utils.RespondJSON(c, http.StatusOK, "Session validation", validation)
}
