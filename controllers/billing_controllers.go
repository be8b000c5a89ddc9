package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/billing"
	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/utils"
)

type BillingController struct {
	DB *gorm.DB
}

func NewBillingController(db *gorm.DB) *BillingController {
	return &BillingController{DB: db}
}

// loadServedOrders fetches the billable orders for a table. Only SERVED
// orders reach billing; open and cancelled ones are excluded.
func (bc *BillingController) loadServedOrders(tableID uint) ([]models.Order, error) {
	var orders []models.Order
	err := bc.DB.Preload("OrderItems.Menu").
		Where("table_id = ? AND status = ?", tableID, models.StatusServed).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

// GetBill computes the split for a table. Mode comes from ?mode= (auto,
// manual, equal; default auto). The computation reads orders and persists
// nothing.
func (bc *BillingController) GetBill(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	mode, valid := billing.ParseMode(c.Query("mode"))
	if !valid {
		utils.RespondAppError(c, apperr.Validation("unknown split mode %s", c.Query("mode")))
		return
	}

	var table models.Table
	if err := bc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("table %d not found", tableID))
		return
	}

	orders, err := bc.loadServedOrders(tableID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	splitter := billing.NewSplitter(orders)
	utils.RespondJSON(c, http.StatusOK, "Bill split", splitter.Compute(mode))
}

// PreviewBill computes a split with caller-supplied manual adjustments, for
// the staff-facing split editor. Adjustments are per-request state only.
func (bc *BillingController) PreviewBill(c *gin.Context) {
	tableID, ok := parseID(c, "table_id")
	if !ok {
		return
	}

	var req struct {
		Mode        string             `json:"mode"`
		Adjustments map[string]float64 `json:"adjustments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	mode, valid := billing.ParseMode(req.Mode)
	if !valid {
		utils.RespondAppError(c, apperr.Validation("unknown split mode %s", req.Mode))
		return
	}

	var table models.Table
	if err := bc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondAppError(c, apperr.NotFound("table %d not found", tableID))
		return
	}

	orders, err := bc.loadServedOrders(tableID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	splitter := billing.NewSplitter(orders)
	for name, amount := range req.Adjustments {
		splitter.SetAdjustment(name, amount)
	}

	utils.RespondJSON(c, http.StatusOK, "Bill split preview", splitter.Compute(mode))
}
