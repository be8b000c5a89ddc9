package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thanwa/qr-table-order/models"
	"github.com/thanwa/qr-table-order/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GetDashboardStats aggregates the admin dashboard numbers. Active,
// completed and voided buckets come from the status machine's partition,
// never from an ad hoc status list; revenue is the sum of SERVED totals.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders  int64   `json:"total_orders"`
		TodayOrders  int64   `json:"today_orders"`
		TotalRevenue float64 `json:"total_revenue"`
		TodayRevenue float64 `json:"today_revenue"`
		OrderStats   struct {
			Active    int64            `json:"active"`
			Completed int64            `json:"completed"`
			Voided    int64            `json:"voided"`
			ByStatus  map[string]int64 `json:"by_status"`
		} `json:"order_stats"`
		TableStats struct {
			Total          int64 `json:"total"`
			Active         int64 `json:"active"`
			WithSession    int64 `json:"with_session"`
			WithoutSession int64 `json:"without_session"`
		} `json:"table_stats"`
	}

	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	ac.DB.Model(&models.Order{}).
		Where("status IN ?", models.ActiveStatuses()).
		Count(&stats.OrderStats.Active)
	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusServed).
		Count(&stats.OrderStats.Completed)
	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusCancelled).
		Count(&stats.OrderStats.Voided)

	stats.OrderStats.ByStatus = make(map[string]int64)
	for _, status := range models.AllStatuses() {
		var count int64
		ac.DB.Model(&models.Order{}).Where("status = ?", status).Count(&count)
		stats.OrderStats.ByStatus[string(status)] = count
	}

	ac.DB.Model(&models.Order{}).
		Where("status = ?", models.StatusServed).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.TotalRevenue)
	ac.DB.Model(&models.Order{}).
		Where("status = ? AND DATE(created_at) = ?", models.StatusServed, today).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.TodayRevenue)

	ac.DB.Model(&models.Table{}).Count(&stats.TableStats.Total)
	ac.DB.Model(&models.Table{}).Where("is_active = ?", true).Count(&stats.TableStats.Active)
	ac.DB.Model(&models.Table{}).
		Where("current_session_id IS NOT NULL AND current_session_id != ''").
		Count(&stats.TableStats.WithSession)
	stats.TableStats.WithoutSession = stats.TableStats.Total - stats.TableStats.WithSession

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

// GetStatusDescriptors exposes the presentation mapping so the admin panel
// renders every status with a consistent label, color and icon.
func (ac *AdminController) GetStatusDescriptors(c *gin.Context) {
	descriptors := make(map[string]interface{})
	for _, status := range models.AllStatuses() {
		descriptors[string(status)] = gin.H{
			"descriptor":  status.Descriptor(),
			"terminal":    status.Terminal(),
			"next_states": status.NextStates(),
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Order status descriptors", descriptors)
}
