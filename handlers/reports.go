package handlers

import (
	"net/http"
	"time"

	"bakery-pos-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportHandler struct {
	db *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// DailySales returns the sales rollup for one day (?date=YYYY-MM-DD, default
// today). Only settled orders count; cancelled ones are listed separately.
func (h *ReportHandler) DailySales(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	next := day.AddDate(0, 0, 1)

	var orders []models.Order
	h.db.Preload("Payment").
		Where("created_at >= ? AND created_at < ?", day, next).
		Order("created_at asc").
		Find(&orders)

	revenue := decimal.Zero
	statusSummary := map[string]int{}
	methodSummary := map[string]int{}
	for _, o := range orders {
		statusSummary[string(o.Status)]++
		if o.Status == models.StatusReady || o.Status == models.StatusDelivered {
			revenue = revenue.Add(o.Total)
			if o.Payment != nil {
				methodSummary[string(o.Payment.Method)]++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            date,
		"order_count":     len(orders),
		"total_revenue":   revenue,
		"status_summary":  statusSummary,
		"payment_methods": methodSummary,
	})
}
