package services

import (
	"bakery-pos-api/models"

	"gorm.io/gorm"
)

// allocateTicketNumber hands out the next customer-facing display number for
// the given day. Must run inside the order-creation transaction: concurrent
// creations serialize on the counter row update, so numbers are unique and
// monotonic within a day. The counter restarts at 1 with each day's first
// order.
func allocateTicketNumber(tx *gorm.DB, day string) (int, error) {
	res := tx.Model(&models.TicketCounter{}).
		Where("day = ?", day).
		Update("last_number", gorm.Expr("last_number + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		counter := models.TicketCounter{Day: day, LastNumber: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var counter models.TicketCounter
	if err := tx.First(&counter, "day = ?", day).Error; err != nil {
		return 0, err
	}
	return counter.LastNumber, nil
}
