package jobs

import (
	"fmt"
	"log"
	"time"

	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/database"
	"github.com/rahulg963/udhaarbook/models"
	"github.com/rahulg963/udhaarbook/notifications"
)

// SweepCommissions runs daily: it reports commissions past their due date
// and nudges users whose pending balance already clears the payout
// threshold. Due dates are informational, nothing is transitioned here.
func SweepCommissions(cfg config.AppConfig) {
	log.Println("Running job: SweepCommissions...")

	var overdue int64
	err := database.DB.Model(&models.Commission{}).
		Where("status = ? AND due_date < ?", models.CommissionStatusPending, time.Now()).
		Count(&overdue).Error
	if err != nil {
		log.Printf("Error counting overdue commissions: %v", err)
		return
	}
	if overdue > 0 {
		log.Printf("⚠️ %d pending commissions are past their due date", overdue)
	}

	var ready []models.User
	err = database.DB.
		Where("pending_commission >= ? AND email IS NOT NULL", cfg.PayoutThreshold).
		Find(&ready).Error
	if err != nil {
		log.Printf("Error checking for payout-ready users: %v", err)
		return
	}

	for _, user := range ready {
		log.Printf("User %s is payout-ready with %d paise pending", user.Phone, user.PendingCommission)

		emailBody := fmt.Sprintf(
			"<h1>Commissions Ready</h1><p>You have ₹%.2f in pending referral commissions, which is above the payout threshold. Request your payout from the app.</p>",
			float64(user.PendingCommission)/100,
		)
		go notifications.SendEmail(user.FullName, *user.Email, "Your Referral Commissions Are Ready for Payout!", emailBody)
	}
}
