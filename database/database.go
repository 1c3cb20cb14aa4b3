package database

import (
	"fmt"
	"log"

	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/models"
	"github.com/rahulg963/udhaarbook/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.Commission{},
		&models.Payout{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

// SeedRoot creates the seed user every referral tree hangs off. The root
// has no referrer; everyone else registers under some existing code.
func SeedRoot(cfg config.AppConfig) {
	rootPhone := config.Config("ROOT_PHONE")
	rootPin := config.Config("ROOT_PIN")
	if rootPhone == "" || rootPin == "" {
		log.Println("⚠️ ROOT_PHONE / ROOT_PIN not set, skipping root user seed")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("phone = ?", rootPhone).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check for root user: %v", err)
	}
	if count > 0 {
		log.Println("Root user already exists.")
		return
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(rootPin), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash root PIN: %v", err)
	}

	fullName := config.Config("ROOT_FULL_NAME")
	if fullName == "" {
		fullName = "UdhaarBook"
	}

	root := models.User{
		Phone:        rootPhone,
		FullName:     fullName,
		PinHash:      string(pinHash),
		ReferralCode: utils.GenerateReferralCode(cfg.ReferralCodeAlphabet, cfg.ReferralCodeLength),
	}
	if err := DB.Create(&root).Error; err != nil {
		log.Fatalf("🔥 Failed to seed root user: %v", err)
	}

	log.Printf("✅ Root user seeded with referral code %s", root.ReferralCode)
}
