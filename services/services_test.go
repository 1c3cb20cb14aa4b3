package services

import (
	"fmt"
	"strings"
	"testing"

	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory SQLite database with the full
// schema. Shared cache plus a single connection keeps GORM's pool from
// silently opening a second, empty memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}, &models.Commission{}, &models.Payout{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type testEnv struct {
	db           *gorm.DB
	cfg          config.AppConfig
	identity     *IdentityService
	referral     *ReferralService
	transactions *TransactionService
	ledger       *LedgerService
	commissions  *CommissionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := config.DefaultAppConfig()

	identity := NewIdentityService(db, cfg)
	referral := NewReferralService(db)
	return &testEnv{
		db:           db,
		cfg:          cfg,
		identity:     identity,
		referral:     referral,
		transactions: NewTransactionService(db, identity, cfg),
		ledger:       NewLedgerService(db),
		commissions:  NewCommissionService(db, identity, referral, cfg),
	}
}

func (e *testEnv) mustCreateUser(t *testing.T, phone, fullName string, referredByCode *string) *models.User {
	t.Helper()

	user, err := e.identity.CreateUser(CreateUserInput{
		Phone:          phone,
		FullName:       fullName,
		PinHash:        "test-hash",
		ReferredByCode: referredByCode,
	})
	if err != nil {
		t.Fatalf("failed to create user %s: %v", phone, err)
	}
	return user
}

// mustCreateChain builds R ← A1 ← A2 ← … ← An and returns [R, A1, …, An].
// Phones are 9100000000, 9100000001, and so on.
func (e *testEnv) mustCreateChain(t *testing.T, n int) []*models.User {
	t.Helper()

	users := make([]*models.User, 0, n+1)
	root := e.mustCreateUser(t, "9100000000", "Root", nil)
	users = append(users, root)

	for i := 1; i <= n; i++ {
		parent := users[i-1]
		code := parent.ReferralCode
		user := e.mustCreateUser(t, fmt.Sprintf("91000000%02d", i), fmt.Sprintf("Member %d", i), &code)
		users = append(users, user)
	}
	return users
}

func (e *testEnv) pendingBalance(t *testing.T, phone string) int64 {
	t.Helper()

	user, err := e.identity.GetByPhone(phone)
	if err != nil {
		t.Fatalf("failed to load user %s: %v", phone, err)
	}
	if user == nil {
		t.Fatalf("user %s not found", phone)
	}
	return user.PendingCommission
}
