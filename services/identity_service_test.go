package services

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateUserAssignsReferralCode(t *testing.T) {
	env := newTestEnv(t)

	user := env.mustCreateUser(t, "9000000001", "Asha Verma", nil)

	if len(user.ReferralCode) != env.cfg.ReferralCodeLength {
		t.Fatalf("expected referral code of length %d, got %q", env.cfg.ReferralCodeLength, user.ReferralCode)
	}
	for _, r := range user.ReferralCode {
		if !strings.ContainsRune(env.cfg.ReferralCodeAlphabet, r) {
			t.Fatalf("referral code %q contains %q outside the alphabet", user.ReferralCode, r)
		}
	}
	if user.ReferredByCode != nil {
		t.Fatalf("expected no referrer, got %v", *user.ReferredByCode)
	}
	if user.PendingCommission != 0 || user.PaidCommission != 0 {
		t.Fatalf("expected zero balances, got pending=%d paid=%d", user.PendingCommission, user.PaidCommission)
	}
}

func TestCreateUserUnderReferrer(t *testing.T) {
	env := newTestEnv(t)

	referrer := env.mustCreateUser(t, "9000000001", "Asha Verma", nil)
	child := env.mustCreateUser(t, "9000000002", "Bhanu Singh", &referrer.ReferralCode)

	if child.ReferredByCode == nil || *child.ReferredByCode != referrer.ReferralCode {
		t.Fatalf("expected child referred by %s, got %v", referrer.ReferralCode, child.ReferredByCode)
	}
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	badCode := "NOSUCHCODE"
	badEmail := "not-an-email"

	tests := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{"short phone", CreateUserInput{Phone: "90001", FullName: "X Y", PinHash: "h"}, ErrInvalid},
		{"alpha phone", CreateUserInput{Phone: "90000000ab", FullName: "X Y", PinHash: "h"}, ErrInvalid},
		{"blank name", CreateUserInput{Phone: "9000000009", FullName: "   ", PinHash: "h"}, ErrInvalid},
		{"bad email", CreateUserInput{Phone: "9000000009", FullName: "X Y", Email: &badEmail, PinHash: "h"}, ErrInvalid},
		{"unknown referrer", CreateUserInput{Phone: "9000000009", FullName: "X Y", PinHash: "h", ReferredByCode: &badCode}, ErrUnknownReferrer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.identity.CreateUser(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	env := newTestEnv(t)

	env.mustCreateUser(t, "9000000001", "Asha Verma", nil)
	_, err := env.identity.CreateUser(CreateUserInput{
		Phone:    "9000000001",
		FullName: "Somebody Else",
		PinHash:  "h",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetByPhoneAndReferralCode(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustCreateUser(t, "9000000001", "Asha Verma", nil)

	byPhone, err := env.identity.GetByPhone("9000000001")
	if err != nil || byPhone == nil {
		t.Fatalf("expected user by phone, got user=%v err=%v", byPhone, err)
	}

	byCode, err := env.identity.GetByReferralCode(created.ReferralCode)
	if err != nil || byCode == nil || byCode.Phone != created.Phone {
		t.Fatalf("expected user by code, got user=%v err=%v", byCode, err)
	}

	missing, err := env.identity.GetByPhone("9999999999")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing phone, got user=%v err=%v", missing, err)
	}
}

func TestUpdateProfileOnlyMutableFields(t *testing.T) {
	env := newTestEnv(t)
	created := env.mustCreateUser(t, "9000000001", "Asha Verma", nil)

	newName := "Asha V."
	newEmail := "asha@example.com"
	updated, err := env.identity.UpdateProfile("9000000001", UpdateProfileInput{FullName: &newName, Email: &newEmail})
	if err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	if updated.FullName != newName || updated.Email == nil || *updated.Email != newEmail {
		t.Fatalf("profile fields not applied: %+v", updated)
	}
	if updated.ReferralCode != created.ReferralCode || updated.Phone != created.Phone {
		t.Fatalf("frozen fields changed: %+v", updated)
	}

	_, err = env.identity.UpdateProfile("9999999999", UpdateProfileInput{FullName: &newName})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustCommissionBalance(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "Asha Verma", nil)

	if err := env.identity.AdjustCommissionBalance("9000000001", 500, 0); err != nil {
		t.Fatalf("expected credit to succeed, got %v", err)
	}
	if err := env.identity.AdjustCommissionBalance("9000000001", -500, 500); err != nil {
		t.Fatalf("expected payout-style adjustment to succeed, got %v", err)
	}

	user, _ := env.identity.GetByPhone("9000000001")
	if user.PendingCommission != 0 || user.PaidCommission != 500 {
		t.Fatalf("expected pending=0 paid=500, got pending=%d paid=%d", user.PendingCommission, user.PaidCommission)
	}

	// Driving either balance negative must fail without touching the other.
	if err := env.identity.AdjustCommissionBalance("9000000001", -1, 100); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for negative pending, got %v", err)
	}
	user, _ = env.identity.GetByPhone("9000000001")
	if user.PendingCommission != 0 || user.PaidCommission != 500 {
		t.Fatalf("failed adjustment leaked: pending=%d paid=%d", user.PendingCommission, user.PaidCommission)
	}

	if err := env.identity.AdjustCommissionBalance("9999999999", 10, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
