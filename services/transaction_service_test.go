package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rahulg963/udhaarbook/models"
)

func TestSubmitDirectionConvention(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)

	// "gave": the submitter is the debtor.
	gave, err := env.transactions.Submit(SubmitInput{
		InitiatorPhone:    "9000000001",
		CounterpartyPhone: "9000000002",
		Amount:            5000,
		Description:       "dinner",
		Direction:         models.DirectionGave,
	})
	if err != nil {
		t.Fatalf("expected submit to succeed, got %v", err)
	}
	if gave.FromPhone != "9000000001" || gave.ToPhone != "9000000002" {
		t.Fatalf("gave: expected from=A to=B, got from=%s to=%s", gave.FromPhone, gave.ToPhone)
	}
	if gave.Status != models.TransactionStatusPending || gave.SettledAt != nil {
		t.Fatalf("expected pending with nil settledAt, got %s / %v", gave.Status, gave.SettledAt)
	}
	if gave.InitiatedBy != "9000000001" || gave.Counterparty() != "9000000002" {
		t.Fatalf("unexpected initiator bookkeeping: %+v", gave)
	}

	// "got": the submitter is the creditor.
	got, err := env.transactions.Submit(SubmitInput{
		InitiatorPhone:    "9000000001",
		CounterpartyPhone: "9000000002",
		Amount:            700,
		Direction:         models.DirectionGot,
	})
	if err != nil {
		t.Fatalf("expected submit to succeed, got %v", err)
	}
	if got.FromPhone != "9000000002" || got.ToPhone != "9000000001" {
		t.Fatalf("got: expected from=B to=A, got from=%s to=%s", got.FromPhone, got.ToPhone)
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)

	tests := []struct {
		name    string
		input   SubmitInput
		wantErr error
	}{
		{
			"zero amount",
			SubmitInput{InitiatorPhone: "9000000001", CounterpartyPhone: "9000000002", Amount: 0, Direction: models.DirectionGave},
			ErrInvalid,
		},
		{
			"amount above cap",
			SubmitInput{InitiatorPhone: "9000000001", CounterpartyPhone: "9000000002", Amount: env.cfg.AmountMax + 1, Direction: models.DirectionGave},
			ErrInvalid,
		},
		{
			"description too long",
			SubmitInput{InitiatorPhone: "9000000001", CounterpartyPhone: "9000000002", Amount: 100, Description: strings.Repeat("x", env.cfg.DescriptionMaxLength+1), Direction: models.DirectionGave},
			ErrInvalid,
		},
		{
			"bad direction",
			SubmitInput{InitiatorPhone: "9000000001", CounterpartyPhone: "9000000002", Amount: 100, Direction: "borrowed"},
			ErrInvalid,
		},
		{
			"self transfer",
			SubmitInput{InitiatorPhone: "9000000001", CounterpartyPhone: "9000000001", Amount: 100, Direction: models.DirectionGave},
			ErrSelfTransfer,
		},
		{
			"unknown counterparty",
			SubmitInput{InitiatorPhone: "9000000001", CounterpartyPhone: "9000000099", Amount: 100, Direction: models.DirectionGave},
			ErrUnknownUser,
		},
		{
			"unknown initiator",
			SubmitInput{InitiatorPhone: "9000000099", CounterpartyPhone: "9000000002", Amount: 100, Direction: models.DirectionGave},
			ErrUnknownUser,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.transactions.Submit(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestConfirmHappyPath(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)

	txn, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone:    "9000000001",
		CounterpartyPhone: "9000000002",
		Amount:            5000,
		Description:       "dinner",
		Direction:         models.DirectionGave,
	})

	confirmed, err := env.transactions.Confirm(txn.ID, "9000000002")
	if err != nil {
		t.Fatalf("expected confirm to succeed, got %v", err)
	}
	if confirmed.Status != models.TransactionStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}
	if confirmed.SettledAt == nil {
		t.Fatal("confirmed transaction must carry settledAt")
	}

	totalsB, err := env.ledger.UserTotals("9000000002")
	if err != nil {
		t.Fatalf("unexpected ledger error: %v", err)
	}
	if totalsB.Receivable != 5000 || totalsB.Payable != 0 || totalsB.Net != 5000 {
		t.Fatalf("B totals wrong: %+v", totalsB)
	}

	totalsA, _ := env.ledger.UserTotals("9000000001")
	if totalsA.Receivable != 0 || totalsA.Payable != 5000 || totalsA.Net != -5000 {
		t.Fatalf("A totals wrong: %+v", totalsA)
	}
}

func TestInitiatorCannotConfirmOwnSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)

	txn, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone:    "9000000001",
		CounterpartyPhone: "9000000002",
		Amount:            5000,
		Direction:         models.DirectionGave,
	})

	_, err := env.transactions.Confirm(txn.ID, "9000000001")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Still pending; the real counterparty can go on to settle it.
	listed, _ := env.transactions.ListForUser("9000000002", FilterPendingIncoming)
	if len(listed) != 1 {
		t.Fatalf("expected txn still pending-incoming for B, got %d rows", len(listed))
	}

	if _, err := env.transactions.Confirm(txn.ID, "9000000002"); err != nil {
		t.Fatalf("expected counterparty confirm to succeed, got %v", err)
	}
}

func TestDoubleSettleFails(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)

	txn, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone:    "9000000001",
		CounterpartyPhone: "9000000002",
		Amount:            5000,
		Direction:         models.DirectionGave,
	})

	if _, err := env.transactions.Confirm(txn.ID, "9000000002"); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if _, err := env.transactions.Confirm(txn.ID, "9000000002"); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}
	if _, err := env.transactions.Deny(txn.ID, "9000000002"); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled on deny after confirm, got %v", err)
	}
}

func TestSettleNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)

	_, err := env.transactions.Confirm(uuid.New(), "9000000001")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeniedTransactionsStayOffTheLedger(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)

	txn, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone:    "9000000001",
		CounterpartyPhone: "9000000002",
		Amount:            1000,
		Direction:         models.DirectionGave,
	})

	denied, err := env.transactions.Deny(txn.ID, "9000000002")
	if err != nil {
		t.Fatalf("expected deny to succeed, got %v", err)
	}
	if denied.Status != models.TransactionStatusDenied || denied.SettledAt == nil {
		t.Fatalf("unexpected denied row: %+v", denied)
	}

	for _, phone := range []string{"9000000001", "9000000002"} {
		totals, _ := env.ledger.UserTotals(phone)
		if totals.Net != 0 || totals.Receivable != 0 || totals.Payable != 0 {
			t.Fatalf("denied txn leaked into totals of %s: %+v", phone, totals)
		}
	}
}

func TestListForUserFilters(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateUser(t, "9000000001", "A", nil)
	env.mustCreateUser(t, "9000000002", "B", nil)
	env.mustCreateUser(t, "9000000003", "C", nil)

	// A gave B 100 (pending), B gave A 200 (confirmed), A got 300 from C (denied).
	pending, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone: "9000000001", CounterpartyPhone: "9000000002", Amount: 100, Direction: models.DirectionGave,
	})
	confirmedTxn, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone: "9000000002", CounterpartyPhone: "9000000001", Amount: 200, Direction: models.DirectionGave,
	})
	env.transactions.Confirm(confirmedTxn.ID, "9000000001")
	deniedTxn, _ := env.transactions.Submit(SubmitInput{
		InitiatorPhone: "9000000001", CounterpartyPhone: "9000000003", Amount: 300, Direction: models.DirectionGot,
	})
	env.transactions.Deny(deniedTxn.ID, "9000000003")

	cases := []struct {
		filter TransactionFilter
		want   int
	}{
		{FilterAll, 3},
		{FilterPendingOutgoing, 1},
		{FilterPendingIncoming, 0},
		{FilterConfirmed, 1},
		{FilterDenied, 1},
		{FilterSent, 1},     // A is fromPhone only on the pending one
		{FilterReceived, 2}, // confirmed from B plus denied from C
	}
	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			rows, err := env.transactions.ListForUser("9000000001", tc.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(rows) != tc.want {
				t.Fatalf("filter %s: expected %d rows, got %d", tc.filter, tc.want, len(rows))
			}
		})
	}

	// B's pending-incoming view must show A's submission.
	rows, _ := env.transactions.ListForUser("9000000002", FilterPendingIncoming)
	if len(rows) != 1 || rows[0].ID != pending.ID {
		t.Fatalf("expected B to see the pending txn, got %v", rows)
	}

	if _, err := env.transactions.ListForUser("9999999999", FilterAll); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}

	if _, err := ParseTransactionFilter("bogus"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for bogus filter, got %v", err)
	}
	if f, _ := ParseTransactionFilter(""); f != FilterAll {
		t.Fatalf("expected empty filter to mean all, got %s", f)
	}
}
