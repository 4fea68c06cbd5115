package core

import (
	"errors"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestPersonValidate(t *testing.T) {
	tests := []struct {
		name    string
		person  Person
		wantErr error
	}{
		{
			name:   "valid kid",
			person: Person{Name: "Mia", Role: RoleKid},
		},
		{
			name:   "valid parent",
			person: Person{Name: "Dana", Role: RoleParent},
		},
		{
			name:    "empty name",
			person:  Person{Name: "   ", Role: RoleKid},
			wantErr: ErrEmptyName,
		},
		{
			name:    "unknown role",
			person:  Person{Name: "Mia", Role: Role("admin")},
			wantErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.person.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChoreValidate(t *testing.T) {
	tests := []struct {
		name    string
		chore   Chore
		wantErr error
	}{
		{
			name:  "valid",
			chore: Chore{Title: "Dishes", AssignedTo: 1, Reward: 5, Frequency: Daily},
		},
		{
			name:    "empty title",
			chore:   Chore{Title: "", AssignedTo: 1, Reward: 5, Frequency: Daily},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "no assignee",
			chore:   Chore{Title: "Dishes", Reward: 5, Frequency: Daily},
			wantErr: ErrMissingAssignee,
		},
		{
			name:    "negative reward",
			chore:   Chore{Title: "Dishes", AssignedTo: 1, Reward: -1, Frequency: Daily},
			wantErr: ErrNegativeReward,
		},
		{
			name:    "unknown frequency",
			chore:   Chore{Title: "Dishes", AssignedTo: 1, Reward: 5, Frequency: Frequency("hourly")},
			wantErr: ErrInvalidFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chore.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrizeValidate(t *testing.T) {
	if err := (Prize{Name: "Movie night", Cost: 20}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := (Prize{Name: "", Cost: 20}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Errorf("Validate() = %v, want ErrEmptyName", err)
	}
	if err := (Prize{Name: "Movie night", Cost: -1}).Validate(); !errors.Is(err, ErrNegativeCost) {
		t.Errorf("Validate() = %v, want ErrNegativeCost", err)
	}
}

func TestPersonBalance(t *testing.T) {
	kid := Person{Role: RoleKid, FunBucks: int64Ptr(42)}
	if got := kid.Balance(); got != 42 {
		t.Errorf("Balance() = %d, want 42", got)
	}

	parent := Person{Role: RoleParent}
	if got := parent.Balance(); got != 0 {
		t.Errorf("Balance() = %d, want 0 for nil fun bucks", got)
	}
	if parent.IsKid() {
		t.Error("IsKid() should be false for a parent")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NewNotFound("chore", 7), ErrNotFound},
		{"invalid state", NewInvalidState("already completed"), ErrInvalidState},
		{"validation", NewValidation("only kids can redeem prizes"), ErrValidation},
		{"insufficient funds", NewInsufficientFunds(20, 10), ErrInsufficientFunds},
		{"store failure", NewStoreError("insert transaction", errors.New("disk full")), ErrStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
		})
	}
}

func TestStoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewStoreError("update balance", cause)
	if !errors.Is(err, cause) {
		t.Error("StoreError should unwrap to its cause")
	}
}

func TestInsufficientFundsFields(t *testing.T) {
	var insufficient *InsufficientFundsError
	err := NewInsufficientFunds(20, 10)
	if !errors.As(err, &insufficient) {
		t.Fatal("errors.As failed")
	}
	if insufficient.Required != 20 || insufficient.Available != 10 {
		t.Errorf("required/available = %d/%d, want 20/10", insufficient.Required, insufficient.Available)
	}
}

func TestPatchValidate(t *testing.T) {
	if err := (PersonPatch{}).Validate(); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("empty PersonPatch error = %v, want ErrEmptyPatch", err)
	}
	if err := (ChorePatch{}).Validate(); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("empty ChorePatch error = %v, want ErrEmptyPatch", err)
	}
	if err := (PrizePatch{}).Validate(); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("empty PrizePatch error = %v, want ErrEmptyPatch", err)
	}

	badReward := int64(-5)
	if err := (ChorePatch{Reward: &badReward}).Validate(); !errors.Is(err, ErrNegativeReward) {
		t.Errorf("negative reward error = %v, want ErrNegativeReward", err)
	}

	name := "Mia"
	if err := (PersonPatch{Name: &name}).Validate(); err != nil {
		t.Errorf("valid patch error = %v, want nil", err)
	}
}
