package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

const (
	RoleKid    Role = "kid"
	RoleParent Role = "parent"
)

const (
	KindEarned TransactionKind = "earned"
	KindSpent  TransactionKind = "spent"
)

type (
	// Frequency is the recurrence class of a chore, governing automatic reset.
	Frequency string

	// Role distinguishes kids (who earn and spend Fun Bucks) from parents.
	Role string

	// TransactionKind is the direction of a ledger movement.
	TransactionKind string

	Person struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Role      Role      `json:"role"`
		Avatar    string    `json:"avatar"`
		Color     string    `json:"color"`
		FunBucks  *int64    `json:"fun_bucks"` // nil for parents
		CreatedAt time.Time `json:"created_at"`
	}

	Chore struct {
		ID              int64      `json:"id"`
		Title           string     `json:"title"`
		AssignedTo      int64      `json:"assigned_to"`
		Reward          int64      `json:"reward"`
		Frequency       Frequency  `json:"frequency"`
		Completed       bool       `json:"completed"`
		LastCompletedAt *time.Time `json:"last_completed_at"`
		CreatedAt       time.Time  `json:"created_at"`
	}

	Prize struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Cost      int64     `json:"cost"`
		Emoji     string    `json:"emoji"`
		CreatedAt time.Time `json:"created_at"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		PersonID    int64           `json:"person_id"`
		Kind        TransactionKind `json:"kind"`
		Amount      int64           `json:"amount"`
		Description string          `json:"description"`
		ChoreID     *int64          `json:"chore_id"`
		PrizeID     *int64          `json:"prize_id"`
		CreatedAt   time.Time       `json:"created_at"`
	}

	// ChoreWithAssignee is a chore joined with the assignee's display fields,
	// the shape returned by the chore endpoints.
	ChoreWithAssignee struct {
		Chore
		AssignedName     string `json:"assigned_name"`
		AssignedAvatar   string `json:"assigned_avatar"`
		AssignedColor    string `json:"assigned_color"`
		AssignedFunBucks *int64 `json:"assigned_fun_bucks,omitempty"`
	}

	// TransactionWithRefs is a ledger row joined with display fields of the
	// entities it references.
	TransactionWithRefs struct {
		Transaction
		PersonName   string `json:"person_name,omitempty"`
		PersonAvatar string `json:"person_avatar,omitempty"`
		ChoreTitle   string `json:"chore_title,omitempty"`
		PrizeName    string `json:"prize_name,omitempty"`
	}
)

var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrInvalidRole      = errors.New(`role must be "kid" or "parent"`)
	ErrInvalidFrequency = errors.New(`frequency must be "daily", "weekly" or "monthly"`)
	ErrNegativeReward   = errors.New("reward cannot be negative")
	ErrNegativeCost     = errors.New("cost cannot be negative")
	ErrMissingAssignee  = errors.New("chore must be assigned to a person")
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	return r == RoleKid || r == RoleParent
}

// Balance returns the person's Fun Bucks balance. Parents, who carry no
// balance, report zero.
func (p Person) Balance() int64 {
	if p.FunBucks == nil {
		return 0
	}
	return *p.FunBucks
}

func (p Person) IsKid() bool {
	return p.Role == RoleKid
}

func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

func (c Chore) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if c.AssignedTo == 0 {
		return ErrMissingAssignee
	}
	if c.Reward < 0 {
		return ErrNegativeReward
	}
	if !c.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (p Prize) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Cost < 0 {
		return ErrNegativeCost
	}
	return nil
}
