package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CreditCard   DebtKind = "credit_card"
	PersonalLoan DebtKind = "personal_loan"
	AutoLoan     DebtKind = "auto_loan"
	Mortgage     DebtKind = "mortgage"
	StudentLoan  DebtKind = "student_loan"
	LineOfCredit DebtKind = "line_of_credit"
	OtherDebt    DebtKind = "other"
)

const (
	Weekly      Frequency = "weekly"
	BiWeekly    Frequency = "bi-weekly"
	SemiMonthly Frequency = "semi-monthly"
	Monthly     Frequency = "monthly"
	Quarterly   Frequency = "quarterly"
	Yearly      Frequency = "yearly"
)

const (
	Income  ItemType = "income"
	Expense ItemType = "expense"
)

type (
	DebtKind  string
	Frequency string
	ItemType  string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// DebtItem is a point-in-time snapshot of a debt. The calculation
	// packages never mutate it; derived figures come back in result records.
	DebtItem struct {
		ID                int64
		Name              string
		Kind              DebtKind
		Balance           Money
		AnnualRatePercent float64
		MinimumPayment    Money
		// CreditLimit is zero when the product has no limit on record.
		// Utilization stays unclassified in that case.
		CreditLimit Money
	}

	// BudgetLineItem is a recurring income or expense template. Amount is
	// always the per-occurrence amount, never pre-multiplied by frequency.
	BudgetLineItem struct {
		ID        int64
		Name      string
		Type      ItemType
		Amount    Money
		Category  string
		Frequency Frequency
		AnchorDay int
		StartDate Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRate      = errors.New("invalid interest rate")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidKind      = errors.New("invalid debt kind")
	ErrInvalidItemType  = errors.New("invalid item type")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (k DebtKind) Valid() bool {
	switch k {
	case CreditCard, PersonalLoan, AutoLoan, Mortgage, StudentLoan, LineOfCredit, OtherDebt:
		return true
	}
	return false
}

// Known reports whether the frequency has a defined monthly-equivalent
// conversion. Unknown frequencies are handled with an identity fallback and
// should be flagged as a data-quality issue by the caller, not rejected.
func (f Frequency) Known() bool {
	switch f {
	case Weekly, BiWeekly, SemiMonthly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

func (t ItemType) Valid() bool {
	return t == Income || t == Expense
}

func (d DebtItem) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if !d.Kind.Valid() {
		return ErrInvalidKind
	}
	if d.Balance.Cents < 0 {
		return ErrInvalidAmount
	}
	if d.AnnualRatePercent < 0 || d.AnnualRatePercent > 100 {
		return ErrInvalidRate
	}
	if d.MinimumPayment.Cents <= 0 {
		return ErrInvalidAmount
	}
	if d.CreditLimit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b BudgetLineItem) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if !b.Type.Valid() {
		return ErrInvalidItemType
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !b.Frequency.Known() {
		return ErrInvalidFrequency
	}
	if b.AnchorDay < 1 || b.AnchorDay > 31 {
		return ErrInvalidDay
	}
	return nil
}
