// Package amortize implements the constant-payment, constant-rate monthly
// compounding model used for payoff projections.
//
// All functions are pure. Currency comes in and goes out as core.Money;
// the rate arithmetic in between runs in float64 and is rounded back to
// cents before returning.
package amortize

import (
	"errors"
	"math"

	"github.com/prabavijay/financeflowapp2/internal/core"
)

// ErrNonAmortizing reports a payment that does not cover the first month's
// interest charge. The balance would grow forever under such a payment, so
// months-to-payoff is undefined. Callers surface this to the user instead of
// returning a huge or negative number.
var ErrNonAmortizing = errors.New("payment does not cover monthly interest")

// MonthlyRate converts an annual percentage rate to a monthly decimal rate.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// MonthsToPayoff returns the number of whole months needed to pay off a
// balance at the given payment and annual rate.
//
// A non-positive balance or payment short-circuits to 0 (the "no debt" path;
// malformed input is the boundary's job to reject, but it never produces a
// nonsensical amortization here). A zero rate reduces to ceil(balance/payment)
// computed exactly in cents. Otherwise the closed-form annuity formula
// applies, and ErrNonAmortizing is returned when payment <= balance * rate.
func MonthsToPayoff(balance, payment core.Money, annualRatePercent float64) (int, error) {
	if balance.Cents <= 0 || payment.Cents <= 0 {
		return 0, nil
	}
	if annualRatePercent == 0 {
		// Ceiling division on cents, exact.
		months := (balance.Cents + payment.Cents - 1) / payment.Cents
		return int(months), nil
	}

	r := MonthlyRate(annualRatePercent)
	b := balance.Dollars()
	p := payment.Dollars()

	// The log argument 1 - b*r/p is non-positive exactly when the payment
	// fails to cover the first month's interest.
	ratio := 1 - b*r/p
	if ratio <= 0 {
		return 0, ErrNonAmortizing
	}

	months := math.Ceil(-math.Log(ratio) / math.Log(1+r))
	if math.IsNaN(months) || math.IsInf(months, 0) || months < 0 {
		return 0, ErrNonAmortizing
	}
	return int(months), nil
}

// TotalInterest returns the interest paid over the full payoff horizon:
// months * payment - balance, clamped at zero since rounding can otherwise
// yield a small negative on the final short month.
func TotalInterest(balance, payment core.Money, annualRatePercent float64) (core.Money, error) {
	months, err := MonthsToPayoff(balance, payment, annualRatePercent)
	if err != nil {
		return core.Money{}, err
	}
	interest := int64(months)*payment.Cents - balance.Cents
	if interest < 0 {
		interest = 0
	}
	return core.Money{Cents: interest}, nil
}

// MonthlyEquivalent normalizes a per-occurrence amount to its monthly
// equivalent. Unknown frequencies pass through unchanged; the caller is
// expected to flag those as a data-quality issue rather than fail.
func MonthlyEquivalent(amount core.Money, frequency core.Frequency) core.Money {
	switch frequency {
	case core.Weekly:
		return core.MoneyFromFloat(amount.Dollars() * 52 / 12)
	case core.BiWeekly:
		return core.MoneyFromFloat(amount.Dollars() * 26 / 12)
	case core.SemiMonthly:
		return core.Money{Cents: amount.Cents * 2}
	case core.Monthly:
		return amount
	case core.Quarterly:
		return core.MoneyFromFloat(amount.Dollars() / 3)
	case core.Yearly:
		return core.MoneyFromFloat(amount.Dollars() / 12)
	default:
		return amount
	}
}
