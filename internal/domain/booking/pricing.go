package booking

import "fmt"

// DepositPolicy decides how much of a booking's total is due up front.
type DepositPolicy interface {
	// Deposit returns the deposit in cents for the given total.
	Deposit(totalCents int64) (int64, error)
}

// HalfDepositPolicy charges half of the total, rounding odd cents up.
type HalfDepositPolicy struct{}

// NewHalfDepositPolicy creates a new HalfDepositPolicy.
func NewHalfDepositPolicy() *HalfDepositPolicy {
	return &HalfDepositPolicy{}
}

// Deposit computes ceil(total / 2).
func (p *HalfDepositPolicy) Deposit(totalCents int64) (int64, error) {
	if totalCents < 0 {
		return 0, fmt.Errorf("total cannot be negative")
	}
	return totalCents - totalCents/2, nil
}
