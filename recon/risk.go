package recon

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/ledgerclose/record"
)

// DefaultRiskThreshold is the score at or below which a transaction may
// auto-reconcile without human sign-off.
const DefaultRiskThreshold = 50.0

var (
	amount10k = decimal.NewFromInt(10000)
	amount5k  = decimal.NewFromInt(5000)
	amount1k  = decimal.NewFromInt(1000)

	highRiskCategories = map[string]bool{
		"consulting":    true,
		"legal":         true,
		"miscellaneous": true,
	}
	lowRiskCategories = map[string]bool{
		"utilities": true,
		"payroll":   true,
		"rent":      true,
		"insurance": true,
	}
)

// RiskScore estimates how much scrutiny a transaction warrants before
// auto-approval, as a score in [0, 100]. The components are bounded by
// construction (at most 50 + 25 + 15 = 90), so no clamping is needed.
//
// The amount component scores the absolute amount: a large refund deserves
// the same scrutiny as a large payment.
func RiskScore(txn record.Transaction) float64 {
	score := 0.0

	amount := txn.Amount.Abs()
	switch {
	case amount.GreaterThan(amount10k):
		score += 50
	case amount.GreaterThan(amount5k):
		score += 30
	case amount.GreaterThan(amount1k):
		score += 15
	default:
		score += 5
	}

	category := strings.ToLower(strings.TrimSpace(txn.Category))
	switch {
	case highRiskCategories[category]:
		score += 25
	case lowRiskCategories[category]:
		score += 5
	default:
		score += 15
	}

	if strings.TrimSpace(txn.Vendor) == "" {
		score += 15
	}

	return score
}

// AutoReconcile splits transactions into those eligible for automatic
// reconciliation (risk score at or below threshold) and those that remain
// pending human review. Input order is preserved on both sides.
func AutoReconcile(txns []record.Transaction, threshold float64) (eligible, pending []record.Transaction) {
	for _, txn := range txns {
		if RiskScore(txn) <= threshold {
			eligible = append(eligible, txn)
		} else {
			pending = append(pending, txn)
		}
	}
	return eligible, pending
}
