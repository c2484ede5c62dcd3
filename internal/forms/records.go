package forms

import (
	"strings"

	"github.com/cloud-ru/finance-engine-go/internal/calculations"
)

func ParseTransaction(m map[string]interface{}) (calculations.Transaction, error) {
	var t calculations.Transaction
	kind, err := String(m, "type")
	if err != nil {
		return t, err
	}
	set := calculations.ExpenseCategories
	switch calculations.TransactionKind(strings.ToLower(kind)) {
	case calculations.Income:
		t.Kind = calculations.Income
		set = calculations.IncomeCategories
	case calculations.Expense:
		t.Kind = calculations.Expense
	default:
		return t, Invalid("type", "unknown transaction type %q", kind)
	}
	if t.Amount, err = NonNegative(m, "amount"); err != nil {
		return t, err
	}
	if t.Category, err = category(m, "category", set); err != nil {
		return t, err
	}
	if t.Description, err = OptionalString(m, "description"); err != nil {
		return t, err
	}
	if t.Date, err = OptionalDate(m, "date"); err != nil {
		return t, err
	}
	return t, nil
}

func ParseWallet(m map[string]interface{}) (calculations.Wallet, error) {
	var w calculations.Wallet
	var err error
	if w.Name, err = String(m, "name"); err != nil {
		return w, err
	}
	if w.Type, err = String(m, "type"); err != nil {
		return w, err
	}
	w.Type = strings.ToLower(w.Type)
	currencies, ok := calculations.WalletCurrencies[w.Type]
	if !ok {
		return w, Invalid("type", "unknown wallet type %q", w.Type)
	}
	currency, err := String(m, "currency")
	if err != nil {
		return w, err
	}
	if w.Currency, err = calculations.MatchCategory(currencies, currency); err != nil {
		return w, Invalid("currency", "%q is not a %s currency", currency, w.Type)
	}
	if w.Balance, err = NonNegative(m, "balance"); err != nil {
		return w, err
	}
	return w, nil
}

func ParseInvestment(m map[string]interface{}) (calculations.Investment, error) {
	var inv calculations.Investment
	var err error
	if inv.Name, err = String(m, "name"); err != nil {
		return inv, err
	}
	if inv.Category, err = category(m, "category", calculations.InvestmentCategories); err != nil {
		return inv, err
	}
	if inv.Amount, err = NonNegative(m, "amount"); err != nil {
		return inv, err
	}
	if inv.CurrentValue, err = NonNegative(m, "currentValue"); err != nil {
		return inv, err
	}
	if inv.PurchaseDate, err = OptionalDate(m, "purchaseDate"); err != nil {
		return inv, err
	}
	return inv, nil
}

func ParseBudget(m map[string]interface{}) (calculations.Budget, error) {
	var b calculations.Budget
	var err error
	if b.Category, err = category(m, "category", calculations.BudgetCategories); err != nil {
		return b, err
	}
	if b.Amount, err = NonNegative(m, "amount"); err != nil {
		return b, err
	}
	if b.Spent, err = optionalNonNegative(m, "spent"); err != nil {
		return b, err
	}
	if b.Description, err = OptionalString(m, "description"); err != nil {
		return b, err
	}
	return b, nil
}

func ParseSubscription(m map[string]interface{}) (calculations.Subscription, error) {
	var s calculations.Subscription
	var err error
	if s.Name, err = String(m, "name"); err != nil {
		return s, err
	}
	if s.Amount, err = NonNegative(m, "amount"); err != nil {
		return s, err
	}
	if s.Category, err = category(m, "category", calculations.SubscriptionCategories); err != nil {
		return s, err
	}
	cycle, err := String(m, "billingCycle")
	if err != nil {
		return s, err
	}
	if s.BillingCycle, err = calculations.ParseBillingCycle(cycle); err != nil {
		return s, err
	}
	if s.NextBilling, err = OptionalDate(m, "nextBilling"); err != nil {
		return s, err
	}
	return s, nil
}

// ParseDebt reads a debt record. A missing emi is computed from the amount,
// interest rate and tenure the way the debt form does on submit.
func ParseDebt(m map[string]interface{}) (calculations.Debt, error) {
	var d calculations.Debt
	var err error
	if d.Name, err = String(m, "name"); err != nil {
		return d, err
	}
	if d.Type, err = category(m, "type", calculations.DebtTypes); err != nil {
		return d, err
	}
	if d.Amount, err = NonNegative(m, "amount"); err != nil {
		return d, err
	}
	if d.RemainingAmount, err = OptionalNumber(m, "remainingAmount", d.Amount); err != nil {
		return d, err
	}
	if d.RemainingAmount < 0 {
		return d, Invalid("remainingAmount", "must not be negative")
	}
	if d.InterestRate, err = optionalNonNegative(m, "interestRate"); err != nil {
		return d, err
	}
	if d.TenureMonths, err = Int(m, "tenure"); err != nil {
		return d, err
	}
	if d.StartDate, err = Date(m, "startDate"); err != nil {
		return d, err
	}
	if d.Lender, err = OptionalString(m, "lender"); err != nil {
		return d, err
	}

	if _, ok := present(m, "emi"); ok {
		d.EMI, err = NonNegative(m, "emi")
		return d, err
	}
	res, err := calculations.ComputeAmortization(d.Amount, d.InterestRate, d.TenureMonths)
	if err != nil {
		return d, err
	}
	d.EMI = res.PeriodicPayment
	return d, nil
}

func ParseGoal(m map[string]interface{}) (calculations.Goal, error) {
	var g calculations.Goal
	var err error
	if g.Name, err = String(m, "name"); err != nil {
		return g, err
	}
	if g.Category, err = category(m, "category", calculations.GoalCategories); err != nil {
		return g, err
	}
	if g.TargetAmount, err = NonNegative(m, "targetAmount"); err != nil {
		return g, err
	}
	if g.SavedAmount, err = optionalNonNegative(m, "savedAmount"); err != nil {
		return g, err
	}
	if g.Deadline, err = Date(m, "deadline"); err != nil {
		return g, err
	}
	return g, nil
}

func category(m map[string]interface{}, key string, set []string) (string, error) {
	name, err := String(m, key)
	if err != nil {
		return "", err
	}
	return calculations.MatchCategory(set, name)
}

func optionalNonNegative(m map[string]interface{}, key string) (float64, error) {
	n, err := OptionalNumber(m, key, 0)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, Invalid(key, "must not be negative, got %v", n)
	}
	return n, nil
}
