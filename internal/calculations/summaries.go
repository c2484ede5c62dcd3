package calculations

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAllocation is the share of a portfolio's current value held in one category.
type CategoryAllocation struct {
	Category     string  `json:"category"`
	Value        float64 `json:"value"`
	SharePercent float64 `json:"share_percent"`
}

// PortfolioSummary aggregates a set of investments. ReturnPercent is nil when
// nothing is invested.
type PortfolioSummary struct {
	TotalInvested float64              `json:"total_invested"`
	TotalValue    float64              `json:"total_value"`
	CapitalGain   float64              `json:"capital_gain"`
	ReturnPercent *float64             `json:"return_percent,omitempty"`
	Allocation    []CategoryAllocation `json:"allocation"`
}

// SummarizePortfolio totals investments, computes the overall return and the
// allocation of current value across categories. Categories follow the order of
// InvestmentCategories; categories outside that set come last, sorted by name.
func SummarizePortfolio(investments []Investment) (PortfolioSummary, error) {
	invested, err := TotalOf(investments, func(i Investment) float64 { return i.Amount })
	if err != nil {
		return PortfolioSummary{}, err
	}
	value, err := TotalOf(investments, func(i Investment) float64 { return i.CurrentValue })
	if err != nil {
		return PortfolioSummary{}, err
	}

	summary := PortfolioSummary{
		TotalInvested: invested,
		TotalValue:    value,
		CapitalGain:   decimal.NewFromFloat(value).Sub(decimal.NewFromFloat(invested)).InexactFloat64(),
	}

	ret, err := PercentageReturn(invested, value)
	switch {
	case err == nil:
		summary.ReturnPercent = &ret
	case !errors.Is(err, ErrUndefinedResult):
		return PortfolioSummary{}, err
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, inv := range investments {
		category := inv.Category
		if canonical, err := MatchCategory(InvestmentCategories, category); err == nil {
			category = canonical
		}
		byCategory[category] = byCategory[category].Add(decimal.NewFromFloat(inv.CurrentValue))
	}

	order := make([]string, 0, len(byCategory))
	for _, c := range InvestmentCategories {
		if _, ok := byCategory[c]; ok {
			order = append(order, c)
		}
	}
	var extra []string
	for c := range byCategory {
		if _, err := MatchCategory(InvestmentCategories, c); err != nil {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	summary.Allocation = make([]CategoryAllocation, 0, len(order))
	for _, c := range order {
		// categories holding nothing are left out of the allocation
		if !byCategory[c].IsPositive() {
			continue
		}
		v := byCategory[c].InexactFloat64()
		share := 0.0
		if value != 0 {
			share = v / value * 100
		}
		summary.Allocation = append(summary.Allocation, CategoryAllocation{Category: c, Value: v, SharePercent: share})
	}
	return summary, nil
}

// BudgetStatus is the spending state of one budget. ProgressPercent is the true
// ratio; BarPercent is the same value clamped to [0, 100] for progress bars.
type BudgetStatus struct {
	Category        string  `json:"category"`
	Amount          float64 `json:"amount"`
	Spent           float64 `json:"spent"`
	Remaining       float64 `json:"remaining"`
	ProgressPercent float64 `json:"progress_percent"`
	BarPercent      float64 `json:"bar_percent"`
	OverBudget      bool    `json:"over_budget"`
}

type BudgetSummary struct {
	TotalBudget float64        `json:"total_budget"`
	TotalSpent  float64        `json:"total_spent"`
	Budgets     []BudgetStatus `json:"budgets"`
}

// SummarizeBudgets reports per-budget progress. A budget with a zero amount has
// no defined progress and fails the whole summary.
func SummarizeBudgets(budgets []Budget) (BudgetSummary, error) {
	totalBudget, err := TotalOf(budgets, func(b Budget) float64 { return b.Amount })
	if err != nil {
		return BudgetSummary{}, err
	}
	totalSpent, err := TotalOf(budgets, func(b Budget) float64 { return b.Spent })
	if err != nil {
		return BudgetSummary{}, err
	}
	summary := BudgetSummary{
		TotalBudget: totalBudget,
		TotalSpent:  totalSpent,
		Budgets:     make([]BudgetStatus, 0, len(budgets)),
	}
	for _, b := range budgets {
		progress, err := ProgressRatio(b.Spent, b.Amount)
		if err != nil {
			return BudgetSummary{}, err
		}
		summary.Budgets = append(summary.Budgets, BudgetStatus{
			Category:        b.Category,
			Amount:          b.Amount,
			Spent:           b.Spent,
			Remaining:       b.Amount - b.Spent,
			ProgressPercent: progress,
			BarPercent:      math.Min(math.Max(progress, 0), 100),
			OverBudget:      b.Spent > b.Amount,
		})
	}
	return summary, nil
}

// MonthlySubscriptionCost is the sum of all subscriptions normalized to a month.
func MonthlySubscriptionCost(subs []Subscription) (float64, error) {
	total := decimal.Zero
	for _, s := range subs {
		monthly, err := NormalizeToMonthly(s.Amount, s.BillingCycle)
		if err != nil {
			return 0, err
		}
		total = total.Add(decimal.NewFromFloat(monthly))
	}
	return total.InexactFloat64(), nil
}

// DebtStatus is the repayment state of one debt.
type DebtStatus struct {
	Name            string  `json:"name"`
	RepaidPercent   float64 `json:"repaid_percent"`
	MonthsRemaining int     `json:"months_remaining"`
}

type DebtSummary struct {
	TotalRemaining float64      `json:"total_remaining"`
	TotalEMI       float64      `json:"total_emi"`
	Debts          []DebtStatus `json:"debts"`
}

// SummarizeDebts totals outstanding balances and installments as of now.
func SummarizeDebts(debts []Debt, now time.Time) (DebtSummary, error) {
	remaining, err := TotalOf(debts, func(d Debt) float64 { return d.RemainingAmount })
	if err != nil {
		return DebtSummary{}, err
	}
	emi, err := TotalOf(debts, func(d Debt) float64 { return d.EMI })
	if err != nil {
		return DebtSummary{}, err
	}
	summary := DebtSummary{
		TotalRemaining: remaining,
		TotalEMI:       emi,
		Debts:          make([]DebtStatus, 0, len(debts)),
	}
	for _, d := range debts {
		repaid, err := ProgressRatio(d.Amount-d.RemainingAmount, d.Amount)
		if err != nil {
			return DebtSummary{}, err
		}
		summary.Debts = append(summary.Debts, DebtStatus{
			Name:            d.Name,
			RepaidPercent:   repaid,
			MonthsRemaining: MonthsRemaining(d, now),
		})
	}
	return summary, nil
}

// MonthsRemaining counts down the tenure of d by the 30-day months elapsed
// since its start date. It goes negative once the tenure has run out.
func MonthsRemaining(d Debt, now time.Time) int {
	elapsed := int(math.Floor(float64(now.Unix()-d.StartDate.Unix()) / secondsPerDay / 30))
	return d.TenureMonths - elapsed
}

// GoalStatus is the progress of one savings goal.
type GoalStatus struct {
	Name            string  `json:"name"`
	ProgressPercent float64 `json:"progress_percent"`
	DaysLeft        int     `json:"days_left"`
	Overdue         bool    `json:"overdue"`
}

// GoalProgress reports how far g is toward its target and how many days remain
// until its deadline as of now.
func GoalProgress(g Goal, now time.Time) (GoalStatus, error) {
	progress, err := ProgressRatio(g.SavedAmount, g.TargetAmount)
	if err != nil {
		return GoalStatus{}, err
	}
	days := DaysBetween(now, g.Deadline)
	return GoalStatus{
		Name:            g.Name,
		ProgressPercent: progress,
		DaysLeft:        days,
		Overdue:         days < 0,
	}, nil
}

// TransactionSummary splits a ledger of transactions into income and expense.
// SavingsRatePercent is nil when there is no income.
type TransactionSummary struct {
	Income             float64  `json:"income"`
	Expense            float64  `json:"expense"`
	Net                float64  `json:"net"`
	SavingsRatePercent *float64 `json:"savings_rate_percent,omitempty"`
}

func SummarizeTransactions(txs []Transaction) (TransactionSummary, error) {
	income, expense := decimal.Zero, decimal.Zero
	for i, t := range txs {
		amount, err := finiteDecimal(i, t.Amount)
		if err != nil {
			return TransactionSummary{}, err
		}
		switch t.Kind {
		case Income:
			income = income.Add(amount)
		case Expense:
			expense = expense.Add(amount)
		default:
			return TransactionSummary{}, invalidf("transaction %d has unknown type %q", i, t.Kind)
		}
	}
	net := income.Sub(expense)
	summary := TransactionSummary{
		Income:  income.InexactFloat64(),
		Expense: expense.InexactFloat64(),
		Net:     net.InexactFloat64(),
	}
	if !income.IsZero() {
		rate := net.Div(income).Mul(hundred).InexactFloat64()
		summary.SavingsRatePercent = &rate
	}
	return summary, nil
}

// WalletBalances sums wallet balances per currency. Currencies are never converted.
func WalletBalances(wallets []Wallet) (map[string]float64, error) {
	sums := make(map[string]decimal.Decimal)
	for i, w := range wallets {
		balance, err := finiteDecimal(i, w.Balance)
		if err != nil {
			return nil, err
		}
		sums[w.Currency] = sums[w.Currency].Add(balance)
	}
	out := make(map[string]float64, len(sums))
	for cur, v := range sums {
		out[cur] = v.InexactFloat64()
	}
	return out, nil
}
