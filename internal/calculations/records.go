package calculations

import (
	"strings"
	"time"
)

// Category sets offered by the dashboard forms. A record belongs to exactly one
// category of its set.
var (
	InvestmentCategories = []string{
		"Stocks", "Mutual Funds", "Fixed Deposits", "Real Estate", "Gold",
		"Cryptocurrency", "Bonds", "PPF", "NPS", "Others",
	}
	BudgetCategories = []string{
		"Housing", "Transportation", "Food", "Utilities", "Insurance", "Healthcare",
		"Savings", "Entertainment", "Shopping", "Personal Care", "Education", "Other",
	}
	SubscriptionCategories = []string{
		"Streaming", "Software", "Gaming", "Cloud Storage", "Music", "Fitness", "News", "Other",
	}
	GoalCategories = []string{
		"Savings", "Investment", "Property", "Education", "Travel", "Vehicle", "Other",
	}
	DebtTypes = []string{
		"Personal Loan", "Home Loan", "Car Loan", "Education Loan", "Credit Card", "Business Loan", "Other",
	}
	IncomeCategories = []string{
		"Salary", "Freelance", "Investments", "Rental", "Business", "Dividends", "Other",
	}
	ExpenseCategories = []string{
		"Food & Dining", "Transport", "Shopping", "Bills & Utilities", "Entertainment",
		"Healthcare", "Education", "Travel", "Personal Care", "Home", "Other",
	}
	WalletCurrencies = map[string][]string{
		"fiat":   {"INR", "USD", "EUR", "GBP"},
		"crypto": {"BTC", "ETH", "BNB", "USDT"},
	}
)

// MatchCategory returns the canonical spelling of name within set, matching
// case-insensitively.
func MatchCategory(set []string, name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, c := range set {
		if strings.EqualFold(c, name) {
			return c, nil
		}
	}
	return "", invalidf("unknown category %q", name)
}

// BillingCycle is the period a subscription price is quoted for.
type BillingCycle string

const (
	BillingMonthly   BillingCycle = "Monthly"
	BillingQuarterly BillingCycle = "Quarterly"
	BillingYearly    BillingCycle = "Yearly"
)

// ParseBillingCycle accepts the cycle names case-insensitively.
func ParseBillingCycle(s string) (BillingCycle, error) {
	for _, c := range []BillingCycle{BillingMonthly, BillingQuarterly, BillingYearly} {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", invalidf("unknown billing cycle %q", s)
}

// TransactionKind tells income from expense.
type TransactionKind string

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

// FieldValuer is implemented by records that expose numeric fields by name.
type FieldValuer interface {
	FieldValue(field string) (float64, bool)
}

type Transaction struct {
	Kind        TransactionKind `json:"type"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}

func (t Transaction) FieldValue(field string) (float64, bool) {
	if field == "amount" {
		return t.Amount, true
	}
	return 0, false
}

// Wallet balances are in the wallet's own currency and never converted.
type Wallet struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"` // fiat or crypto
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
}

func (w Wallet) FieldValue(field string) (float64, bool) {
	if field == "balance" {
		return w.Balance, true
	}
	return 0, false
}

type Investment struct {
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Amount       float64   `json:"amount"` // invested
	CurrentValue float64   `json:"currentValue"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

func (i Investment) FieldValue(field string) (float64, bool) {
	switch field {
	case "amount":
		return i.Amount, true
	case "currentValue":
		return i.CurrentValue, true
	}
	return 0, false
}

type Budget struct {
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"` // allotted
	Spent       float64 `json:"spent"`
	Description string  `json:"description,omitempty"`
}

func (b Budget) FieldValue(field string) (float64, bool) {
	switch field {
	case "amount":
		return b.Amount, true
	case "spent":
		return b.Spent, true
	}
	return 0, false
}

type Subscription struct {
	Name         string       `json:"name"`
	Amount       float64      `json:"amount"`
	Category     string       `json:"category"`
	BillingCycle BillingCycle `json:"billingCycle"`
	NextBilling  time.Time    `json:"nextBilling"`
}

func (s Subscription) FieldValue(field string) (float64, bool) {
	if field == "amount" {
		return s.Amount, true
	}
	return 0, false
}

type Debt struct {
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Amount          float64   `json:"amount"`
	RemainingAmount float64   `json:"remainingAmount"`
	InterestRate    float64   `json:"interestRate"`
	TenureMonths    int       `json:"tenure"`
	StartDate       time.Time `json:"startDate"`
	EMI             float64   `json:"emi"`
	Lender          string    `json:"lender,omitempty"`
}

func (d Debt) FieldValue(field string) (float64, bool) {
	switch field {
	case "amount":
		return d.Amount, true
	case "remainingAmount":
		return d.RemainingAmount, true
	case "emi":
		return d.EMI, true
	}
	return 0, false
}

type Goal struct {
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	TargetAmount float64   `json:"targetAmount"`
	SavedAmount  float64   `json:"savedAmount"`
	Deadline     time.Time `json:"deadline"`
}

func (g Goal) FieldValue(field string) (float64, bool) {
	switch field {
	case "targetAmount":
		return g.TargetAmount, true
	case "savedAmount":
		return g.SavedAmount, true
	}
	return 0, false
}
