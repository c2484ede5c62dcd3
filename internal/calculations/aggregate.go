package calculations

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/finance-engine-go/pkg/utils"
)

// TotalOf sums value over records. An empty collection totals 0. The sum is
// accumulated in decimal so that totals of cent amounts do not drift. A
// non-finite value fails with ErrInvalidInput.
func TotalOf[T any](records []T, value func(T) float64) (float64, error) {
	total := decimal.Zero
	for i, r := range records {
		d, err := finiteDecimal(i, value(r))
		if err != nil {
			return 0, err
		}
		total = total.Add(d)
	}
	return total.InexactFloat64(), nil
}

// TotalOfField sums the named numeric field over records. It fails with
// ErrInvalidInput when a record has no such field.
func TotalOfField[T FieldValuer](records []T, field string) (float64, error) {
	total := decimal.Zero
	for i, r := range records {
		v, ok := r.FieldValue(field)
		if !ok {
			return 0, invalidf("record %d has no numeric field %q", i, field)
		}
		d, err := finiteDecimal(i, v)
		if err != nil {
			return 0, err
		}
		total = total.Add(d)
	}
	return total.InexactFloat64(), nil
}

func finiteDecimal(record int, v float64) (decimal.Decimal, error) {
	if !utils.IsFinite(v) {
		return decimal.Zero, invalidf("record %d has a non-finite amount", record)
	}
	return decimal.NewFromFloat(v), nil
}

// PercentageReturn is (currentValue-invested)/invested*100. With nothing
// invested the return is undefined: it yields 0 and ErrUndefinedResult.
func PercentageReturn(invested, currentValue float64) (float64, error) {
	if !utils.IsFinite(invested) || !utils.IsFinite(currentValue) {
		return 0, invalidf("amounts must be finite numbers")
	}
	if invested == 0 {
		return 0, undefinedf("percentage return on zero invested amount")
	}
	return (currentValue - invested) / invested * 100, nil
}

// NormalizeToMonthly converts an amount billed every cycle to its monthly equivalent.
func NormalizeToMonthly(amount float64, cycle BillingCycle) (float64, error) {
	if !utils.IsFinite(amount) {
		return 0, invalidf("amount must be a finite number")
	}
	switch cycle {
	case BillingMonthly:
		return amount, nil
	case BillingQuarterly:
		return amount / 3, nil
	case BillingYearly:
		return amount / 12, nil
	}
	return 0, invalidf("unknown billing cycle %q", cycle)
}

// ProgressRatio is current/target*100. It is not clamped: over-spent budgets and
// over-saved goals exceed 100. A zero target has no defined progress and the
// error matches both ErrInvalidInput and ErrUndefinedResult.
func ProgressRatio(current, target float64) (float64, error) {
	if !utils.IsFinite(current) || !utils.IsFinite(target) {
		return 0, invalidf("amounts must be finite numbers")
	}
	if target == 0 {
		return 0, fmt.Errorf("%w: %w: progress against a zero target", ErrInvalidInput, ErrUndefinedResult)
	}
	return current / target * 100, nil
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the whole days from a to b, rounding up toward b's side.
// It is negative when a is after b, e.g. for an overdue deadline.
func DaysBetween(a, b time.Time) int {
	secs := b.Unix() - a.Unix()
	nanos := int64(b.Nanosecond() - a.Nanosecond())
	if nanos < 0 {
		secs--
		nanos += int64(time.Second)
	}
	days := secs / secondsPerDay
	if secs%secondsPerDay > 0 || (secs%secondsPerDay == 0 && nanos > 0) {
		days++
	}
	return int(days)
}
