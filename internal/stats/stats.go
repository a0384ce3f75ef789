// Package stats derives summary statistics from a transaction snapshot.
// Every function is pure: it never mutates its input and returns freshly
// allocated results.
package stats

import (
	"math"
	"sort"
	"time"
	"unicode"

	"walletwiz/internal/models"
)

// Totals are the running sums shown on the dashboard cards.
type Totals struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	TotalBalance float64 `json:"totalBalance"`
}

// Averages are per-month averages over months that had at least one
// transaction of the respective type.
type Averages struct {
	AvgIncome  float64 `json:"avgIncome"`
	AvgExpense float64 `json:"avgExpense"`
}

// MonthPoint is one month of the income-vs-expense time series.
type MonthPoint struct {
	Month   string  `json:"month"`
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategorySlice is one slice of the expense breakdown pie.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ComputeTotals sums amounts by type. TotalBalance is exactly
// TotalIncome - TotalExpense; an empty snapshot yields all zeros.
func ComputeTotals(transactions []models.Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			t.TotalIncome += tx.Amount.Float64()
		case models.TransactionTypeExpense:
			t.TotalExpense += tx.Amount.Float64()
		}
	}
	t.TotalBalance = t.TotalIncome - t.TotalExpense
	return t
}

// MonthlyAverages groups amounts by calendar month, separately per type, and
// averages over the months that had at least one record of that type. A
// month with no income does not count as a zero-income month. Results are
// rounded to 2 decimal places.
func MonthlyAverages(transactions []models.Transaction) Averages {
	incomeByMonth := make(map[string]float64)
	expenseByMonth := make(map[string]float64)

	for _, tx := range transactions {
		key, _ := monthOf(tx.Date)
		switch tx.Type {
		case models.TransactionTypeIncome:
			incomeByMonth[key] += tx.Amount.Float64()
		case models.TransactionTypeExpense:
			expenseByMonth[key] += tx.Amount.Float64()
		}
	}

	return Averages{
		AvgIncome:  round2(average(incomeByMonth)),
		AvgExpense: round2(average(expenseByMonth)),
	}
}

// MonthlySeries accumulates income and expense sums per calendar month and
// returns the months in chronological order.
func MonthlySeries(transactions []models.Transaction) []MonthPoint {
	points := []MonthPoint{}
	index := make(map[string]int)

	for _, tx := range transactions {
		key, label := monthOf(tx.Date)
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, MonthPoint{Month: key, Label: label})
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			points[i].Income += tx.Amount.Float64()
		case models.TransactionTypeExpense:
			points[i].Expense += tx.Amount.Float64()
		}
	}

	// Month keys are zero-padded YYYY-MM, so lexicographic order is
	// calendar order.
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

// CategoryBreakdown sums expense amounts per category. Slices appear in
// insertion order of each category's first occurrence; income records are
// never counted.
func CategoryBreakdown(transactions []models.Transaction) []CategorySlice {
	slices := []CategorySlice{}
	index := make(map[string]int)

	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(slices)
			index[tx.Category] = i
			slices = append(slices, CategorySlice{Name: capitalize(tx.Category)})
		}
		slices[i].Value += tx.Amount.Float64()
	}
	return slices
}

// monthOf reduces a stored date to its (year, month) key and a human label
// like "Jan 2025". Unparseable dates all share the zero bucket, mirroring
// the original app where invalid dates collapsed into one group.
func monthOf(date string) (key, label string) {
	ts, err := time.Parse(models.DateLayout, date)
	if err != nil {
		ts = time.Time{}
	}
	return ts.Format("2006-01"), ts.Format("Jan 2006")
}

func average(byMonth map[string]float64) float64 {
	if len(byMonth) == 0 {
		return 0
	}
	var total float64
	for _, sum := range byMonth {
		total += sum
	}
	return total / float64(len(byMonth))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// capitalize upper-cases the first letter only, leaving the rest as stored:
// "housing and rent" becomes "Housing and rent".
func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
