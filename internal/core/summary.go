package core

import "time"

type (
	// WorkSummary totals a set of work logs.
	WorkSummary struct {
		WorkTimeMinutes float64 `json:"workTimeMinutes"`
		Earnings        Money   `json:"earnings"`
		Deduction       Money   `json:"deduction"`
	}

	DaySummary struct {
		Date time.Time `json:"date"`
		WorkSummary
	}

	DayPoint struct {
		Name     string  `json:"name"`
		Minutes  float64 `json:"minutes"`
		Earnings Money   `json:"earnings"`
	}

	ActivityPoint struct {
		Name     string  `json:"name"`
		Minutes  float64 `json:"minutes"`
		Earnings Money   `json:"earnings"`
		Color    string  `json:"color"`
	}

	PersonPoint struct {
		Name     string  `json:"name"`
		Minutes  float64 `json:"minutes"`
		Earnings Money   `json:"earnings"`
	}

	WorkCharts struct {
		ByDay      []DayPoint      `json:"byDay"`
		ByActivity []ActivityPoint `json:"byActivity"`
		ByPerson   []PersonPoint   `json:"byPerson"`
	}

	MonthPoint struct {
		Name      string `json:"name"`
		Income    Money  `json:"income"`
		Expenses  Money  `json:"expenses"`
		Deduction Money  `json:"deduction"`
	}

	CurrencyPoint struct {
		Name string `json:"name"`
		CZK  Money  `json:"CZK"`
		EUR  Money  `json:"EUR"`
		USD  Money  `json:"USD"`
	}

	FinanceCharts struct {
		Monthly    []MonthPoint    `json:"monthly"`
		Currencies []CurrencyPoint `json:"currencies"`
	}

	DebtSlice struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
		Color  string `json:"color"`
	}

	DebtStats struct {
		TotalDebt Money       `json:"totalDebt"`
		TotalPaid Money       `json:"totalPaid"`
		Debts     []DebtSlice `json:"debts"`
	}

	// DebtPaymentView is a payment listed with its debt's name.
	DebtPaymentView struct {
		DebtPayment
		DebtName string `json:"debtName"`
	}
)

// UnknownDebtName labels payments whose debt no longer resolves.
const UnknownDebtName = "Unknown Debt"

var debtColors = []string{"#B39DDB", "#FFCC80", "#FFF59D", "#E6D7C3", "#F5F5F5"}

// SummarizeWorkLogs sums minutes, earnings and deduction over logs.
func SummarizeWorkLogs(logs []WorkLog) WorkSummary {
	var s WorkSummary
	for _, l := range logs {
		s.WorkTimeMinutes += l.DurationMinutes
		s.Earnings = s.Earnings.Add(l.Earnings)
		s.Deduction = s.Deduction.Add(l.Deduction)
	}
	return s
}

// InRange reports whether t lies within [from, to] inclusive.
func InRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// BuildWorkCharts groups logs by local day, activity and person.
// Groups keep the order in which they are first seen in logs. Logs whose
// activity or person is not in the directory are left out of that grouping.
func BuildWorkCharts(logs []WorkLog, activities []Activity, persons []Person, loc *time.Location) WorkCharts {
	activityByID := make(map[int64]Activity, len(activities))
	for _, a := range activities {
		activityByID[a.ID] = a
	}
	personByID := make(map[int64]Person, len(persons))
	for _, p := range persons {
		personByID[p.ID] = p
	}

	charts := WorkCharts{
		ByDay:      []DayPoint{},
		ByActivity: []ActivityPoint{},
		ByPerson:   []PersonPoint{},
	}
	dayIdx := map[string]int{}
	activityIdx := map[int64]int{}
	personIdx := map[int64]int{}

	for _, l := range logs {
		day := FormatCzechDate(l.StartTime.In(loc))
		i, ok := dayIdx[day]
		if !ok {
			i = len(charts.ByDay)
			dayIdx[day] = i
			charts.ByDay = append(charts.ByDay, DayPoint{Name: day})
		}
		charts.ByDay[i].Minutes += l.DurationMinutes
		charts.ByDay[i].Earnings = charts.ByDay[i].Earnings.Add(l.Earnings)

		if a, ok := activityByID[l.ActivityID]; ok {
			i, seen := activityIdx[a.ID]
			if !seen {
				i = len(charts.ByActivity)
				activityIdx[a.ID] = i
				charts.ByActivity = append(charts.ByActivity, ActivityPoint{Name: a.Name, Color: a.Color})
			}
			charts.ByActivity[i].Minutes += l.DurationMinutes
			charts.ByActivity[i].Earnings = charts.ByActivity[i].Earnings.Add(l.Earnings)
		}

		if p, ok := personByID[l.PersonID]; ok {
			i, seen := personIdx[p.ID]
			if !seen {
				i = len(charts.ByPerson)
				personIdx[p.ID] = i
				charts.ByPerson = append(charts.ByPerson, PersonPoint{Name: p.Name})
			}
			charts.ByPerson[i].Minutes += l.DurationMinutes
			charts.ByPerson[i].Earnings = charts.ByPerson[i].Earnings.Add(l.Earnings)
		}
	}
	return charts
}

// BuildFinanceCharts groups finances by month and by day per currency.
// Only income contributes offsetByEarnings to the monthly deduction.
// Currencies other than CZK, EUR and USD are not charted.
func BuildFinanceCharts(finances []Finance, loc *time.Location) FinanceCharts {
	charts := FinanceCharts{
		Monthly:    []MonthPoint{},
		Currencies: []CurrencyPoint{},
	}
	monthIdx := map[string]int{}
	dayIdx := map[string]int{}

	for _, f := range finances {
		local := f.Date.In(loc)

		month := FormatCzechMonthYear(local)
		i, ok := monthIdx[month]
		if !ok {
			i = len(charts.Monthly)
			monthIdx[month] = i
			charts.Monthly = append(charts.Monthly, MonthPoint{Name: month})
		}
		mp := &charts.Monthly[i]
		if f.Type == FinanceIncome {
			mp.Income = mp.Income.Add(f.Amount)
			mp.Deduction = mp.Deduction.Add(f.OffsetByEarnings)
		} else {
			mp.Expenses = mp.Expenses.Add(f.Amount)
		}

		day := FormatCzechDate(local)
		j, ok := dayIdx[day]
		if !ok {
			j = len(charts.Currencies)
			dayIdx[day] = j
			charts.Currencies = append(charts.Currencies, CurrencyPoint{Name: day})
		}
		cp := &charts.Currencies[j]
		signed := f.Amount
		if f.Type != FinanceIncome {
			signed = signed.Neg()
		}
		switch f.Currency {
		case "CZK":
			cp.CZK = cp.CZK.Add(signed)
		case "EUR":
			cp.EUR = cp.EUR.Add(signed)
		case "USD":
			cp.USD = cp.USD.Add(signed)
		}
	}
	return charts
}

// BuildDebtStats totals debts and assigns each a chart color in list order.
func BuildDebtStats(debts []Debt) DebtStats {
	stats := DebtStats{Debts: make([]DebtSlice, 0, len(debts))}
	for i, d := range debts {
		stats.TotalDebt = stats.TotalDebt.Add(d.TotalAmount)
		stats.TotalPaid = stats.TotalPaid.Add(d.PaidAmount)
		stats.Debts = append(stats.Debts, DebtSlice{
			Name:   d.Name,
			Amount: d.RemainingAmount,
			Color:  debtColors[i%len(debtColors)],
		})
	}
	return stats
}

// EnrichDebtPayments attaches the owning debt's name to every payment.
func EnrichDebtPayments(payments []DebtPayment, debts []Debt) []DebtPaymentView {
	names := make(map[int64]string, len(debts))
	for _, d := range debts {
		names[d.ID] = d.Name
	}
	out := make([]DebtPaymentView, 0, len(payments))
	for _, p := range payments {
		name, ok := names[p.DebtID]
		if !ok || name == "" {
			name = UnknownDebtName
		}
		out = append(out, DebtPaymentView{DebtPayment: p, DebtName: name})
	}
	return out
}
