// Package insights looks for spending patterns in the ledger: categories
// that take more than their share and expenses that repeat like
// subscriptions.
package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
	"github.com/safespend-dev/safespend/internal/safespend"
)

// Leak is a category whose spending in the window exceeded the threshold.
type Leak struct {
	Category string
	Amount   decimal.Decimal
	Count    int
}

// Leaks totals expenses per category dated within [from, to] and returns
// the categories whose total is above threshold, largest first. A zero from
// or to leaves that end of the window open.
func Leaks(txs []model.Transaction, threshold decimal.Decimal, from, to time.Time) ([]Leak, []safespend.Warning) {
	var warnings []safespend.Warning
	totals := make(map[string]*Leak)
	for _, tx := range txs {
		if tx.Type != model.EntryExpense {
			continue
		}
		d, err := model.ParseDate(tx.Date)
		if err != nil {
			warnings = append(warnings, safespend.Warning{Source: "transaction", ID: tx.ID, Err: err})
			continue
		}
		if (!from.IsZero() && d.Before(model.Day(from))) || (!to.IsZero() && d.After(model.Day(to))) {
			continue
		}
		name := tx.Category
		if name == "" {
			name = "Uncategorized"
		}
		key := strings.ToLower(name)
		l, ok := totals[key]
		if !ok {
			l = &Leak{Category: name, Amount: decimal.Zero}
			totals[key] = l
		}
		l.Amount = l.Amount.Add(tx.Amount)
		l.Count++
	}

	var leaks []Leak
	for _, l := range totals {
		if l.Amount.GreaterThan(threshold) {
			leaks = append(leaks, *l)
		}
	}
	sort.Slice(leaks, func(i, j int) bool {
		if c := leaks[i].Amount.Cmp(leaks[j].Amount); c != 0 {
			return c > 0
		}
		return leaks[i].Category < leaks[j].Category
	})
	return leaks, warnings
}

// Subscription is an expense paid more than once with the same title and
// amount.
type Subscription struct {
	Name     string
	Amount   decimal.Decimal
	Count    int
	LastPaid time.Time
	Planned  bool // a recurring plan with the same name and amount exists
}

// Subscriptions groups expenses by title (ignoring case) and amount and
// returns every group seen at least twice, most recently paid first.
func Subscriptions(txs []model.Transaction, plans []model.RecurringPlan) ([]Subscription, []safespend.Warning) {
	var warnings []safespend.Warning
	groups := make(map[string]*Subscription)
	var order []string
	for _, tx := range txs {
		if tx.Type != model.EntryExpense {
			continue
		}
		d, err := model.ParseDate(tx.Date)
		if err != nil {
			warnings = append(warnings, safespend.Warning{Source: "transaction", ID: tx.ID, Err: err})
			continue
		}
		name := tx.Title
		if name == "" {
			name = tx.Merchant
		}
		key := groupKey(name, tx.Amount)
		s, ok := groups[key]
		if !ok {
			s = &Subscription{Name: name, Amount: tx.Amount}
			groups[key] = s
			order = append(order, key)
		}
		s.Count++
		if d.After(s.LastPaid) {
			s.LastPaid = d
		}
	}

	planned := make(map[string]bool, len(plans))
	for _, p := range plans {
		if p.Type == model.EntryExpense {
			planned[groupKey(p.Name, p.Amount)] = true
		}
	}

	var subs []Subscription
	for _, key := range order {
		s := groups[key]
		if s.Count < 2 {
			continue
		}
		s.Planned = planned[key]
		subs = append(subs, *s)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].LastPaid.After(subs[j].LastPaid)
	})
	return subs, warnings
}

// groupKey treats 199 and 199.00 as the same amount.
func groupKey(name string, amount decimal.Decimal) string {
	return strings.ToLower(strings.TrimSpace(name)) + "\x00" + amount.String()
}
