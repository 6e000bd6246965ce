package categories

import "github.com/safespend-dev/safespend/internal/model"

// Defaults returns the categories a new workspace starts with. They cannot
// be removed.
func Defaults() []model.Category {
	return []model.Category{
		{Name: "Food", Type: model.EntryExpense, Description: "Groceries, restaurants, delivery"},
		{Name: "Transport", Type: model.EntryExpense, Description: "Fuel, cabs, public transit"},
		{Name: "Shopping", Type: model.EntryExpense},
		{Name: "Entertainment", Type: model.EntryExpense, Description: "Streaming, movies, events"},
		{Name: "Bills", Type: model.EntryExpense, Description: "Phone, internet, subscriptions"},
		{Name: "Health", Type: model.EntryExpense},
		{Name: "Education", Type: model.EntryExpense},
		{Name: "Travel", Type: model.EntryExpense},
		{Name: "Housing", Type: model.EntryExpense, Description: "Rent, maintenance"},
		{Name: "Utilities", Type: model.EntryExpense, Description: "Electricity, water, gas"},
		{Name: "Loan", Type: model.EntryExpense, Description: "Money lent to others"},
		{Name: "Savings"},
		{Name: "Income", Type: model.EntryIncome, Description: "Salary, freelance, refunds"},
	}
}

func isDefault(name string) bool {
	for _, c := range Defaults() {
		if equalName(c.Name, name) {
			return true
		}
	}
	return false
}
