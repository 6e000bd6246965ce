package classifier

import (
	"strings"
	"time"

	"github.com/safespend-dev/safespend/internal/model"
)

const basePrompt = `You are a financial intent classifier. You receive one short message such as
"Spotify 199", "Rent 15000 every 1st", "Lent 500 to Jane" or
"Paid 900 for dinner split between me, Sam and Tom".

Output a JSON array of action objects. Each object has a "kind" field and the
fields listed for that kind:

- "transaction": a one-time expense or income.
  amount (number), category, merchant (never empty, use the category if unknown),
  title, type ("income" or "expense"), date ("YYYY-MM-DD" or null), remarks.
  If the expense is shared with other people, add "splitWith": the list of
  names of everyone sharing it, including "me".
- "recurring": a repeating bill or salary.
  name, amount, type, frequency ("monthly", "weekly" or "yearly"),
  expectedDate (day of month "1" to "31", "last", or "last working day"),
  endDate ("YYYY-MM-DD" or null).
- "debt": money owed to or by the user.
  personName, amount, direction ("payable" when the user owes,
  "receivable" when they are owed), dueDate ("YYYY-MM-DD" or null).
- "lend": money the user lent to someone.
  personName, amount, dueDate ("YYYY-MM-DD" or null).

Examples:
- "Lunch 150" -> [{"kind": "transaction", "amount": 150, "category": "Food", "merchant": "Lunch", "type": "expense", "date": null}]
- "Rent 15000 every 1st" -> [{"kind": "recurring", "name": "Rent", "amount": 15000, "type": "expense", "frequency": "monthly", "expectedDate": "1"}]
- "Salary 50k last working day" -> [{"kind": "recurring", "name": "Salary", "amount": 50000, "type": "income", "frequency": "monthly", "expectedDate": "last working day"}]
- "Lent 500 to Jane" -> [{"kind": "lend", "personName": "Jane", "amount": 500, "dueDate": null}]
- "Dinner 900 split with Sam and Tom" -> [{"kind": "transaction", "amount": 900, "category": "Food", "merchant": "Dinner", "type": "expense", "splitWith": ["me", "Sam", "Tom"]}]
`

const rulesPrompt = `Rules:
- Amounts are positive numbers without currency symbols.
- Resolve relative dates ("yesterday", "last Friday") against today's date.
- Do not compute split shares yourself.

Return ONLY valid raw JSON. Do NOT wrap the response in code fences.
Output must begin with "[" and end with "]".
`

// BuildPrompt assembles the system instruction sent with every utterance.
func BuildPrompt(categories []string, today time.Time) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n")
	if len(categories) > 0 {
		b.WriteString("Use ONLY the following categories:\n")
		for _, c := range categories {
			b.WriteString("  - " + c + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Today's date is " + model.FormatDate(model.Day(today)) + ".\n\n")
	b.WriteString(rulesPrompt)
	return b.String()
}
