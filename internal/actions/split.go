package actions

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/model"
)

// buildLending expands money lent to a person into the expense that paid
// it out and the receivable that tracks it. Both carry the same amount.
func buildLending(index int, r record, opts Options) ([]model.Action, error) {
	debt, err := buildDebt(index, withDirection(r, model.DirectionReceivable), opts)
	if err != nil {
		return nil, err
	}

	date, ok, err := r.date("date")
	if err != nil {
		return nil, malformed(index, "date", "%v", err)
	}
	if !ok {
		date = opts.Today
	}

	tx := model.TransactionAction{
		Amount:   debt.Amount,
		Category: LoanCategory,
		Merchant: debt.PersonName,
		Title:    "Loan to " + debt.PersonName,
		Type:     model.EntryExpense,
		Date:     date,
		Remarks:  r.str("remarks"),
	}
	return []model.Action{tx, debt}, nil
}

func withDirection(r record, d model.Direction) record {
	out := make(record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out["direction"] = string(d)
	return out
}

// resolveSplits pairs each split transaction with the receivable debts the
// classifier already computed for its parties and derives the shares of
// any party left without one.
func resolveSplits(entries []*entry, opts Options) {
	for _, e := range entries {
		if e.err != nil || len(e.splitNames) == 0 {
			continue
		}
		tx := e.actions[0].(model.TransactionAction)
		share := shareOf(tx.Amount, len(tx.SplitWith), opts.MinorUnits)

		claims := claimShares(entries, e, tx.SplitWith, share, opts.unit())
		shares := make([]decimal.Decimal, len(tx.SplitWith))
		var derived []model.Action
		for i, party := range tx.SplitWith {
			if claims[i] != nil {
				shares[i] = claims[i].actions[0].(model.DebtAction).Amount
				continue
			}
			shares[i] = share
			derived = append(derived, model.DebtAction{
				PersonName: party,
				Amount:     share,
				Direction:  model.DirectionReceivable,
			})
		}

		if len(derived) > 0 && !share.IsPositive() {
			e.err = malformed(e.index, "amount",
				"%s is too small to split between %d people", tx.Amount.String(), len(tx.SplitWith)+1)
		} else {
			e.err = checkShares(e.index, tx, shares, opts)
		}
		if e.err != nil {
			for _, c := range claims {
				if c != nil {
					c.err = malformed(c.index, "personName",
						"share of split transaction %d, which was rejected", e.index)
				}
			}
			continue
		}
		e.derived = derived
	}
}

// claimShares finds, for each party of owner's split, an unclaimed
// receivable debt naming that party whose amount is within one unit of the
// equal share, and marks it as belonging to owner. A debt for another
// amount is an unrelated record and stays unclaimed. The result is indexed
// like parties; nil means no debt was found.
func claimShares(entries []*entry, owner *entry, parties []string, share, unit decimal.Decimal) []*entry {
	claims := make([]*entry, len(parties))
	for i, party := range parties {
		for _, e := range entries {
			if e == owner || e.err != nil || e.claimedBy >= 0 || len(e.actions) != 1 {
				continue
			}
			debt, ok := e.actions[0].(model.DebtAction)
			if !ok || debt.Direction != model.DirectionReceivable || !strings.EqualFold(debt.PersonName, party) {
				continue
			}
			if debt.Amount.Sub(share).Abs().GreaterThan(unit) {
				continue
			}
			e.claimedBy = owner.index
			claims[i] = e
			break
		}
	}
	return claims
}

// shareOf returns each other party's equal share of amount split between
// the user and parties others, floored to the currency unit. Whatever is
// left over stays with the user.
func shareOf(amount decimal.Decimal, others int, minorUnits int32) decimal.Decimal {
	units := amount.Shift(minorUnits).BigInt()
	share := new(big.Int).Quo(units, big.NewInt(int64(others+1)))
	return decimal.NewFromBigInt(share, -minorUnits)
}

// checkShares accepts the parties' shares when, together with the user's
// implicit share, they add up to the transaction total within one currency
// unit.
func checkShares(index int, tx model.TransactionAction, shares []decimal.Decimal, opts Options) error {
	share := shareOf(tx.Amount, len(shares), opts.MinorUnits)
	userShare := tx.Amount.Sub(share.Mul(decimal.NewFromInt(int64(len(shares)))))

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s)
	}
	total := sum.Add(userShare)
	if total.Sub(tx.Amount).Abs().GreaterThan(opts.unit()) {
		return malformed(index, "splitWith",
			"shares %s plus own share %s do not add up to %s",
			sum.String(), userShare.String(), tx.Amount.String())
	}
	return nil
}
