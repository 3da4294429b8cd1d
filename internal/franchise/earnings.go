package franchise

import (
	"fmt"
	"sort"
)

// CurrencyTotal is the total of earnings in a single currency.
type CurrencyTotal struct {
	Currency string
	Cents    int64
	Count    int
}

// String formats the total as "12.34 EUR".
func (ct CurrencyTotal) String() string {
	sign := ""
	cents := ct.Cents
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, ct.Currency)
}

// TotalEarnings sums earnings by currency. The result is sorted by currency.
func TotalEarnings(items []Earning) []CurrencyTotal {
	index := map[string]*CurrencyTotal{}
	for _, e := range items {
		ct := index[e.Currency]
		if ct == nil {
			ct = &CurrencyTotal{Currency: e.Currency}
			index[e.Currency] = ct
		}
		ct.Cents += e.AmountCents
		ct.Count++
	}
	out := make([]CurrencyTotal, 0, len(index))
	for _, ct := range index {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Currency < out[j].Currency
	})
	return out
}
