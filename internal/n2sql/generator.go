// Package n2sql renders resolved intents into SQL against the single
// pre-authorized semantic view.
//
// The generator is the injection boundary of the whole system: every
// substituted token comes from FilterSet's validated numeric and
// enumerated domains, never from utterance text. A value outside its
// domain is dropped in favor of a safe default, not embedded.
package n2sql

import (
	"fmt"
	"strings"

	"datatalk/internal/nlu"
)

// DefaultView is the semantic view all templates query. The view name
// is configuration, never interpolated from user input.
const DefaultView = "odoo_replica.vw_invoices_semantic"

// DefaultTopLimit caps the top-clients ranking page.
const DefaultTopLimit = 10

// fallbackLimit bounds the safe query returned for unrecognized intents.
const fallbackLimit = 50

// maxRangeDays mirrors the extractor bound; a window outside it falls
// back to the month default.
const maxRangeDays = 90

// amountFormat is the to_char pattern for display amounts: thousands
// separators, two decimals.
const amountFormat = "FM999,999,999,990.00"

// currencySymbol prefixes display amounts per ISO code. The map is also
// the closed set substituted currency filters are validated against.
var currencySymbol = map[string]string{
	"USD": "$",
	"PEN": "S/",
	"EUR": "€",
}

// currencyCodes fixes the branch order of generated CASE expressions.
var currencyCodes = []string{"USD", "PEN", "EUR"}

// Generator produces parameterized SQL for one fixed view.
type Generator struct {
	view     string
	topLimit int
}

// NewGenerator builds a generator for the given view. Zero values fall
// back to DefaultView and DefaultTopLimit.
func NewGenerator(view string, topLimit int) *Generator {
	if view == "" {
		view = DefaultView
	}
	if topLimit <= 0 {
		topLimit = DefaultTopLimit
	}
	return &Generator{view: view, topLimit: topLimit}
}

// Generate maps (intent, filters) to a SQL string. Pure function: no
// I/O, no execution. Unknown intents get a bounded fallback SELECT.
func (g *Generator) Generate(intent nlu.Intent, f nlu.FilterSet) string {
	switch intent {
	case nlu.IntentInvoicesDueThisMonth, nlu.IntentInvoicesDueNextDays:
		return g.dueQuery("is_pending", f)
	case nlu.IntentOverdueThisMonth:
		return g.dueQuery("is_overdue", f)
	case nlu.IntentOverdueToday:
		return g.overdueTodayQuery()
	case nlu.IntentTopClientsOverdue:
		return g.topClientsQuery(f)
	default:
		return fmt.Sprintf("SELECT * FROM %s LIMIT %d", g.view, fallbackLimit)
	}
}

// dueQuery covers the month/window family. The predicate selects the
// pending (due) or overdue variant; everything else is shared: a
// month-truncated equality by default, a [today, today+N) window when a
// range was extracted, then optional day-of-month and currency
// equalities.
func (g *Generator) dueQuery(predicate string, f nlu.FilterSet) string {
	where := []string{predicate}

	if f.RangeDays >= 1 && f.RangeDays <= maxRangeDays {
		where = append(where,
			"due_date >= CURRENT_DATE",
			fmt.Sprintf("due_date < CURRENT_DATE + INTERVAL '%d days'", f.RangeDays))
	} else {
		where = append(where,
			"date_trunc('month', due_date) = date_trunc('month', CURRENT_DATE)")
	}

	if f.DateDay >= 1 && f.DateDay <= 31 {
		where = append(where, fmt.Sprintf("EXTRACT(DAY FROM due_date) = %d", f.DateDay))
	}

	if code, ok := currencyCode(f.Currency); ok {
		where = append(where, fmt.Sprintf("currency = '%s'", code))
	}

	// Both the raw numeric amount (deterministic ordering) and the
	// formatted display amount (human rendering) are exposed.
	return fmt.Sprintf(`SELECT
  invoice_number,
  customer,
  due_date,
  amount_residual AS amount_residual_num,
  %s AS amount_residual,
  currency
FROM %s
WHERE %s
%s`,
		displayAmount("amount_residual"), g.view,
		strings.Join(where, " AND "), orderBy(f.Sort))
}

// overdueTodayQuery lists everything already past due. Day and range
// filters do not apply to "today"; ordering is most-overdue first.
func (g *Generator) overdueTodayQuery() string {
	return fmt.Sprintf(`SELECT
  invoice_number,
  customer,
  due_date,
  days_overdue,
  amount_residual AS amount_residual_num,
  %s AS amount_residual,
  currency
FROM %s
WHERE is_overdue
ORDER BY days_overdue DESC`,
		displayAmount("amount_residual"), g.view)
}

// topClientsQuery ranks customers by summed overdue balance, optionally
// narrowed to one currency, limited to one page.
func (g *Generator) topClientsQuery(f nlu.FilterSet) string {
	where := "is_overdue"
	if code, ok := currencyCode(f.Currency); ok {
		where += fmt.Sprintf(" AND currency = '%s'", code)
	}

	return fmt.Sprintf(`SELECT
  customer,
  SUM(amount_residual) AS overdue_balance_num,
  %s || ' ' || to_char(SUM(amount_residual), '%s') AS overdue_balance,
  COALESCE(MAX(currency), '') AS currency
FROM %s
WHERE %s
GROUP BY customer
ORDER BY overdue_balance_num DESC
LIMIT %d`,
		symbolCase("COALESCE(MAX(currency), '')"), amountFormat, g.view, where, g.topLimit)
}

// currencyCode validates against the closed currency set and returns
// the canonical constant, so even a well-formed but unknown token is
// never embedded.
func currencyCode(currency string) (string, bool) {
	if _, ok := currencySymbol[currency]; ok {
		return currency, true
	}
	return "", false
}

// symbolCase renders a CASE expression mapping the given currency
// expression to its display symbol, leaving unknown codes as-is.
func symbolCase(expr string) string {
	var b strings.Builder
	b.WriteString("CASE " + expr)
	for _, code := range currencyCodes {
		fmt.Fprintf(&b, " WHEN '%s' THEN '%s'", code, currencySymbol[code])
	}
	b.WriteString(" ELSE " + expr + " END")
	return b.String()
}

// displayAmount renders a symbol-prefixed, locale-formatted amount
// expression over the given column.
func displayAmount(column string) string {
	return fmt.Sprintf("%s || ' ' || to_char(%s, '%s')",
		symbolCase("currency"), column, amountFormat)
}

// orderBy resolves the ORDER BY clause from an extracted sort pair. A
// nil or out-of-enum pair falls back to soonest-due-first.
func orderBy(s *nlu.Sort) string {
	if s == nil {
		return "ORDER BY due_date, customer"
	}

	dir := "ASC"
	switch s.Dir {
	case nlu.SortAsc:
		dir = "ASC"
	case nlu.SortDesc:
		dir = "DESC"
	default:
		// Unrecognized direction: keep the per-field default.
		if s.Field == nlu.SortAmount {
			dir = "DESC"
		}
	}

	switch s.Field {
	case nlu.SortAmount:
		return fmt.Sprintf("ORDER BY amount_residual_num %s, due_date", dir)
	case nlu.SortDate:
		return fmt.Sprintf("ORDER BY due_date %s, customer", dir)
	default:
		return "ORDER BY due_date, customer"
	}
}
