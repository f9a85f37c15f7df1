package n2sql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datatalk/internal/nlu"
)

func TestGenerator_DueThisMonth(t *testing.T) {
	g := NewGenerator("", 0)

	t.Run("default month window", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{})
		assert.Contains(t, sql, "FROM "+DefaultView)
		assert.Contains(t, sql, "is_pending")
		assert.Contains(t, sql, "date_trunc('month', due_date) = date_trunc('month', CURRENT_DATE)")
		assert.Contains(t, sql, "ORDER BY due_date, customer")
		assert.NotContains(t, sql, "INTERVAL")
	})

	t.Run("raw and display amount columns", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{})
		assert.Contains(t, sql, "amount_residual AS amount_residual_num")
		assert.Contains(t, sql, "to_char(amount_residual, 'FM999,999,999,990.00')")
		assert.Contains(t, sql, "AS amount_residual,")
	})

	t.Run("symbol case covers every currency", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{})
		assert.Contains(t, sql, "WHEN 'USD' THEN '$'")
		assert.Contains(t, sql, "WHEN 'PEN' THEN 'S/'")
		assert.Contains(t, sql, "WHEN 'EUR' THEN '€'")
	})

	t.Run("day and currency filters", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{DateDay: 13, Currency: "USD"})
		assert.Contains(t, sql, "EXTRACT(DAY FROM due_date) = 13")
		assert.Contains(t, sql, "currency = 'USD'")
	})

	t.Run("range replaces the month window", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueNextDays, nlu.FilterSet{RangeDays: 14})
		assert.Contains(t, sql, "due_date >= CURRENT_DATE")
		assert.Contains(t, sql, "due_date < CURRENT_DATE + INTERVAL '14 days'")
		assert.NotContains(t, sql, "date_trunc")
	})

	t.Run("sort by amount", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{
			Sort: &nlu.Sort{Field: nlu.SortAmount, Dir: nlu.SortDesc},
		})
		assert.Contains(t, sql, "ORDER BY amount_residual_num DESC, due_date")
	})

	t.Run("sort by date ascending", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{
			Sort: &nlu.Sort{Field: nlu.SortDate, Dir: nlu.SortAsc},
		})
		assert.Contains(t, sql, "ORDER BY due_date ASC, customer")
	})
}

func TestGenerator_OverdueThisMonth(t *testing.T) {
	g := NewGenerator("", 0)
	sql := g.Generate(nlu.IntentOverdueThisMonth, nlu.FilterSet{})
	assert.Contains(t, sql, "is_overdue")
	assert.NotContains(t, sql, "is_pending")
	assert.Contains(t, sql, "date_trunc('month', due_date)")
}

func TestGenerator_OverdueToday(t *testing.T) {
	g := NewGenerator("", 0)
	sql := g.Generate(nlu.IntentOverdueToday, nlu.FilterSet{DateDay: 13, RangeDays: 7})

	assert.Contains(t, sql, "WHERE is_overdue")
	assert.Contains(t, sql, "ORDER BY days_overdue DESC")
	assert.Contains(t, sql, "days_overdue,")
	// Day and range filters do not apply to "today".
	assert.NotContains(t, sql, "EXTRACT")
	assert.NotContains(t, sql, "INTERVAL")
}

func TestGenerator_TopClients(t *testing.T) {
	g := NewGenerator("", 0)

	t.Run("shape", func(t *testing.T) {
		sql := g.Generate(nlu.IntentTopClientsOverdue, nlu.FilterSet{})
		assert.Contains(t, sql, "SUM(amount_residual) AS overdue_balance_num")
		assert.Contains(t, sql, "GROUP BY customer")
		assert.Contains(t, sql, "ORDER BY overdue_balance_num DESC")
		assert.Contains(t, sql, "LIMIT 10")
		assert.Contains(t, sql, "WHERE is_overdue")
		assert.Contains(t, sql, "CASE COALESCE(MAX(currency), '')")
	})

	t.Run("currency filter", func(t *testing.T) {
		sql := g.Generate(nlu.IntentTopClientsOverdue, nlu.FilterSet{Currency: "USD"})
		assert.Contains(t, sql, "is_overdue AND currency = 'USD'")
	})

	t.Run("configured page limit", func(t *testing.T) {
		sql := NewGenerator("", 25).Generate(nlu.IntentTopClientsOverdue, nlu.FilterSet{})
		assert.Contains(t, sql, "LIMIT 25")
	})
}

func TestGenerator_SafeFallback(t *testing.T) {
	g := NewGenerator("", 0)

	t.Run("help intent", func(t *testing.T) {
		sql := g.Generate(nlu.IntentHelp, nlu.FilterSet{})
		assert.Equal(t, "SELECT * FROM "+DefaultView+" LIMIT 50", sql)
	})

	t.Run("unknown intent", func(t *testing.T) {
		sql := g.Generate(nlu.Intent("made_up"), nlu.FilterSet{})
		assert.Equal(t, "SELECT * FROM "+DefaultView+" LIMIT 50", sql)
	})
}

func TestGenerator_UnsanitizedSubstitution(t *testing.T) {
	g := NewGenerator("", 0)

	t.Run("unknown currency token is dropped", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{
			Currency: "'; DROP TABLE invoices; --",
		})
		assert.NotContains(t, sql, "DROP TABLE")
		assert.NotContains(t, sql, "currency =")
	})

	t.Run("out of range day is ignored", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{DateDay: 99})
		assert.NotContains(t, sql, "EXTRACT")
	})

	t.Run("oversized range falls back to month", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueNextDays, nlu.FilterSet{RangeDays: 5000})
		assert.NotContains(t, sql, "INTERVAL")
		assert.Contains(t, sql, "date_trunc")
	})

	t.Run("out of enum sort falls back to default order", func(t *testing.T) {
		sql := g.Generate(nlu.IntentInvoicesDueThisMonth, nlu.FilterSet{
			Sort: &nlu.Sort{Field: "evil_field", Dir: "EVIL"},
		})
		assert.Contains(t, sql, "ORDER BY due_date, customer")
		assert.NotContains(t, sql, "evil")
		assert.NotContains(t, sql, "EVIL")
	})

	t.Run("custom view is the only free identifier", func(t *testing.T) {
		sql := NewGenerator("billing.vw_invoices", 0).Generate(nlu.IntentOverdueToday, nlu.FilterSet{})
		require.True(t, strings.Contains(sql, "FROM billing.vw_invoices"))
	})
}
