package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolve runs the full flags+filters extraction for an utterance, the
// way the pipeline does, then classifies.
func resolve(t *testing.T, m *Matcher, c *Classifier, utterance string, last Intent) Intent {
	t.Helper()
	return c.Resolve(utterance, m.Flags(utterance), ExtractFilters(utterance), last)
}

func TestClassifier_Resolve_NoContext(t *testing.T) {
	m := newTestMatcher(t)
	c := NewClassifier(nil)

	tests := []struct {
		name      string
		utterance string
		want      Intent
	}{
		{"due this month", "facturas que vencen este mes", IntentInvoicesDueThisMonth},
		{"pending this month", "las facturas pendientes de este mes", IntentInvoicesDueThisMonth},
		{"implicit invoice", "pendientes de este mes", IntentInvoicesDueThisMonth},
		{"overdue today", "facturas vencidas hoy", IntentOverdueToday},
		{"overdue today without factura", "vencidas hoy", IntentOverdueToday},
		{"overdue this month", "facturas vencidas este mes", IntentOverdueThisMonth},
		{"overdue this month atrasadas", "atrasadas del mes", IntentOverdueThisMonth},
		{"next days by weeks", "facturas que vencen en las próximas 2 semanas", IntentInvoicesDueNextDays},
		{"next days spelled", "qué vence en las siguientes dos semanas", IntentInvoicesDueNextDays},
		{"top clients", "top clientes por saldo vencido", IntentTopClientsOverdue},
		{"top clients with currency", "top clientes por saldo vencido en dólares", IntentTopClientsOverdue},
		{"empty", "", IntentHelp},
		{"whitespace", "   ", IntentHelp},
		{"literal ayuda", "ayuda", IntentHelp},
		{"literal help", "help", IntentHelp},
		{"question mark", "?", IntentHelp},
		{"greeting", "hola", IntentHelp},
		{"small talk", "qué hora es", IntentHelp},
		{"unrelated", "cuanto cuesta un camion", IntentHelp},
		{"day refinement without context", "y el 22?", IntentHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, m, c, tt.utterance, IntentNone))
		})
	}
}

func TestClassifier_Resolve_CarryOver(t *testing.T) {
	m := newTestMatcher(t)
	c := NewClassifier(nil)

	t.Run("day refinement keeps last intent", func(t *testing.T) {
		got := resolve(t, m, c, "y el 22?", IntentInvoicesDueThisMonth)
		assert.Equal(t, IntentInvoicesDueThisMonth, got)
	})

	t.Run("whole month refinement keeps last intent", func(t *testing.T) {
		got := resolve(t, m, c, "y de todo el mes?", IntentOverdueThisMonth)
		assert.Equal(t, IntentOverdueThisMonth, got)
	})

	t.Run("range cue overrides carry-over", func(t *testing.T) {
		for _, last := range []Intent{
			IntentInvoicesDueThisMonth, IntentOverdueThisMonth, IntentTopClientsOverdue,
		} {
			got := resolve(t, m, c, "próximas 2 semanas", last)
			assert.Equal(t, IntentInvoicesDueNextDays, got, "last=%s", last)
		}
	})

	t.Run("fresh topic beats day refinement", func(t *testing.T) {
		// A day reference plus new topic language is a new question.
		got := resolve(t, m, c, "facturas vencidas hoy y el 22", IntentInvoicesDueThisMonth)
		assert.Equal(t, IntentOverdueToday, got)
	})

	t.Run("currency change disables the shortcut", func(t *testing.T) {
		got := resolve(t, m, c, "y el 22 en dólares?", IntentInvoicesDueThisMonth)
		assert.NotEqual(t, IntentInvoicesDueThisMonth, got)
	})

	t.Run("help context never carries", func(t *testing.T) {
		got := resolve(t, m, c, "y el 22?", IntentHelp)
		assert.Equal(t, IntentHelp, got)
	})
}

func TestClassifier_Resolve_AlwaysClosedSet(t *testing.T) {
	m := newTestMatcher(t)
	c := NewClassifier(nil)

	known := map[Intent]bool{
		IntentInvoicesDueThisMonth: true,
		IntentOverdueToday:         true,
		IntentOverdueThisMonth:     true,
		IntentInvoicesDueNextDays:  true,
		IntentTopClientsOverdue:    true,
		IntentHelp:                 true,
	}

	utterances := []string{
		"", "   ", "?", "!!!", "asdfghjkl",
		"facturas", "vencen", "el 99", "próximas cero semanas",
		"facturas que vencen este mes en soles por monto",
		"top clientes", "hola facturas", "todo el mes",
	}
	for _, u := range utterances {
		got := resolve(t, m, c, u, IntentNone)
		require.True(t, known[got], "utterance %q resolved to unknown intent %q", u, got)
	}
}
