package nlu

import (
	"strings"

	"go.uber.org/zap"
)

// Intent is the resolved user goal for one turn, drawn from a closed set.
type Intent string

const (
	IntentInvoicesDueThisMonth Intent = "invoices_due_this_month"
	IntentOverdueToday         Intent = "overdue_today"
	IntentOverdueThisMonth     Intent = "overdue_this_month"
	IntentInvoicesDueNextDays  Intent = "invoices_due_next_days"
	IntentTopClientsOverdue    Intent = "top_clients_overdue"

	// IntentHelp is both the fallback and the terminal "not understood"
	// state. It never becomes carry-over context.
	IntentHelp Intent = "help"

	// IntentNone marks a conversation without prior context.
	IntentNone Intent = ""
)

// Classifier resolves an utterance into an intent from the concept
// flags, the extracted filters and the previous turn's intent. Scoring
// is plain integer arithmetic; there are no learned weights.
type Classifier struct {
	logger *zap.Logger
}

// NewClassifier returns a classifier. A nil logger disables decision
// logging.
func NewClassifier(logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{logger: logger}
}

// Resolve never fails: any input, however malformed, maps to an intent,
// worst case IntentHelp.
//
// Order of evaluation:
//  1. empty input -> help
//  2. carry-over: with prior context, a pure day/whole-month refinement
//     keeps the previous intent; a relative-range cue always switches
//     to invoices_due_next_days instead
//  3. literal help requests and small talk -> help
//  4. scored matching over the concept flags
func (c *Classifier) Resolve(utterance string, flags ConceptFlags, filters FilterSet, lastIntent Intent) Intent {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return IntentHelp
	}

	if lastIntent != IntentNone && lastIntent != IntentHelp {
		if filters.RangeDays > 0 {
			// Range cues take priority over day-based carry-over.
			c.log("carry-over overridden by range cue", IntentInvoicesDueNextDays, lastIntent)
			return IntentInvoicesDueNextDays
		}
		if (filters.DateDay > 0 || filters.WholeMonth) && !topicShift(flags, filters) {
			c.log("carry-over", lastIntent, lastIntent)
			return lastIntent
		}
	}

	folded := Fold(trimmed)
	if trimmed == "?" || folded == "ayuda" || folded == "help" || flags.Has(ConceptGreeting) {
		return IntentHelp
	}

	intent := c.scoredMatch(flags, filters)
	c.log("scored match", intent, lastIntent)
	return intent
}

// topicShift reports whether the utterance carries any signal beyond a
// day/whole-month refinement: a fresh topic concept or an explicit
// range, currency or sort change.
func topicShift(flags ConceptFlags, filters FilterSet) bool {
	for _, concept := range []Concept{
		ConceptInvoice, ConceptPending, ConceptDue, ConceptOverdue,
		ConceptToday, ConceptTop, ConceptCustomer,
	} {
		if flags.Has(concept) {
			return true
		}
	}
	return filters.RangeDays > 0 || filters.Currency != "" || filters.Sort != nil
}

// scoredMatch runs the priority-ordered candidate scoring. The highest
// score wins; ties keep the earlier candidate; all-zero means help.
func (c *Classifier) scoredMatch(flags ConceptFlags, filters FilterSet) Intent {
	hasPending := flags.Has(ConceptPending)
	hasDue := flags.Has(ConceptDue)
	hasOverdue := flags.Has(ConceptOverdue)
	hasMonth := flags.Has(ConceptThisMonth)
	hasToday := flags.Has(ConceptToday)
	hasTop := flags.Has(ConceptTop)
	hasCustomer := flags.Has(ConceptCustomer)

	// Users often drop the word "factura" when the rest of the language
	// is unambiguous ("pendientes de este mes"). Pending/due/overdue/top
	// talk alone upgrades the implicit invoice context to true.
	hasInvoice := flags.Has(ConceptInvoice)
	if !hasInvoice && (hasPending || hasDue || hasOverdue || hasTop) {
		hasInvoice = true
	}

	type candidate struct {
		intent Intent
		score  int
	}
	candidates := []candidate{
		{IntentInvoicesDueThisMonth, 0},
		{IntentOverdueToday, 0},
		{IntentInvoicesDueNextDays, 0},
		{IntentOverdueThisMonth, 0},
		{IntentTopClientsOverdue, 0},
	}

	if hasInvoice && (hasDue || hasPending) && hasMonth {
		candidates[0].score += 5
	}
	if hasInvoice && hasMonth {
		candidates[0].score += 2
	}

	if hasOverdue && hasToday {
		candidates[1].score += 5
	}
	if hasInvoice && hasDue && hasToday {
		candidates[1].score += 2
	}

	if filters.RangeDays > 0 {
		candidates[2].score += 5
	}

	if (hasOverdue || hasPending) && hasMonth && !hasDue {
		candidates[3].score += 4
	}

	if hasTop && hasCustomer && (hasDue || hasPending || hasOverdue) {
		candidates[4].score += 6
	}
	if hasTop && hasCustomer {
		candidates[4].score += 2
	}

	best := candidate{intent: IntentHelp, score: 0}
	for _, cand := range candidates {
		if cand.score > best.score {
			best = cand
		}
	}
	return best.intent
}

func (c *Classifier) log(rule string, intent, lastIntent Intent) {
	c.logger.Debug("intent resolved",
		zap.String("rule", rule),
		zap.String("intent", string(intent)),
		zap.String("last_intent", string(lastIntent)))
}
