// Package nlu turns free-form Spanish billing utterances into a closed
// set of intents plus validated, structured filters.
//
// Resolution flow:
//  1. Matcher scans the utterance for concept synonyms (matcher.go)
//  2. ExtractFilters pulls day/range/currency/sort cues (filters.go)
//  3. Classifier scores candidate intents against the flags (classifier.go)
//
// Everything here is rule-based and deterministic: synonym lexicons and
// fixed patterns, no model calls, no I/O.
package nlu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Concept is a named semantic category recognized via the glossary.
type Concept string

const (
	// ConceptPlease covers courtesy noise that never defines intent.
	ConceptPlease Concept = "please"

	ConceptInvoice   Concept = "invoice"
	ConceptPending   Concept = "pending"
	ConceptDue       Concept = "due"     // upcoming: "vencen", "por vencer"
	ConceptOverdue   Concept = "overdue" // already past due: "vencidas", "atrasadas"
	ConceptThisMonth Concept = "this_month"
	ConceptToday     Concept = "today"
	ConceptTop       Concept = "top"
	ConceptCustomer  Concept = "customer"

	// ConceptGreeting marks small talk that resolves to the help intent.
	ConceptGreeting Concept = "greeting"
)

// Glossary maps each concept to its surface-form synonyms. Synonyms are
// matched case- and accent-insensitively at word boundaries, so entries
// may be written with their natural accents.
type Glossary map[Concept][]string

// DefaultGlossary returns the built-in lexicon. The returned map is a
// fresh copy; callers may extend it before building a Matcher.
func DefaultGlossary() Glossary {
	return Glossary{
		ConceptPlease: {
			"por favor", "me brindas", "me podrías", "puedes", "podrías",
			"pásame", "pasame", "alcánzame", "envíame", "mandame", "mándame",
		},
		ConceptInvoice: {"factura", "facturas", "comprobante", "documento de venta"},
		ConceptPending: {"pendiente", "pendientes", "por pagar", "cuentas por cobrar", "pdp"},
		ConceptDue:     {"vencen", "vencimiento", "por vencer", "vence", "expira", "caduca"},
		ConceptOverdue: {
			"vencida", "vencidas", "vencido", "vencidos",
			"atrasada", "atrasadas", "atrasado", "atrasados",
		},
		ConceptThisMonth: {"este mes", "mes actual", "para este mes", "en el mes", "del mes"},
		ConceptToday:     {"hoy", "al día de hoy", "para hoy"},
		ConceptTop:       {"top", "ranking", "mayor saldo", "más deuda"},
		ConceptCustomer:  {"cliente", "clientes", "razón social", "account"},
		ConceptGreeting: {
			"hola", "buenas", "buenos días", "buenas tardes",
			"qué hora", "que hora", "qué día es", "que día es",
		},
	}
}

// LoadGlossary reads a YAML file of the form `concept: [synonyms...]`
// and merges it over the built-in lexicon. Listed concepts replace
// their default synonym list wholesale; unknown concept names are
// rejected so typos do not silently create dead entries.
func LoadGlossary(path string) (Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}

	var override map[Concept][]string
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse glossary: %w", err)
	}

	g := DefaultGlossary()
	for concept, synonyms := range override {
		if _, known := g[concept]; !known {
			return nil, fmt.Errorf("glossary: unknown concept %q", concept)
		}
		if len(synonyms) == 0 {
			return nil, fmt.Errorf("glossary: concept %q has no synonyms", concept)
		}
		g[concept] = synonyms
	}
	return g, nil
}
