// Package bot wires the NLU pieces into the per-turn pipeline:
// session lookup -> concept flags + filters -> intent -> session
// update -> SQL.
package bot

import (
	"fmt"

	"go.uber.org/zap"

	"datatalk/internal/config"
	"datatalk/internal/n2sql"
	"datatalk/internal/nlu"
	"datatalk/internal/session"
)

// Turn is the full result of one conversational turn. The caller (the
// channel gateway) executes SQL and renders rows; the pipeline itself
// performs no I/O.
type Turn struct {
	Intent  nlu.Intent    `json:"intent"`
	Filters nlu.FilterSet `json:"filters"`
	SQL     string        `json:"sql"`

	// Reply is the ready-made text for the turn: the usage message for
	// help turns, a result title otherwise.
	Reply string `json:"reply"`
}

// Pipeline handles turns for many conversations. Apart from the
// session store it is stateless; one instance serves the whole process.
type Pipeline struct {
	matcher          *nlu.Matcher
	classifier       *nlu.Classifier
	sessions         *session.Store
	generator        *n2sql.Generator
	defaultRangeDays int
	logger           *zap.Logger
}

// New builds a pipeline from the configuration. The glossary override
// file, when configured, is loaded once here; the lexicon is immutable
// afterwards.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	glossary := nlu.DefaultGlossary()
	if cfg.GlossaryPath != "" {
		var err error
		glossary, err = nlu.LoadGlossary(cfg.GlossaryPath)
		if err != nil {
			return nil, fmt.Errorf("glossary override: %w", err)
		}
	}

	matcher, err := nlu.NewMatcher(glossary)
	if err != nil {
		return nil, fmt.Errorf("build matcher: %w", err)
	}

	return &Pipeline{
		matcher:          matcher,
		classifier:       nlu.NewClassifier(logger),
		sessions:         session.NewStore(),
		generator:        n2sql.NewGenerator(cfg.View, cfg.PageLimit),
		defaultRangeDays: cfg.DefaultRangeDays,
		logger:           logger,
	}, nil
}

// Sessions exposes the store so callers and tests can inspect context.
func (p *Pipeline) Sessions() *session.Store { return p.sessions }

// HandleTurn resolves one utterance for one conversation. It never
// fails: unrecognized input degrades to the help intent and the bounded
// fallback query.
func (p *Pipeline) HandleTurn(utterance, conversationID string) Turn {
	state, _ := p.sessions.Lookup(conversationID)

	flags := p.matcher.Flags(utterance)
	filters := nlu.ExtractFilters(utterance)
	intent := p.classifier.Resolve(utterance, flags, filters, state.LastIntent)

	if intent == nlu.IntentInvoicesDueNextDays && filters.RangeDays == 0 && !filters.WholeMonth {
		// "próximas semanas" without a usable number: apply the
		// configured default window (14 days out of the box).
		filters.RangeDays = p.defaultRangeDays
	}

	if intent == nlu.IntentHelp {
		// Help is a reset, never carry-over context.
		p.sessions.Forget(conversationID)
	} else {
		p.sessions.Remember(conversationID, session.State{
			LastIntent:  intent,
			LastFilters: filters,
		})
	}

	turn := Turn{
		Intent:  intent,
		Filters: filters,
		SQL:     p.generator.Generate(intent, filters),
		Reply:   replyFor(intent),
	}

	p.logger.Info("turn resolved",
		zap.String("conversation", conversationID),
		zap.String("intent", string(intent)),
		zap.Int("date_day", filters.DateDay),
		zap.Int("range_days", filters.RangeDays),
		zap.Bool("whole_month", filters.WholeMonth),
		zap.String("currency", filters.Currency))

	return turn
}
