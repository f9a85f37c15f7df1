package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

// SortField selects which column family an explicit sort refers to.
type SortField string

const (
	SortAmount SortField = "amount"
	SortDate   SortField = "date"
)

// SortDir is the sort direction keyword as it will appear in SQL.
type SortDir string

const (
	SortAsc  SortDir = "ASC"
	SortDesc SortDir = "DESC"
)

// Sort pairs a field with a direction.
type Sort struct {
	Field SortField `json:"field"`
	Dir   SortDir   `json:"dir"`
}

// FilterSet holds the validated constraints extracted from one
// utterance. Zero values mean "absent".
type FilterSet struct {
	// DateDay is a day-of-month in 1..31, or 0.
	DateDay int `json:"date_day,omitempty"`

	// RangeDays is a relative window in days starting today, or 0.
	RangeDays int `json:"range_days,omitempty"`

	// WholeMonth widens the question back to the full month. It is
	// mutually exclusive with DateDay and RangeDays: extraction clears
	// both when the whole-month cue appears in the same utterance.
	WholeMonth bool `json:"whole_month,omitempty"`

	// Currency is a normalized 3-letter code (USD, PEN, EUR), or "".
	Currency string `json:"currency,omitempty"`

	Sort *Sort `json:"sort,omitempty"`
}

// DefaultRangeWeeks is the window assumed when a relative-range phrase
// carries no number ("próximas semanas").
const DefaultRangeWeeks = 2

// maxRangeDays bounds relative windows. Larger matches are rejected
// outright rather than clamped, so nonsense never reaches the SQL layer.
const maxRangeDays = 90

// spelledNumbers maps Spanish number words 1..15 to their values.
// Keys are already accent-free.
var spelledNumbers = map[string]int{
	"un": 1, "una": 1, "uno": 1, "dos": 2, "tres": 3, "cuatro": 4,
	"cinco": 5, "seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
	"once": 11, "doce": 12, "trece": 13, "catorce": 14, "quince": 15,
}

var spelledAlternates = []string{
	"uno", "una", "un", "dos", "tres", "cuatro", "cinco", "seis", "siete",
	"ocho", "nueve", "diez", "once", "doce", "trece", "catorce", "quince",
}

// All patterns below run on folded text (lowercase, accent-free), so
// they are written without accent alternations.
var (
	dayPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bdia\s+(\d{1,2})\b`),
		regexp.MustCompile(`\bel\s+(\d{1,2})\b(?:\s+de\s+este\s+mes)?`),
		regexp.MustCompile(`\bdel\s+(\d{1,2})\b`),
		regexp.MustCompile(`\b(\d{1,2})\s+de\s+este\s+mes\b`),
		regexp.MustCompile(`\b(\d{1,2})\s+del\s+presente\s+mes\b`),
	}

	rangePattern = regexp.MustCompile(
		`\b(?:proxim[oa]s?|siguientes?)\s+(\d{1,3}|` + strings.Join(spelledAlternates, "|") + `)\s+(semanas?|dias?)\b`)

	// Bare "próximas semanas" / "próximos días" with no number.
	bareRangePattern = regexp.MustCompile(`\b(?:proxim[oa]s?|siguientes?)\s+(?:semanas?|dias?)\b`)

	sortAmountPattern = regexp.MustCompile(`\b(?:monto|importe|saldo|residual)\b`)
	sortDatePattern   = regexp.MustCompile(`\b(?:fecha|vencimiento|vencen|due)\b`)
	sortDescPattern   = regexp.MustCompile(`\bde\s+mayor\s+a\s+menor\b|\bdesc(?:endente)?\b|\bmas\s+altas\b|\bmayores\b`)
	sortAscPattern    = regexp.MustCompile(`\bde\s+menor\s+a\s+mayor\b|\basc(?:endente)?\b|\bmas\s+bajas\b|\bmenores\b`)
)

// currencyGlossary mirrors the concept lexicon shape: ISO code to
// word-form synonyms. Symbol forms ("$", "S/", "€", "us$") cannot sit
// behind \b word boundaries and are scanned separately.
var currencyGlossary = map[string][]string{
	"USD": {"usd", "dolar", "dolares", "dólar", "dólares"},
	"PEN": {"pen", "sol", "soles"},
	"EUR": {"eur", "euro", "euros"},
}

var currencyPatterns = compileCurrencyPatterns()

func compileCurrencyPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(currencyGlossary))
	for code, words := range currencyGlossary {
		alternates := make([]string, 0, len(words))
		for _, w := range words {
			alternates = append(alternates, regexp.QuoteMeta(Fold(w)))
		}
		patterns[code] = regexp.MustCompile(`\b(?:` + strings.Join(alternates, "|") + `)\b`)
	}
	return patterns
}

// ExtractFilters scans the raw utterance for every filter cue. It runs
// before (and independently of) intent resolution, so the same temporal
// and numeric hints are available whichever intent wins.
func ExtractFilters(utterance string) FilterSet {
	t := Fold(utterance)
	var f FilterSet

	f.DateDay = extractDay(t)
	f.RangeDays = extractRange(t)

	// The whole-month cue always wins over a coincidentally matched day
	// number or window in the same utterance.
	if wholeMonth(t) {
		f.WholeMonth = true
		f.DateDay = 0
		f.RangeDays = 0
	}

	f.Currency = extractCurrency(t)
	f.Sort = extractSort(t)
	return f
}

// extractDay returns the first in-range day-of-month reference, pattern
// order deciding precedence. Out-of-range numbers ("el 35") are treated
// as no day at all.
func extractDay(t string) int {
	for _, re := range dayPatterns {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		day, err := strconv.Atoi(m[1])
		if err == nil && day >= 1 && day <= 31 {
			return day
		}
	}
	return 0
}

// extractRange resolves "próximas N semanas/días" phrases to a day
// count. Week units multiply by 7. A bare phrase with no number falls
// back to DefaultRangeWeeks.
func extractRange(t string) int {
	if m := rangePattern.FindStringSubmatch(t); m != nil {
		n, ok := spelledNumbers[m[1]]
		if !ok {
			var err error
			n, err = strconv.Atoi(m[1])
			if err != nil {
				return 0
			}
		}
		days := n
		if strings.HasPrefix(m[2], "semana") {
			days = n * 7
		}
		if days >= 1 && days <= maxRangeDays {
			return days
		}
		return 0
	}
	if bareRangePattern.MatchString(t) {
		return DefaultRangeWeeks * 7
	}
	return 0
}

func wholeMonth(t string) bool {
	if strings.Contains(t, "todo el mes") {
		return true
	}
	return strings.Contains(t, "mes") &&
		(strings.Contains(t, "todo") || strings.Contains(t, "entero"))
}

// extractCurrency normalizes any currency mention to its 3-letter code.
// Word forms are word-boundary matched; symbols are substring scanned,
// with "us$" checked before the bare "$".
func extractCurrency(t string) string {
	for _, code := range []string{"USD", "PEN", "EUR"} {
		if currencyPatterns[code].MatchString(t) {
			return code
		}
	}
	switch {
	case strings.Contains(t, "us$"), strings.Contains(t, "$"):
		return "USD"
	case strings.Contains(t, "s/"):
		return "PEN"
	case strings.Contains(t, "€"):
		return "EUR"
	}
	return ""
}

// extractSort detects an explicit sort preference. A field without a
// direction defaults to DESC for amounts (biggest first) and ASC for
// dates (soonest first).
func extractSort(t string) *Sort {
	var field SortField
	switch {
	case sortAmountPattern.MatchString(t):
		field = SortAmount
	case sortDatePattern.MatchString(t):
		field = SortDate
	default:
		return nil
	}

	var dir SortDir
	switch {
	case sortDescPattern.MatchString(t):
		dir = SortDesc
	case sortAscPattern.MatchString(t):
		dir = SortAsc
	case field == SortAmount:
		dir = SortDesc
	default:
		dir = SortAsc
	}
	return &Sort{Field: field, Dir: dir}
}
