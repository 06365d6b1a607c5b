package temporal

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/spektr-org/reportes/internal/fold"
)

// ============================================================================
// TEMPORAL RESOLVER — Relative and explicit date phrases → [start, end]
// ============================================================================
// Rules are evaluated in a fixed order and the first one that matches wins:
//
//   today → yesterday → last N days → this week → last week → this month →
//   last month → this year → last year → last quarter → from A to B →
//   bare date tokens → bare month name → bare "trimestre"
//
// Spanish and English phrasings are both recognised. Input is folded
// (lower case, no accents) before matching. Nothing here returns an error:
// an unrecognised phrase yields an empty Range.
// ============================================================================

// Range is a resolved period. Either bound may be nil.
type Range struct {
	Start *time.Time `json:"fecha_inicio,omitempty"`
	End   *time.Time `json:"fecha_fin,omitempty"`
}

// IsZero reports whether neither bound was resolved.
func (r Range) IsZero() bool { return r.Start == nil && r.End == nil }

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the location day boundaries are computed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// Resolver turns phrases into date ranges. It is immutable after New.
type Resolver struct {
	now func() time.Time
	loc *time.Location
}

// New creates a Resolver using the wall clock in the local time zone
// unless options say otherwise.
func New(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the current instant in the resolver's location.
func (r *Resolver) Now() time.Time { return r.now().In(r.loc) }

// Location returns the location day boundaries are computed in.
func (r *Resolver) Location() *time.Location { return r.loc }

// ============================================================================
// PATTERNS
// ============================================================================

var (
	todayRe      = regexp.MustCompile(`\b(?:hoy|today)\b`)
	rangeTodayRe = regexp.MustCompile(`\b(?:desde|from)\s+.+?\s+(?:hasta|to|until)\s+(?:el\s+dia\s+de\s+)?(?:hoy|today)\b`)
	yesterdayRe  = regexp.MustCompile(`\b(?:ayer|yesterday)\b`)
	lastDaysRe   = regexp.MustCompile(`\b(?:ultimos?\s+(\d+)\s+dias?|(?:last|past)\s+(\d+)\s+days?)\b`)
	thisWeekRe   = regexp.MustCompile(`\b(?:esta\s+semana|this\s+week)\b`)
	lastWeekRe   = regexp.MustCompile(`\b(?:semana\s+pasada|ultima\s+semana|semana\s+anterior|last\s+week|previous\s+week)\b`)
	thisMonthRe  = regexp.MustCompile(`\b(?:este\s+mes|mes\s+actual|this\s+month)\b`)
	lastMonthRe  = regexp.MustCompile(`\b(?:mes\s+pasado|ultimo\s+mes|mes\s+anterior|last\s+month|previous\s+month)\b`)
	thisYearRe   = regexp.MustCompile(`\b(?:este\s+ano|ano\s+actual|this\s+year)\b`)
	lastYearRe   = regexp.MustCompile(`\b(?:ano\s+pasado|ultimo\s+ano|ano\s+anterior|last\s+year|previous\s+year)\b`)
	quarterRe    = regexp.MustCompile(`\b(?:ultimo\s+trimestre|trimestre\s+pasado|last\s+quarter)\b`)
	fromToRe     = regexp.MustCompile(`\b(?:desde|from)\s+(.+?)\s+(?:hasta|to|until)\s+(.+)`)

	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	longDateRe    = regexp.MustCompile(`\b(\d{1,2})\s+de\s+([a-z]+)\s+(?:de|del)\s+(\d{4})\b`)
	isoDateRe     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	todayWordRe   = regexp.MustCompile(`^(?:el\s+dia\s+de\s+)?(?:hoy|today)\b`)

	bareMonthRe   = regexp.MustCompile(`\b(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)\b`)
	bareQuarterRe = regexp.MustCompile(`\btrimestre\b`)
)

var monthNames = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

// ============================================================================
// RESOLVE
// ============================================================================

// Resolve maps a phrase to a date range. An unrecognised phrase returns
// the zero Range.
func (r *Resolver) Resolve(text string) Range {
	s := fold.String(text)
	if s == "" {
		return Range{}
	}
	now := r.Now()
	today := StartOfDay(now)

	switch {
	case todayRe.MatchString(s) && !rangeTodayRe.MatchString(s):
		return span(today, EndOfDay(today))

	case yesterdayRe.MatchString(s):
		y := today.AddDate(0, 0, -1)
		return span(y, EndOfDay(y))
	}

	if m := lastDaysRe.FindStringSubmatch(s); m != nil {
		digits := m[1]
		if digits == "" {
			digits = m[2]
		}
		if n, err := strconv.Atoi(digits); err == nil {
			return span(now.AddDate(0, 0, -n), now)
		}
	}

	monday := today.AddDate(0, 0, -daysSinceMonday(today))

	switch {
	case thisWeekRe.MatchString(s):
		return span(monday, now)

	case lastWeekRe.MatchString(s):
		sunday := monday.AddDate(0, 0, -1)
		return span(monday.AddDate(0, 0, -7), EndOfDay(sunday))

	case thisMonthRe.MatchString(s):
		return span(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, r.loc), now)

	case lastMonthRe.MatchString(s):
		first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, r.loc)
		last := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, r.loc)
		return span(first, EndOfDay(last))

	case thisYearRe.MatchString(s):
		return span(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, r.loc), now)

	case lastYearRe.MatchString(s):
		y := now.Year() - 1
		return span(
			time.Date(y, time.January, 1, 0, 0, 0, 0, r.loc),
			time.Date(y, time.December, 31, 23, 59, 59, 0, r.loc),
		)

	case quarterRe.MatchString(s):
		return span(now.AddDate(0, 0, -90), now)
	}

	if m := fromToRe.FindStringSubmatch(s); m != nil {
		var out Range
		if a, ok := r.firstToken(m[1]); ok {
			out.Start = &a
		}
		if todayWordRe.MatchString(m[2]) {
			end := EndOfDay(today)
			out.End = &end
		} else if b, ok := r.firstToken(m[2]); ok {
			end := EndOfDay(b)
			out.End = &end
		}
		if !out.IsZero() {
			return out
		}
	}

	tokens := r.tokens(s)
	switch {
	case len(tokens) >= 2:
		return span(tokens[0], EndOfDay(tokens[1]))
	case len(tokens) == 1:
		return span(tokens[0], now)
	}

	// A month named alone is its most recent occurrence, never the future.
	if m := bareMonthRe.FindStringSubmatch(s); m != nil {
		month := monthNames[m[1]]
		year := now.Year()
		if month > now.Month() {
			year--
		}
		first := time.Date(year, month, 1, 0, 0, 0, 0, r.loc)
		return span(first, EndOfDay(first.AddDate(0, 1, -1)))
	}
	if bareQuarterRe.MatchString(s) {
		return span(now.AddDate(0, 0, -90), now)
	}
	return Range{}
}

// ParseDate parses a single date token: YYYY-MM-DD, dd/mm/yyyy, dd-mm-yyyy,
// "D de MES de YYYY" or RFC 3339. The result is midnight in the resolver's
// location except for RFC 3339, which keeps its time.
func (r *Resolver) ParseDate(token string) (time.Time, bool) {
	s := fold.String(token)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, token); err == nil {
		return t.In(r.loc), true
	}
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return r.date(m[1], m[2], m[3])
	}
	return r.firstToken(s)
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// ============================================================================
// TOKEN HELPERS
// ============================================================================

type token struct {
	pos int
	at  time.Time
}

// tokens returns every valid date token in s in order of appearance.
func (r *Resolver) tokens(s string) []time.Time {
	var found []token
	for _, idx := range numericDateRe.FindAllStringSubmatchIndex(s, -1) {
		if t, ok := r.date(s[idx[6]:idx[7]], s[idx[4]:idx[5]], s[idx[2]:idx[3]]); ok {
			found = append(found, token{pos: idx[0], at: t})
		}
	}
	for _, idx := range longDateRe.FindAllStringSubmatchIndex(s, -1) {
		month, ok := monthNames[s[idx[4]:idx[5]]]
		if !ok {
			continue
		}
		if t, ok := r.date(s[idx[6]:idx[7]], strconv.Itoa(int(month)), s[idx[2]:idx[3]]); ok {
			found = append(found, token{pos: idx[0], at: t})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]time.Time, 0, len(found))
	for _, f := range found {
		out = append(out, f.at)
	}
	return out
}

func (r *Resolver) firstToken(s string) (time.Time, bool) {
	ts := r.tokens(s)
	if len(ts) == 0 {
		return time.Time{}, false
	}
	return ts[0], true
}

// date builds a calendar date, rejecting values time.Date would normalise
// (31/02/2025 is not 03/03/2025).
func (r *Resolver) date(year, month, day string) (time.Time, bool) {
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, r.loc)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func span(start, end time.Time) Range {
	return Range{Start: &start, End: &end}
}
