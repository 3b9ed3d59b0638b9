// Package feed turns the birthdays and anniversaries of a vCard collection
// into an iCalendar feed. A date tagged with a CALSCALE recurs in its own
// calendar: a Persian birthday falls on the same Persian day every year.
package feed

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/calsys"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/hijri"
	"github.com/tartampluch/go-historic/internal/locale"
	"github.com/tartampluch/go-historic/internal/persian"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// SyncConfig selects the vCard source of one synchronization.
type SyncConfig struct {
	Mode            string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath       string
	WebURL          string
	WebUser         string
	WebPass         string
	ReminderTrigger string // ISO 8601 duration, e.g. "-P1D"
}

// Generator builds the feed. Router and Catalog may be nil; the default
// Hijri registry and plain ISO descriptions are used then.
type Generator struct {
	Clock   Clock
	Fetcher VCardFetcher
	Router  *calsys.Router
	Catalog *locale.Catalog

	// FormatSummary localizes event titles.
	FormatSummary func(name string, age int, yearKnown bool) string
}

type stats struct{ processed, found, today int }

// RunSync reads the configured source and returns the encoded calendar, the
// anniversaries found and how many of them fall on today.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []Entry, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	ics, entries, today, err := g.generateCalendar(ctx, reader, cfg.ReminderTrigger)
	if err == nil {
		log.Debug(config.MsgSyncFinished, config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return ics, entries, today, err
}

func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

func (g *Generator) router() *calsys.Router {
	if g.Router == nil {
		return calsys.NewRouter(nil)
	}
	return g.Router
}

func (g *Generator) generateCalendar(ctx context.Context, r io.Reader, reminderTrigger string) ([]byte, []Entry, int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	// Anniversaries follow the local calendar date; only DTSTAMP is UTC.
	now := g.Clock.Now()
	today := pivot.FromTime(now)
	dtStamp := ical.NewProp(config.PropDTStamp)
	dtStamp.SetDateTime(now.UTC())

	router := g.router()
	decoder := vcard.NewDecoder(r)
	var st stats
	var entries []Entry

	for {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyError, err)
			continue
		}
		st.processed++

		name := cardName(card)
		for _, kind := range []string{config.VCardBDAY, config.VCardAnniversary} {
			for _, field := range card[kind] {
				a, ok := g.readField(router, name, kind, field)
				if !ok {
					continue
				}
				st.found++

				occ := g.project(a, today)
				entry := a.entry(occ, today)
				entries = append(entries, entry)

				for _, o := range occ {
					if o.day == today {
						st.today++
						slog.Info(config.MsgAnnivToday,
							config.LogKeyComponent, config.CompFeed,
							config.LogKeyName, name,
							config.LogKeyCalendar, a.cal.ID())
					}
					event := g.newEvent(a, o, reminderTrigger)
					event.Props.Set(dtStamp)
					cal.Children = append(cal.Children, event.Component)
				}
			}
		}
	}

	if len(cal.Children) == 0 {
		g.logSuccess(st)
		return []byte(config.StubVCalendar), entries, 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	g.logSuccess(st)
	return buf.Bytes(), entries, st.today, nil
}

func (g *Generator) logSuccess(st stats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompFeed,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, st.processed),
			slog.Int(config.LogKeyFound, st.found),
			slog.Int(config.LogKeyToday, st.today),
		),
	)
}

// cardName prefers FN, then N.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}

// anniversary is a vCard date resolved to its calendar.
type anniversary struct {
	uid       string
	name      string
	kind      string
	cal       calsys.Calendar
	year      int
	month     int
	day       int
	yearKnown bool
}

type occurrence struct {
	year int // in the anniversary's calendar
	day  pivot.Day
}

func (g *Generator) readField(router *calsys.Router, name, kind string, field *vcard.Field) (anniversary, bool) {
	log := slog.With(
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyName, name,
		config.LogKeyKind, kind,
		config.LogKeyValue, field.Value,
	)

	cal, err := router.Lookup(calendarID(field.Params.Get(config.VCardCalScale)))
	if err != nil {
		log.Debug(config.MsgSkippedDate, config.LogKeyError, fmt.Errorf("%s: %w", config.ErrCalScale, err))
		return anniversary{}, false
	}

	y, m, d, yearKnown, err := parseDate(field.Value)
	if err != nil {
		log.Debug(config.MsgSkippedDate, config.LogKeyError, err)
		return anniversary{}, false
	}

	if yearKnown {
		// A year the calendar cannot reach is kept: only its projections matter.
		if _, err := cal.ToPivot(y, m, d); err != nil && !errors.Is(err, calerr.ErrVariantRangeExceeded) {
			log.Debug(config.MsgSkippedDate, config.LogKeyError, err)
			return anniversary{}, false
		}
	} else if m < 1 || m > 12 || d < 1 || d > 31 {
		log.Debug(config.MsgSkippedDate, config.LogKeyError, errors.New(config.ErrDateParse))
		return anniversary{}, false
	}

	input := fmt.Sprintf(config.FormatHashInput, name, kind, cal.ID(), field.Value, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))

	return anniversary{
		uid:       fmt.Sprintf("%x", hash[:config.UIDHashLength]),
		name:      name,
		kind:      kind,
		cal:       cal,
		year:      y,
		month:     m,
		day:       d,
		yearKnown: yearKnown,
	}, true
}

// calendarID normalizes a CALSCALE value. No value means Gregorian.
func calendarID(scale string) string {
	id := strings.ToLower(strings.TrimSpace(scale))
	id = strings.TrimPrefix(id, config.CalScaleExtPrefix)
	if id == "" {
		return config.CalendarGregorian
	}
	return id
}

// project returns the occurrences in the previous, current and next year of
// the anniversary's own calendar. No occurrence precedes the original date.
func (g *Generator) project(a anniversary, today pivot.Day) []occurrence {
	current, _, _, err := a.cal.FromPivot(today)
	if err != nil {
		slog.Warn(config.MsgSkippedYear,
			config.LogKeyComponent, config.CompFeed,
			config.LogKeyCalendar, a.cal.ID(),
			config.LogKeyError, err)
		return nil
	}

	var occ []occurrence
	for y := current - config.ProjectionSpan; y <= current+config.ProjectionSpan; y++ {
		if a.yearKnown && y < a.year {
			continue
		}
		day, err := occurrenceIn(a.cal, y, a.month, a.day)
		if err != nil {
			slog.Debug(config.MsgSkippedYear,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyCalendar, a.cal.ID(),
				config.LogKeyYear, y,
				config.LogKeyError, err)
			continue
		}
		occ = append(occ, occurrence{year: y, day: day})
	}
	return occ
}

// occurrenceIn places month/day in year. A day the year lacks (29 February,
// 30 Esfand, a cutover gap) moves to the first day of the next month.
func occurrenceIn(cal calsys.Calendar, year, month, day int) (pivot.Day, error) {
	p, err := cal.ToPivot(year, month, day)
	if err == nil || !errors.Is(err, calerr.ErrFieldOutOfRange) {
		return p, err
	}
	if month == 12 {
		return cal.ToPivot(year+1, 1, 1)
	}
	return cal.ToPivot(year, month+1, 1)
}

func (a anniversary) age(year int) int {
	if !a.yearKnown {
		return 0
	}
	return year - a.year
}

func (a anniversary) entry(occ []occurrence, today pivot.Day) Entry {
	e := Entry{
		UID:       a.uid,
		Name:      a.name,
		Kind:      a.kind,
		Calendar:  a.cal.ID(),
		Year:      a.year,
		Month:     a.month,
		Day:       a.day,
		YearKnown: a.yearKnown,
	}
	for _, o := range occ {
		if o.day >= today {
			e.NextOccurrence = o.day.Time()
			e.AgeNext = a.age(o.year)
			break
		}
	}
	return e
}

func (g *Generator) newEvent(a anniversary, o occurrence, reminderTrigger string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, a.uid, o.year, config.ICalDomain))

	age := a.age(o.year)
	summary := fmt.Sprintf(config.FallbackSummary, a.name)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(a.name, age, a.yearKnown && age > 0)
	}
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription, g.describe(a))

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDate(o.day.Time())
	event.Props.Set(dtStart)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, summary)
	}
	return event
}

// describe names the original date in words, e.g. "14 Aban 1394 (persian)".
func (g *Generator) describe(a anniversary) string {
	if g.Catalog == nil {
		date := fmt.Sprintf("%02d-%02d", a.month, a.day)
		if a.yearKnown {
			date = fmt.Sprintf(config.FormatISODate, a.year, a.month, a.day)
		}
		return date + " (" + a.cal.ID() + ")"
	}

	var month string
	switch {
	case a.cal.ID() == config.CalendarPersian:
		month = g.Catalog.PersianMonthName(persian.Month(a.month))
	case isHijri(a.cal):
		month = g.Catalog.HijriMonthName(hijri.Month(a.month))
	default:
		month = g.Catalog.MonthName(a.month)
	}
	date := fmt.Sprintf("%d %s", a.day, month)
	if a.yearKnown {
		date += " " + strconv.Itoa(a.year)
	}
	return g.Catalog.Description(date, a.cal.ID())
}

func isHijri(cal calsys.Calendar) bool {
	switch cal.ID() {
	case config.CalendarGregorian, config.CalendarJulian, config.CalendarPersian:
		return false
	}
	_, historic := calsys.Variant(cal)
	return !historic
}

func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set directly so the value is not typed as TEXT.
	prop := ical.NewProp(config.PropTrigger)
	prop.Value = trigger
	alarm.Props.Set(prop)

	event.Children = append(event.Children, alarm)
}

// parseDate reads YYYY-MM-DD, YYYYMMDD and --MM-DD / --MMDD values. A time
// part after "T" is ignored. The fields are returned as written; which
// calendar they belong to is decided by CALSCALE.
func parseDate(value string) (year, month, day int, yearKnown bool, err error) {
	v := strings.TrimSpace(value)
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		v = v[:i]
	}

	bad := func() (int, int, int, bool, error) {
		return 0, 0, 0, false, fmt.Errorf("%s: %q", config.ErrDateParse, value)
	}

	if rest, ok := strings.CutPrefix(v, config.DateFormatNoYearPfx); ok {
		mm, dd, ok := splitFields(rest, 2)
		if !ok {
			return bad()
		}
		month, err1 := strconv.Atoi(mm)
		day, err2 := strconv.Atoi(dd)
		if err1 != nil || err2 != nil {
			return bad()
		}
		return 0, month, day, false, nil
	}

	var yy, mm, dd string
	if parts := strings.Split(v, config.DateSeparator); len(parts) == 3 {
		yy, mm, dd = parts[0], parts[1], parts[2]
	} else if len(v) == 8 && isDigits(v) {
		yy, mm, dd = v[:4], v[4:6], v[6:]
	} else {
		return bad()
	}
	if len(yy) != 4 || len(mm) != 2 || len(dd) != 2 || !isDigits(yy+mm+dd) {
		return bad()
	}
	year, _ = strconv.Atoi(yy)
	month, _ = strconv.Atoi(mm)
	day, _ = strconv.Atoi(dd)
	return year, month, day, true, nil
}

// splitFields splits "MM-DD" or "MMDD" into two fields of width digits.
func splitFields(s string, width int) (string, string, bool) {
	if a, b, ok := strings.Cut(s, config.DateSeparator); ok {
		return a, b, len(a) == width && len(b) == width && isDigits(a+b)
	}
	if len(s) == 2*width && isDigits(s) {
		return s[:width], s[width:], true
	}
	return "", "", false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
