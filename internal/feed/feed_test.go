package feed_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/feed"
	"github.com/tartampluch/go-historic/internal/locale"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func card(name string, lines ...string) string {
	return "BEGIN:VCARD\nVERSION:4.0\nFN:" + name + "\n" + strings.Join(lines, "\n") + "\nEND:VCARD\n"
}

// syncWeb runs a web sync over content at the given day.
func syncWeb(t *testing.T, gen *feed.Generator, now time.Time, content string) (string, []feed.Entry, int) {
	t.Helper()
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(content)), nil)

	gen.Clock = MockClock{CurrentTime: now}
	gen.Fetcher = fetcher

	ics, entries, today, err := gen.RunSync(context.Background(), feed.SyncConfig{
		Mode:   config.SourceModeWeb,
		WebURL: "http://test.local",
	})
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
	return string(ics), entries, today
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestRunSync_Local_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(card("John Doe", "BDAY:2000-01-01")), config.FilePermUserRW))

	gen := &feed.Generator{Clock: MockClock{CurrentTime: day(2025, 1, 1)}}
	ics, entries, today, err := gen.RunSync(context.Background(), feed.SyncConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: path,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, today)

	require.Len(t, entries, 1)
	assert.Equal(t, "John Doe", entries[0].Name)
	assert.Equal(t, config.CalendarGregorian, entries[0].Calendar)
	assert.Equal(t, 25, entries[0].AgeNext)

	s := string(ics)
	assert.Contains(t, s, "BEGIN:VCALENDAR")
	assert.Contains(t, s, "SUMMARY:Anniversary: John Doe")
	assert.Contains(t, s, "DESCRIPTION:2000-01-01 (gregorian)")
}

func TestRunSync_LeapDay(t *testing.T) {
	// 29 February moves to 1 March in common years.
	ics, entries, today := syncWeb(t, &feed.Generator{}, day(2025, 3, 1), card("Leap Baby", "BDAY:2000-02-29"))

	assert.Equal(t, 1, today)
	require.Len(t, entries, 1)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), entries[0].NextOccurrence)
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240229")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250301")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260301")
}

func TestRunSync_NextOccurrence(t *testing.T) {
	content := card("Past", "BDAY:1990-01-01") +
		card("Future", "BDAY:1990-12-31") +
		card("Today", "BDAY:1990-06-01")

	_, entries, today := syncWeb(t, &feed.Generator{}, day(2025, 6, 1), content)
	assert.Equal(t, 1, today)
	require.Len(t, entries, 3)

	byName := make(map[string]feed.Entry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), byName["Past"].NextOccurrence)
	assert.Equal(t, 36, byName["Past"].AgeNext)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), byName["Future"].NextOccurrence)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), byName["Today"].NextOccurrence)
	assert.Equal(t, 35, byName["Today"].AgeNext)
}

func TestRunSync_Persian(t *testing.T) {
	// 14 Aban 1394 is 5 November 2015. 1 June 2025 is 11 Khordad 1404.
	gen := &feed.Generator{Catalog: locale.Load().Catalog("en")}
	ics, entries, _ := syncWeb(t, gen, day(2025, 6, 1), card("Ada", "BDAY;CALSCALE=persian:1394-08-14"))

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, config.CalendarPersian, e.Calendar)
	assert.Equal(t, []int{1394, 8, 14}, []int{e.Year, e.Month, e.Day})
	assert.Equal(t, time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC), e.NextOccurrence)
	assert.Equal(t, 10, e.AgeNext)

	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20241104")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20251105")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20261105")
	assert.Contains(t, ics, "DESCRIPTION:14 Aban 1394 (persian)")
	assert.Contains(t, ics, "-1403@"+config.ICalDomain)
}

func TestRunSync_PersianLeapDay(t *testing.T) {
	// 30 Esfand exists in 1403 only; 1404 and 1405 fall back to 1 Farvardin.
	ics, _, _ := syncWeb(t, &feed.Generator{}, day(2025, 6, 1), card("Esfand", "BDAY;CALSCALE=persian:1399-12-30"))

	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250320")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260321")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20270321")
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
}

func TestRunSync_Julian(t *testing.T) {
	ics, entries, _ := syncWeb(t, &feed.Generator{}, day(2025, 6, 1), card("Old Style", "BDAY;CALSCALE=x-julian:1900-01-01"))

	require.Len(t, entries, 1)
	assert.Equal(t, config.CalendarJulian, entries[0].Calendar)
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240114")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250114")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260114")
}

func TestRunSync_UmmAlQura(t *testing.T) {
	// 1 June 2025 is 5 Dhu al-Hijjah 1446.
	gen := &feed.Generator{Catalog: locale.Load().Catalog("en")}
	ics, entries, _ := syncWeb(t, gen, day(2025, 6, 1),
		card("Fast", "ANNIVERSARY;CALSCALE=islamic-umalqura:1440-09-01"))

	require.Len(t, entries, 1)
	assert.Equal(t, config.VCardAnniversary, entries[0].Kind)
	assert.Equal(t, time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC), entries[0].NextOccurrence)
	assert.Equal(t, 7, entries[0].AgeNext)

	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240311")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250301")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260218")
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "DESCRIPTION:1 Ramadan 1440 (islamic-umalqura)")
}

func TestRunSync_HistoricUIDStable(t *testing.T) {
	content := card("Newton", `BDAY;CALSCALE="historic:gb":1642-12-25`) +
		card("Newton", `BDAY;CALSCALE="historic:en-GB":1642-12-25`)
	_, entries, _ := syncWeb(t, &feed.Generator{}, day(2025, 6, 1), content)

	require.Len(t, entries, 2)
	assert.Equal(t, "historic:gb", entries[0].Calendar)
	assert.Equal(t, entries[0].Calendar, entries[1].Calendar)
	assert.Equal(t, entries[0].UID, entries[1].UID)
}

func TestRunSync_UnknownCalendar(t *testing.T) {
	ics, entries, _ := syncWeb(t, &feed.Generator{}, day(2025, 6, 1), card("Mars", "BDAY;CALSCALE=martian:0012-03-04"))

	assert.Empty(t, entries)
	assert.Equal(t, config.StubVCalendar, ics)
}

func TestRunSync_BirthdayAndAnniversary(t *testing.T) {
	content := card("Pair", "BDAY:1980-05-10", "ANNIVERSARY:2010-05-10")
	ics, entries, _ := syncWeb(t, &feed.Generator{}, day(2025, 1, 1), content)

	require.Len(t, entries, 2)
	assert.NotEqual(t, entries[0].UID, entries[1].UID)
	assert.Equal(t, 6, strings.Count(ics, "BEGIN:VEVENT"))
}

func TestRunSync_Web_NetworkError(t *testing.T) {
	fetcher := new(MockFetcher)
	expected := errors.New("network unreachable")
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, expected)

	gen := &feed.Generator{
		Clock:   MockClock{CurrentTime: time.Now()},
		Fetcher: fetcher,
	}
	ics, entries, today, err := gen.RunSync(context.Background(), feed.SyncConfig{
		Mode:   config.SourceModeWeb,
		WebURL: "http://bad-url.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, expected)
	assert.Nil(t, ics)
	assert.Nil(t, entries)
	assert.Equal(t, 0, today)
}

func TestRunSync_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		gen     *feed.Generator
		cfg     feed.SyncConfig
		wantErr string
	}{
		{"Empty local path", &feed.Generator{}, feed.SyncConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"Empty URL", &feed.Generator{}, feed.SyncConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"No fetcher", &feed.Generator{}, feed.SyncConfig{Mode: config.SourceModeWeb, WebURL: "http://x"}, config.ErrFetcherMissing},
		{"Unknown mode", &feed.Generator{}, feed.SyncConfig{Mode: "ftp"}, config.ErrModeUnsupport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.gen.Clock = MockClock{CurrentTime: time.Now()}
			_, _, _, err := tt.gen.RunSync(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunSync_WithReminders(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(card("Alarm Test", "BDAY:1990-01-01"))), nil)

	gen := &feed.Generator{
		Clock:   MockClock{CurrentTime: day(2025, 6, 1)},
		Fetcher: fetcher,
	}
	ics, _, _, err := gen.RunSync(context.Background(), feed.SyncConfig{
		Mode:            config.SourceModeWeb,
		WebURL:          "http://test.local",
		ReminderTrigger: "-P1D",
	})
	require.NoError(t, err)

	s := string(ics)
	assert.Contains(t, s, "BEGIN:VALARM")
	assert.Contains(t, s, "TRIGGER:-P1D")
	assert.Contains(t, s, "ACTION:DISPLAY")
}

func TestRunSync_BornThisYear(t *testing.T) {
	gen := &feed.Generator{FormatSummary: locale.Load().Catalog("en").Summary}
	ics, _, _ := syncWeb(t, gen, day(2025, 1, 1), card("Baby", "BDAY:2025-05-01"))

	assert.NotContains(t, ics, "DTSTART;VALUE=DATE:20240501")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250501")
	assert.Contains(t, ics, "SUMMARY:Anniversary: Baby")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20260501")
	assert.Contains(t, ics, "SUMMARY:Baby: 1 years")
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
}

func TestRunSync_FutureDate(t *testing.T) {
	ics, _, _ := syncWeb(t, &feed.Generator{}, day(2025, 1, 1), card("Due", "BDAY:2027-01-01"))
	assert.NotContains(t, ics, "BEGIN:VEVENT")
}

func TestRunSync_DateFormats(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expectEvt bool
	}{
		{"ISO 8601", "1990-10-25", true},
		{"Basic", "19901025", true},
		{"With time", "1990-10-25T00:00:00Z", true},
		{"Truncated", "--10-25", true},
		{"Truncated basic", "--1025", true},
		{"Month out of range", "1990-13-01", false},
		{"Day out of range", "1990-02-30", false},
		{"Garbage", "not-a-date", false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ics, _, _ := syncWeb(t, &feed.Generator{}, day(2025, 1, 1), card("Test", "BDAY:"+tt.value))
			if tt.expectEvt {
				assert.Contains(t, ics, "BEGIN:VEVENT")
			} else {
				assert.NotContains(t, ics, "BEGIN:VEVENT")
			}
		})
	}
}

func TestRunSync_ContextCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vcf")
	require.NoError(t, os.WriteFile(path, nil, config.FilePermUserRW))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &feed.Generator{Clock: MockClock{CurrentTime: time.Now()}}
	_, _, _, err := gen.RunSync(ctx, feed.SyncConfig{Mode: config.SourceModeLocal, LocalPath: path})
	assert.Equal(t, context.Canceled, err)
}
