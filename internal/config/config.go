package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Historic/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Historic"
	AppID             = "com.github.tartampluch.go-historic"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvFileName       = ".env"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags, Environment & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagPort      = "port"
	FlagSource    = "source"
	FlagURL       = "url"
	FlagUser      = "user"
	FlagLang      = "lang"
	FlagInterval  = "interval"
	FlagHijriData = "hijri-data"
	FlagReminder  = "reminder"
	FlagRemUnit   = "reminder-unit"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescPort      = "Port of the local HTTP server"
	FlagDescSource    = "Path of a local .vcf file"
	FlagDescURL       = "CardDAV/WebDAV URL of a vCard collection"
	FlagDescUser      = "HTTP Basic Auth user for -url"
	FlagDescLang      = "Language of era and month names (de, en, fa, fr, sv)"
	FlagDescInterval  = "Refresh interval in minutes (0 disables the worker)"
	FlagDescHijriData = "Directory of additional Hijri TOML tables"
	FlagDescReminder  = "Alarm this many units before each anniversary (0 disables)"
	FlagDescRemUnit   = "Unit of -reminder: days, hours or minutes"

	EnvPort      = "GO_HISTORIC_PORT"
	EnvSource    = "GO_HISTORIC_SOURCE"
	EnvURL       = "GO_HISTORIC_URL"
	EnvUser      = "GO_HISTORIC_USER"
	EnvPassword  = "GO_HISTORIC_PASSWORD"
	EnvLang      = "GO_HISTORIC_LANG"
	EnvHijriData = "GO_HISTORIC_HIJRI_DATA"
	EnvInterval  = "GO_HISTORIC_INTERVAL"
	EnvReminder  = "GO_HISTORIC_REMINDER"
	EnvRemUnit   = "GO_HISTORIC_REMINDER_UNIT"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "en"
	DisabledInterval  = 0
	UIDSalt           = "go-historic-v1-" // Salt for deterministic UID generation

	// MaxHijriAdjustment bounds the "@+n" day shift of a Hijri variant id.
	MaxHijriAdjustment = 3

	// ProjectionSpan is the number of calendar years projected on each side of
	// the current year of an anniversary's own calendar.
	ProjectionSpan = 1
)

// -----------------------------------------------------------------------------
// Reminders (ISO 8601 durations)
// -----------------------------------------------------------------------------

const (
	UnitDays    = "days"
	UnitHours   = "hours"
	UnitMinutes = "minutes"

	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// SupportedLanguages lists the bundled locale files (ISO 639-1).
var SupportedLanguages = []string{"de", "en", "fa", "fr", "sv"}

// -----------------------------------------------------------------------------
// Translation Keys
// -----------------------------------------------------------------------------

const (
	// Era names are looked up as era_<era key>_<mode>, e.g. era_ad_wide.
	TKeyEraPrefix = "era_"

	// Month names are looked up as <prefix><number>, e.g. month_3.
	TKeyMonthPrefix        = "month_"
	TKeyPersianMonthPrefix = "persian_month_"
	TKeyHijriMonthPrefix   = "hijri_month_"

	TKeyEvtSummary     = "evt_summary"
	TKeyEvtSummaryAge  = "evt_summary_age"
	TKeyEvtDescription = "evt_description"

	LocaleDir        = "locales"
	LocaleFilePrefix = "active."
)

// -----------------------------------------------------------------------------
// Calendar Identifiers
// -----------------------------------------------------------------------------

const (
	CalendarGregorian = "gregorian"
	CalendarJulian    = "julian"
	CalendarPersian   = "persian"

	// CalendarHistoricPrefix introduces a historic variant key, e.g. "historic:en-GB".
	CalendarHistoricPrefix = "historic:"

	// CalScaleExtPrefix is the vCard extension prefix tolerated on CALSCALE values.
	CalScaleExtPrefix = "x-"

	HijriAdjustmentSep = "@"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Historic//Anniversaries//EN"
	ICalCalName = "Anniversaries"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gohistoric"

	// Alarm component
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
	PropAction      = "ACTION"
	PropTrigger     = "TRIGGER"

	VCardBDAY        = "BDAY"
	VCardAnniversary = "ANNIVERSARY"
	VCardFN          = "FN"
	VCardN           = "N"
	VCardCalScale    = "CALSCALE"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats & Limits
// -----------------------------------------------------------------------------

const (
	// DateFormatNoYearPfx opens a vCard date without a year, e.g. --03-25.
	DateFormatNoYearPfx = "--"

	// DateSeparator splits the numeric fields of a calendar date value.
	DateSeparator = "-"

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// FormatISODate renders a (year, month, day) triple of any calendar.
	FormatISODate = "%04d-%02d-%02d"

	// File Extensions
	ExtTOML = ".toml"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 64 * 1024 * 1024 // 64MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteConvert        = "/convert"
	RouteMetrics        = "/metrics"
	AddrSeparator       = ":"

	QueryFrom = "from"
	QueryTo   = "to"
	QueryDate = "date"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricsNamespace = "gohistoric"

	MetricLabelFrom   = "from"
	MetricLabelTo     = "to"
	MetricLabelResult = "result"
	MetricLabelStatus = "status"

	MetricResultOK      = "ok"
	MetricResultInvalid = "invalid"
	MetricUnknownLabel  = "unknown"

	MetricConversions     = "conversions_total"
	MetricConversionsHelp = "Date conversions served by /convert"
	MetricFeedRequests    = "feed_requests_total"
	MetricFeedHelp        = "Feed requests by HTTP status"

	// Validation tags of the /convert query.
	ValidationTagCalendar = "calendar"
	ValidationTagISODate  = "isodate"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	// Calendar core
	ErrFieldOutOfRange      = "field out of range"
	ErrUnknownVariant       = "unknown calendar variant"
	ErrImplausibleDualYear  = "implausible dual year"
	ErrVariantRangeExceeded = "variant range exceeded"
	ErrAmbiguousEra         = "ambiguous era"
	ErrMalformedInput       = "malformed input"

	// Data & locale loading
	ErrHijriTable    = "invalid hijri table"
	ErrHijriDataDir  = "failed to read hijri data directory"
	ErrLocalesAccess = "failed to access embedded locales"
	ErrLocaleLoad    = "failed to load locale file"

	// Feed & server
	ErrLocalPathEmpty = "configuration error: local path is empty"
	ErrWebURLEmpty    = "configuration error: web URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrCalScale       = "unsupported calendar scale"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrSyncFailed     = "synchronization failed"
	ErrConvertRequest = "invalid conversion request"
	ErrFetchRequest   = "failed to create request"
	ErrFetchNetwork   = "network error during fetch"
	ErrFetchStatus    = "server returned unexpected status"
	ErrReminderUnit   = "unsupported reminder unit"
	ErrEnvInt         = "ignoring non-numeric environment value"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary = "Anniversary: %s"
	FallbackName    = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted   = "Synchronization started..."
	MsgSyncFinished  = "Synchronization finished"
	MsgWorkerStart   = "Background worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgAppStop       = "Application stopped gracefully"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date value"
	MsgSkippedYear   = "Skipping year outside calendar range"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgTableLoaded   = "Hijri table loaded"
	MsgEnvMissing    = "No env file loaded"
	MsgConverted     = "Date converted"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgAnnivToday    = "Anniversary found today"
	MsgFetchStart    = "Downloading vCards"
	MsgFetchStatus   = "vCard server returned an error status"
	MsgFetchOK       = "vCard download started"
	MsgWorkerOnce    = "Periodic refresh disabled, feed built once"
	MsgCtxCancel     = "Shutdown signal received"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "anniversaries_found"
	LogKeyToday     = "anniversaries_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyCalendar  = "calendar"
	LogKeyVariant   = "variant"
	LogKeyYear      = "year"
	LogKeyFrom      = "from"
	LogKeyTo        = "to"
	LogKeyDuration  = "duration_ms"
	LogKeyLength    = "content_length"
	LogKeyKind      = "kind"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyCommit  = "commit"
	LogKeyBuilt   = "built"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompFeed    = "feed"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompHijri   = "hijri"
)
