package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tartampluch/go-historic/internal/calsys"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/feed"
	"github.com/tartampluch/go-historic/internal/hijri"
	"github.com/tartampluch/go-historic/internal/locale"
	"github.com/tartampluch/go-historic/internal/server"
	"github.com/tartampluch/go-historic/internal/worker"
)

// options collects the flags after environment defaults were applied.
type options struct {
	port         string
	source       string
	url          string
	user         string
	password     string
	lang         string
	hijriData    string
	interval     int
	reminder     int
	reminderUnit string
}

// main delegates to runMain so that deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

func runMain() int {
	// -------------------------------------------------------------------------
	// 1. Environment & CLI Arguments
	// -------------------------------------------------------------------------
	envErr := godotenv.Load(config.EnvFileName)

	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.port, config.FlagPort, getEnv(config.EnvPort, config.DefaultPort), config.FlagDescPort)
	flag.StringVar(&opts.source, config.FlagSource, getEnv(config.EnvSource, ""), config.FlagDescSource)
	flag.StringVar(&opts.url, config.FlagURL, getEnv(config.EnvURL, ""), config.FlagDescURL)
	flag.StringVar(&opts.user, config.FlagUser, getEnv(config.EnvUser, ""), config.FlagDescUser)
	flag.StringVar(&opts.lang, config.FlagLang, getEnv(config.EnvLang, config.DefaultLanguage), config.FlagDescLang)
	flag.StringVar(&opts.hijriData, config.FlagHijriData, getEnv(config.EnvHijriData, ""), config.FlagDescHijriData)
	flag.IntVar(&opts.interval, config.FlagInterval, getEnvInt(config.EnvInterval, config.DefaultRefreshMin), config.FlagDescInterval)
	flag.IntVar(&opts.reminder, config.FlagReminder, getEnvInt(config.EnvReminder, 0), config.FlagDescReminder)
	flag.StringVar(&opts.reminderUnit, config.FlagRemUnit, getEnv(config.EnvRemUnit, config.UnitDays), config.FlagDescRemUnit)
	flag.Parse()
	opts.password = os.Getenv(config.EnvPassword)

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}
	if envErr != nil {
		slog.Debug(config.MsgEnvMissing,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, envErr,
		)
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signals
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Services
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the calendars, the feed worker and the HTTP server, then blocks
// until ctx is cancelled.
func run(ctx context.Context, opts options) error {
	router, err := newRouter(opts.hijriData)
	if err != nil {
		return err
	}

	trigger, err := worker.ReminderTrigger(opts.reminder, opts.reminderUnit)
	if err != nil {
		return err
	}

	catalog := locale.Load().Catalog(opts.lang)
	srv := server.NewCalendarServer(opts.port, router)
	svc := &worker.Service{
		Syncer: &feed.Generator{
			Clock:         feed.RealClock{},
			Fetcher:       feed.NewHTTPFetcher(),
			Router:        router,
			Catalog:       catalog,
			FormatSummary: catalog.Summary,
		},
		Publisher: srv,
		Config:    syncConfig(opts, trigger),
		Interval:  time.Duration(opts.interval) * time.Minute,
	}

	go svc.Run(ctx)
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
	}()

	return srv.Start(ctx)
}

// newRouter adds the tables of dir, if any, to the built-in Hijri variants.
func newRouter(dir string) (*calsys.Router, error) {
	if dir == "" {
		return calsys.NewRouter(nil), nil
	}
	reg, err := hijri.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return calsys.NewRouter(reg), nil
}

// syncConfig reads vCards from -url when set, otherwise from -source.
func syncConfig(opts options, trigger string) feed.SyncConfig {
	cfg := feed.SyncConfig{
		Mode:            config.SourceModeLocal,
		LocalPath:       opts.source,
		ReminderTrigger: trigger,
	}
	if opts.url != "" {
		cfg.Mode = config.SourceModeWeb
		cfg.WebURL = opts.url
		cfg.WebUser = opts.user
		cfg.WebPass = opts.password
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrEnvInt, key, err)
		return fallback
	}
	return n
}

func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON logger on stdout and, when possible, on a
// log file in the user cache directory. The returned closer may be nil.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// Truncated on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.LogFileName), nil
}
