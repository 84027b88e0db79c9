// Package cmd implements the folio command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/etnz/fundfolio"
	"github.com/etnz/fundfolio/api"
	"github.com/etnz/fundfolio/config"
	"github.com/etnz/fundfolio/date"
	"github.com/etnz/fundfolio/oracle"
	"github.com/etnz/fundfolio/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, r := range reportCmds() {
		c.Register(r, "reports")
	}
	c.Register(&validateCmd{}, "reports")
	c.Register(&portfoliosCmd{}, "reports")

	c.Register(&quoteCmd{}, "prices")
	c.Register(&refreshCmd{}, "prices")
	c.Register(&importNavCmd{}, "prices")
	c.Register(&fetchHistoryCmd{}, "prices")

	c.Register(&serveCmd{}, "services")
	c.Register(&assistCmd{}, "services")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile    = flag.String("config", config.DefaultFile, "Path to the configuration file")
	portfolioName = flag.String("portfolio", "", "Portfolio to report on. Defaults to the only portfolio if there is one.")
	todayFlag     = flag.String("today", "", "Date of the reports (YYYY-MM-DD). Defaults to today.")
	logLevel      = flag.String("log-level", "", "Log level (debug, info, warn, error). Overrides the configuration.")
	htmlOutput    = flag.Bool("html", false, "Write reports as an HTML page")
	jsonOutput    = flag.Bool("json", false, "Write reports as JSON")
)

// app holds what the commands share: the configuration, the logger and the
// stores.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	today   date.Date
	ledgers store.LedgerCSV
	navs    store.NavStore
	close   func() error
}

// newApp loads the configuration and opens the stores.
func newApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		log:     newLogger(cfg.LogLevel),
		ledgers: store.LedgerCSV{Dir: cfg.LedgerDir},
		close:   func() error { return nil },
	}
	if *todayFlag != "" {
		if a.today, err = date.Parse(*todayFlag); err != nil {
			return nil, err
		}
	}

	switch cfg.NavStore {
	case "sqlite":
		db, err := store.OpenSQLite(cfg.SQLitePath, a.log)
		if err != nil {
			return nil, err
		}
		a.navs, a.close = db, db.Close
	default:
		a.navs = store.NewNavCSV(cfg.NavDir, a.log)
	}
	return a, nil
}

// newLogger writes human readable logs on stderr.
func newLogger(level string) zerolog.Logger {
	if *logLevel != "" {
		level = *logLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).With().Timestamp().Logger()
}

// openApp is newApp for the commands: errors are printed.
func openApp() (*app, bool) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, false
	}
	return a, true
}

// now is the date of the reports.
func (a *app) now() date.Date {
	if a.today.IsZero() {
		return date.Today()
	}
	return a.today
}

// Portfolios lists the ledger files.
func (a *app) Portfolios() ([]string, error) { return a.ledgers.Portfolios() }

// portfolio returns the portfolio selected by -portfolio, or the only one.
func (a *app) portfolio() (string, error) {
	if *portfolioName != "" {
		return *portfolioName, nil
	}
	names, err := a.Portfolios()
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("no portfolio in %s", a.cfg.LedgerDir)
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("several portfolios %v, select one with -portfolio", names)
	}
}

// Report computes the report of the portfolio name.
func (a *app) Report(ctx context.Context, name string) (*fundfolio.Report, error) {
	names, err := a.Portfolios()
	if err != nil {
		return nil, err
	}
	if !slices.Contains(names, name) {
		return nil, fmt.Errorf("%q: %w", name, api.ErrUnknownPortfolio)
	}
	l, err := a.ledgers.Ledger(name)
	if err != nil {
		return nil, err
	}
	bench, err := store.BenchmarkCSV{Dir: a.cfg.BenchmarkDir}.Load(name)
	if err != nil {
		return nil, fmt.Errorf("cannot read benchmark of %s: %w", name, err)
	}
	modTime, err := a.ledgers.ModTime(name)
	if err != nil {
		return nil, err
	}
	e := &fundfolio.Engine{
		Today:     a.today,
		Navs:      a.navs,
		Benchmark: bench,
		Memo:      &fundfolio.Memo{Dir: a.cfg.MemoDir, Portfolio: name, LedgerModTime: modTime},
	}
	r, err := e.Compute(l)
	if err != nil {
		return nil, err
	}
	if r.Currency == "" {
		r.Currency = a.cfg.Currency
	}
	a.log.Debug().Str("portfolio", name).Int("warnings", len(r.Warnings)).Msg("report computed")
	return r, nil
}

// oracle builds the price oracle with the configured sources.
func (a *app) oracle() *oracle.Oracle {
	var sources []oracle.Source
	for _, name := range a.cfg.Sources {
		switch name {
		case config.SourceEODHD:
			if a.cfg.EODHDAPIKey == "" {
				a.log.Debug().Msg("EODHD_API_KEY not set, eodhd source disabled")
				continue
			}
			sources = append(sources, &oracle.EODHD{APIKey: a.cfg.EODHDAPIKey, Client: oracle.Daily(a.cfg.HTTPCacheDir, a.log)})
		case config.SourceTradegate:
			sources = append(sources, &oracle.Tradegate{})
		case config.SourceYahoo:
			sources = append(sources, &oracle.Yahoo{Symbols: a.cfg.Symbols})
		}
	}
	cache := &oracle.FileCache{Path: a.cfg.CacheFile}
	return oracle.New(cache, time.Duration(a.cfg.CacheTTL), a.log, sources...)
}

// historySource returns the source of daily prices named name.
func (a *app) historySource(name string) (oracle.HistorySource, error) {
	switch name {
	case config.SourceEODHD:
		if a.cfg.EODHDAPIKey == "" {
			return nil, errors.New("EODHD_API_KEY is not set")
		}
		return &oracle.EODHD{APIKey: a.cfg.EODHDAPIKey, Client: oracle.Daily(a.cfg.HTTPCacheDir, a.log)}, nil
	case config.SourceYahoo:
		return &oracle.Yahoo{Symbols: a.cfg.Symbols}, nil
	default:
		return nil, fmt.Errorf("%q has no price history, use %s or %s", name, config.SourceEODHD, config.SourceYahoo)
	}
}

// refresh updates the quotes of the assets of the portfolios, and records
// them in the NAV store.
func (a *app) refresh(ctx context.Context, o *oracle.Oracle, portfolios []string, force bool) (map[string]oracle.Quote, error) {
	var ids []fundfolio.Identifier
	seen := make(map[string]bool)
	for _, name := range portfolios {
		l, err := a.ledgers.Ledger(name)
		if err != nil {
			return nil, err
		}
		idents := l.Identifiers()
		for _, key := range l.Assets() {
			if !seen[key] && l.HoldingAsOf(key, a.now()).IsPositive() {
				seen[key] = true
				ids = append(ids, idents[key])
			}
		}
	}
	quotes, err := o.Refresh(ctx, ids, force)
	if err != nil {
		return quotes, err
	}
	for key, q := range quotes {
		row, ok := q.PriceRow()
		if !ok || !fundfolio.IsISIN(key) {
			continue
		}
		if err := a.navs.Merge(key, []fundfolio.PriceRow{row}); err != nil {
			return quotes, err
		}
	}
	return quotes, nil
}
