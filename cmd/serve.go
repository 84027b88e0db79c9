package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/fundfolio/api"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

// serveCmd runs the JSON API and the scheduled quote refresh.
type serveCmd struct {
	listen   string
	schedule string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the reports over HTTP and refresh the quotes on schedule" }
func (*serveCmd) Usage() string {
	return `folio serve [-listen <addr>] [-schedule <cron>]

  Serves the reports of every portfolio as JSON and HTML, and refreshes the
  quotes of the assets held on the refresh schedule, a cron expression or
  "off".
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.listen, "listen", "", "address to listen on. Overrides the configuration.")
	f.StringVar(&c.schedule, "schedule", "", "quote refresh schedule. Overrides the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openApp()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	listen := orFlag(c.listen, a.cfg.Listen)
	schedule := orFlag(c.schedule, a.cfg.RefreshSchedule)

	scheduler := cron.New()
	if schedule != "off" {
		if _, err := scheduler.AddFunc(schedule, func() { a.refreshJob(ctx) }); err != nil {
			fmt.Fprintf(os.Stderr, "invalid refresh schedule %q: %v\n", schedule, err)
			return subcommands.ExitUsageError
		}
		scheduler.Start()
		a.log.Info().Str("schedule", schedule).Msg("quote refresh scheduled")
	}
	defer func() { <-scheduler.Stop().Done() }()

	srv := api.New(listen, a, a.log)
	errs := make(chan error, 1)
	go func() { errs <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errs:
		if err != nil {
			a.log.Error().Err(err).Msg("server failed")
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	case <-quit:
		a.log.Info().Msg("shutting down")
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		a.log.Error().Err(err).Msg("server forced to shutdown")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// refreshJob refreshes the quotes of every portfolio. Errors are logged.
func (a *app) refreshJob(ctx context.Context) {
	names, err := a.Portfolios()
	if err != nil {
		a.log.Error().Err(err).Msg("cannot list portfolios")
		return
	}
	if _, err := a.refresh(ctx, a.oracle(), names, false); err != nil {
		a.log.Error().Err(err).Msg("quote refresh failed")
	}
}

func orFlag(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
