// healcardctl drives the Healcard dashboard's appointment actions from
// the terminal: navigation shortcuts, single-appointment cancellation and
// bulk deletion by date, against the API directly or through a real
// browser with --browser.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/HeerHirpara/healcard-dashboard/internal/alerts"
	"github.com/HeerHirpara/healcard-dashboard/internal/browser"
	"github.com/HeerHirpara/healcard-dashboard/internal/config"
	"github.com/HeerHirpara/healcard-dashboard/internal/dashboard"
	"github.com/HeerHirpara/healcard-dashboard/internal/observability/metrics"
	"github.com/HeerHirpara/healcard-dashboard/internal/prompt"
	"github.com/HeerHirpara/healcard-dashboard/pkg/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: healcardctl [--browser] [--stats] <command> [args]

Commands:
  patients                open the patient listing
  notifications           open the notifications page
  cancel <id>             cancel one appointment
  delete-by-date <date>   delete every appointment on a date
  watch [path]            wait for a page's alert banners to dismiss (browser only)`)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	if err := run(cfg, logger, os.Args[1:]); err != nil {
		logger.Error("healcardctl failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger, args []string) error {
	useBrowser := false
	showStats := false
	var rest []string
	for _, arg := range args {
		switch arg {
		case "--browser":
			useBrowser = true
		case "--stats":
			showStats = true
		default:
			rest = append(rest, arg)
		}
	}
	if len(rest) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.NewActionMetrics(reg)

	board := alerts.NewBoard(prompt.NewLineSurface(os.Stdout),
		alerts.WithDelays(cfg.AlertDismissDelay, cfg.AlertFadeDelay),
		alerts.WithLogger(logger),
	)
	defer board.Stop()
	prompter := prompt.NewBannerNotifier(prompt.NewTerminal(os.Stdin, os.Stdout), board)

	client := dashboard.NewClient(cfg.BaseURL,
		dashboard.WithLogger(logger),
		dashboard.WithSessionCookie(cfg.SessionCookie),
		dashboard.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	var drv *browser.Driver
	var nav dashboard.Navigator = dashboard.NewPageNavigator(client)
	if useBrowser {
		drv = browser.New(cfg.BaseURL,
			browser.WithHeadless(cfg.BrowserHeadless),
			browser.WithTimeout(cfg.BrowserTimeout),
			browser.WithLogger(logger),
		)
		defer drv.Close()
		nav = drv
	}

	session := dashboard.NewSession(client, prompter, nav, m, logger)

	var err error
	switch rest[0] {
	case "patients":
		err = session.OpenPatients(ctx)
	case "notifications":
		err = session.OpenNotifications(ctx)
	case "cancel":
		if len(rest) < 2 {
			usage()
			return fmt.Errorf("cancel requires an appointment id")
		}
		if useBrowser {
			err = browserCancel(ctx, drv, prompter, rest[1])
		} else {
			_, err = session.CancelAppointment(ctx, rest[1])
		}
	case "delete-by-date":
		if len(rest) < 2 {
			usage()
			return fmt.Errorf("delete-by-date requires a date")
		}
		if useBrowser {
			err = browserDelete(ctx, drv, prompter, rest[1])
		} else {
			_, err = session.DeleteAppointmentsByDate(ctx, rest[1])
		}
	case "watch":
		if drv == nil {
			return fmt.Errorf("watch requires --browser")
		}
		path := "/"
		if len(rest) > 1 {
			path = rest[1]
		}
		err = drv.WatchAlerts(ctx, path)
	default:
		usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}

	// Let shown notices live out their dismiss cycle before exit.
	board.Wait()

	if showStats {
		printStats(reg)
	}
	return err
}

// browserCancel confirms on the terminal, then lets the driver run the
// page's own cancel flow (its confirm dialog is auto-accepted).
func browserCancel(ctx context.Context, drv *browser.Driver, prompter dashboard.Prompter, appointmentID string) error {
	if !prompter.Confirm("Are you sure you want to cancel this appointment?") {
		return nil
	}
	return drv.CancelAppointment(ctx, appointmentID)
}

func browserDelete(ctx context.Context, drv *browser.Driver, prompter dashboard.Prompter, date string) error {
	if date == "" {
		prompter.Notify("Please select a date")
		return nil
	}
	if !prompter.Confirm(fmt.Sprintf("Are you sure you want to delete all appointments for %s?", date)) {
		return nil
	}
	return drv.DeleteAppointmentsByDate(ctx, date)
}

func printStats(reg prometheus.Gatherer) {
	snap := metrics.SnapshotActions(reg)
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %d\n", k, snap[k])
	}
}
