// Package browser drives the live dashboard page with a headless Chrome,
// implementing the same action flows the page's own script runs: confirm
// dialogs, form submission and alert banners.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/HeerHirpara/healcard-dashboard/pkg/logging"
)

// Driver owns a Chrome allocator pointed at the dashboard.
type Driver struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	baseURL     string
	timeout     time.Duration
	logger      *logging.Logger
}

// DriverOption is a functional option for configuring the Driver.
type DriverOption func(*options)

type options struct {
	headless bool
	timeout  time.Duration
	logger   *logging.Logger
}

// WithHeadless toggles headless mode. On by default.
func WithHeadless(headless bool) DriverOption {
	return func(o *options) {
		o.headless = headless
	}
}

// WithTimeout caps each page action.
func WithTimeout(timeout time.Duration) DriverOption {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) DriverOption {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a driver for the dashboard at baseURL.
func New(baseURL string, opts ...DriverOption) *Driver {
	o := &options{
		headless: true,
		timeout:  120 * time.Second,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(1920, 1080),
		chromedp.NoSandbox,
	)
	if !o.headless {
		allocOpts = append(allocOpts,
			chromedp.Flag("headless", false),
		)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &Driver{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		baseURL:     strings.TrimRight(baseURL, "/"),
		timeout:     o.timeout,
		logger:      o.logger,
	}
}

// Close shuts down the Chrome allocator.
func (d *Driver) Close() {
	d.cancelAlloc()
}

// tab opens a fresh tab with the driver's timeout and an auto-accept
// handler for the page's confirm dialogs.
func (d *Driver) tab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, cancelTab := chromedp.NewContext(d.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			msg := fmt.Sprintf(format, args...)
			if strings.Contains(msg, "error") || strings.Contains(msg, "failed") {
				d.logger.Debug("browser: chrome", "message", msg)
			}
		}),
	)

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, d.timeout)

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			go func() {
				if err := chromedp.Run(tabCtx, page.HandleJavaScriptDialog(true)); err != nil {
					d.logger.Warn("browser: accept dialog failed", "error", err)
				}
			}()
		}
	})

	stop := func() {
		cancelTimeout()
		cancelTab()
	}

	// Propagate caller cancellation into the tab.
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-tabCtx.Done():
		}
	}()

	return tabCtx, stop
}

// Navigate loads a dashboard page in a fresh tab.
func (d *Driver) Navigate(ctx context.Context, path string) error {
	tabCtx, cancel := d.tab(ctx)
	defer cancel()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(d.baseURL+path),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: navigate to %s: %w", path, err)
	}
	d.logger.Info("browser: page loaded", "path", path)
	return nil
}

// Reload re-navigates to the dashboard root. Each action runs in its own
// tab, so a plain navigation is the refresh.
func (d *Driver) Reload(ctx context.Context) error {
	return d.Navigate(ctx, "/")
}

// CancelAppointment invokes the page's own cancel handler for the given
// appointment and accepts its confirm dialog, then waits for the page to
// come back after the script's reload.
func (d *Driver) CancelAppointment(ctx context.Context, appointmentID string) error {
	tabCtx, cancel := d.tab(ctx)
	defer cancel()

	script := fmt.Sprintf("cancelAppointment(%q)", appointmentID)
	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(d.baseURL+"/doctor/patients"),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(script, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: cancel appointment %s: %w", appointmentID, err)
	}
	d.logger.Info("browser: appointment cancelled", "appointment_id", appointmentID)
	return nil
}

// DeleteAppointmentsByDate fills #deleteDate and submits the bulk-delete
// form, accepting the confirm dialog.
func (d *Driver) DeleteAppointmentsByDate(ctx context.Context, date string) error {
	tabCtx, cancel := d.tab(ctx)
	defer cancel()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(d.baseURL+"/doctor/patients"),
		chromedp.WaitVisible("#deleteDate", chromedp.ByID),
		chromedp.SetValue("#deleteDate", date, chromedp.ByID),
		chromedp.Evaluate(`document.getElementById("deleteDate").form.requestSubmit()`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: delete appointments for %s: %w", date, err)
	}
	d.logger.Info("browser: appointments deleted", "date", date)
	return nil
}

// WatchAlerts loads a page and waits for its success and danger banners
// to be removed by the page's auto-dismiss timers. Returns once no
// banner remains or the context ends.
func (d *Driver) WatchAlerts(ctx context.Context, path string) error {
	tabCtx, cancel := d.tab(ctx)
	defer cancel()

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(d.baseURL+path),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.WaitNotPresent(".alert-success, .alert-danger", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: watch alerts on %s: %w", path, err)
	}
	d.logger.Info("browser: alerts dismissed", "path", path)
	return nil
}
