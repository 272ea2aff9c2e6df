package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"ticket_rehearsal/domain/interfaces"
)

// Options control the chromium launch
type Options struct {
	Headless       bool
	SlowMo         time.Duration
	DefaultTimeout time.Duration
}

// Controller owns the playwright driver, the browser, and the single
// page a rehearsal run drives
type Controller struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger
}

// Launch - starts the playwright driver and opens one chromium page
func Launch(opts Options, logger *logrus.Logger) (*Controller, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if opts.DefaultTimeout > 0 {
		page.SetDefaultTimeout(float64(opts.DefaultTimeout.Milliseconds()))
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	logger.Infof("Chromium ready (headless=%v)", opts.Headless)

	return &Controller{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		logger:  logger,
	}, nil
}

// Page - returns the driven page behind the flow-facing interface
func (c *Controller) Page() interfaces.Page {
	return &pwPage{page: c.page}
}

// Close - tears down the context, the browser, and the driver.
// Targets that already closed themselves are not an error.
func (c *Controller) Close() error {
	var closeErr error

	if c.context != nil {
		if err := c.context.Close(); err != nil && !closedAlready(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		c.context = nil
	}

	if c.browser != nil {
		if err := c.browser.Close(); err != nil && !closedAlready(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to close browser: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to close browser: %w", err)
			}
		}
		c.browser = nil
	}

	if c.pw != nil {
		if err := c.pw.Stop(); err != nil && !closedAlready(err) {
			if closeErr != nil {
				closeErr = fmt.Errorf("%v; failed to stop playwright: %w", closeErr, err)
			} else {
				closeErr = fmt.Errorf("failed to stop playwright: %w", err)
			}
		}
		c.pw = nil
	}

	return closeErr
}

// closedAlready - reports whether an error just means the target is gone
func closedAlready(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "closed") || strings.Contains(msg, "target closed")
}
