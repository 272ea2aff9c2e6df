package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ticket_rehearsal/application/captcha"
	"ticket_rehearsal/application/executor"
	"ticket_rehearsal/application/locator"
	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

const (
	buyTimeout  = 1200 * time.Millisecond
	fillTimeout = 800 * time.Millisecond
)

// Settle delays between UI actions. Variables so flow tests can zero
// them.
var (
	clickSettle  = 400 * time.Millisecond
	selectSettle = 300 * time.Millisecond
	scrollSettle = 200 * time.Millisecond
	startGrace   = 1200 * time.Millisecond
	reviewWindow = 10 * time.Minute
)

// Controller walks the practice site through the whole purchase
// rehearsal: overlays, countdown, buy clicks, seat and quantity,
// captcha, confirmation, and the generic advance loop.
type Controller struct {
	page     interfaces.Page
	exec     *executor.Executor
	captcha  *captcha.Pipeline
	operator interfaces.Operator
	sink     interfaces.DebugSink
	cfg      entities.PurchaseContext
	logger   *logrus.Logger
}

// NewController - wires the purchase flow over a single page
func NewController(page interfaces.Page, pipeline *captcha.Pipeline, operator interfaces.Operator, sink interfaces.DebugSink, cfg entities.PurchaseContext, logger *logrus.Logger) *Controller {
	return &Controller{
		page:     page,
		exec:     executor.New(locator.NewChain(page, logger), logger),
		captcha:  pipeline,
		operator: operator,
		sink:     sink,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run - drives the rehearsal end to end. Every phase is best effort;
// only the entry navigation, the operator gates, and cancellation
// abort the run.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Infof("Opening %s", c.cfg.BaseURL)
	if err := c.page.Navigate(ctx, c.cfg.BaseURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", c.cfg.BaseURL, err)
	}

	c.dismissOverlays(ctx)

	if err := c.prepare(ctx); err != nil {
		return err
	}

	c.clickBuy(ctx)
	c.openProgress(ctx)

	if c.cfg.TargetPrice != "" && !c.selectPrice(ctx) {
		c.logger.Warn("No seat matched the target price")
	}
	if c.cfg.TargetQuantity > 0 && !c.selectQuantity(ctx) {
		c.logger.Warn("No selector offered the target quantity")
	}

	if err := c.submitWithCaptcha(ctx); err != nil {
		return err
	}

	c.advance(ctx)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run canceled: %w", err)
	}
	c.holdOpen(ctx)
	return nil
}

// dismissOverlays clears the ad notice and disclaimer dialogs when the
// landing page shows them
func (c *Controller) dismissOverlays(ctx context.Context) {
	c.logger.Info("Dismissing overlays if present")
	c.exec.Click(ctx, locator.Button("我已閱讀並了解"), time.Second)
	c.exec.Click(ctx, locator.Button("確認"), time.Second)
	c.exec.Click(ctx, locator.Button("重新整理"), 500*time.Millisecond)
}

// prepare gets the countdown running, either through the operator
// doing the manual steps or by filling the setup controls directly
func (c *Controller) prepare(ctx context.Context) error {
	if c.cfg.AutoSetup {
		c.autoSetup(ctx)
		return ctx.Err()
	}

	if err := c.operator.AwaitReady(ctx); err != nil {
		return fmt.Errorf("setup gate: %w", err)
	}
	c.logger.Infof("Waiting %d seconds for the countdown", c.cfg.CountdownSeconds)
	pause(ctx, time.Duration(c.cfg.CountdownSeconds)*time.Second)
	return ctx.Err()
}

// autoSetup fills the countdown seconds and starts the countdown
// without operator help
func (c *Controller) autoSetup(ctx context.Context) {
	c.logger.Info("Attempting the countdown setup automatically")

	seconds := entities.Descriptor{
		Name: "countdown seconds",
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategySelector, Value: "input[type='number']"},
			{Strategy: entities.StrategySelector, Value: "input:not([type])"},
			{Strategy: entities.StrategyPlaceholder, Value: "秒"},
		},
	}
	if !c.exec.Fill(ctx, seconds, strconv.Itoa(c.cfg.CountdownSeconds), time.Second).Succeeded {
		c.logger.Warn("Seconds input not found, keeping the page default")
	}

	if c.exec.Click(ctx, locator.Button("開始倒數計時"), time.Second).Succeeded {
		c.logger.Infof("Countdown started, waiting %d seconds", c.cfg.CountdownSeconds)
		wait := time.Duration(c.cfg.CountdownSeconds-1) * time.Second
		if wait > 0 {
			pause(ctx, wait)
		}
		pause(ctx, startGrace)
	}
}

// clickBuy fires the purchase entry twice in quick succession, some
// variants need the second click to confirm
func (c *Controller) clickBuy(ctx context.Context) {
	c.logger.Info("Clicking the buy button twice")
	for i := 0; i < 2; i++ {
		if !c.exec.Click(ctx, locator.Button("立即購票"), buyTimeout).Succeeded {
			c.exec.Click(ctx, locator.Button("立即訂購"), buyTimeout)
		}
		pause(ctx, clickSettle)
	}
}

// openProgress moves to the purchase practice page when the buy click
// did not already land there
func (c *Controller) openProgress(ctx context.Context) {
	if strings.Contains(c.page.URL(), "progress") {
		return
	}
	target := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/progress"
	c.logger.Infof("Navigating to %s", target)
	if err := c.page.Navigate(ctx, target); err != nil {
		c.logger.Warnf("Failed to open the progress page: %v", err)
	}
}

// priceDescriptor matches a bookable seat for a price text, from the
// category layout down to a bare digits match
func priceDescriptor(price string) entities.Descriptor {
	matchers := []entities.Matcher{
		{
			Strategy:  entities.StrategyProximity,
			Value:     fmt.Sprintf("h4:has-text(%q)", price),
			Relations: []string{"xpath=ancestor::*[@class='category'][1]", ".seat-item"},
		},
		{
			Strategy:  entities.StrategyProximity,
			Value:     "text=" + price,
			Relations: []string{"xpath=ancestor::*[self::div or self::li][1]", ".seat-item"},
		},
		{Strategy: entities.StrategyText, Value: price},
	}
	if digits := normalizeDigits(price); digits != "" {
		matchers = append(matchers, entities.Matcher{
			Strategy: entities.StrategySelector,
			Value:    fmt.Sprintf(":text-matches('.*%s.*')", digits),
		})
	}
	return entities.Descriptor{Name: "seat priced " + price, Matchers: matchers}
}

// selectPrice clicks the first seat item of the category matching the
// target price
func (c *Controller) selectPrice(ctx context.Context) bool {
	c.logger.Infof("Selecting a seat priced %s", c.cfg.TargetPrice)
	res := c.exec.Click(ctx, priceDescriptor(c.cfg.TargetPrice), c.cfg.ActionTimeout)
	pause(ctx, selectSettle)
	return res.Succeeded
}

// selectQuantity walks every select on the page until one accepts the
// target quantity
func (c *Controller) selectQuantity(ctx context.Context) bool {
	target := strconv.Itoa(c.cfg.TargetQuantity)
	c.logger.Infof("Selecting quantity %s", target)
	selects, err := c.page.FindAll(ctx, "select")
	if err != nil {
		c.logger.Warnf("Listing selects failed: %v", err)
		return false
	}
	for _, sel := range selects {
		if c.exec.SelectOnElement(ctx, sel, target, c.cfg.ActionTimeout) {
			return true
		}
	}
	return false
}

// submitWithCaptcha fills in the captcha, re-ticks the consent box,
// and pushes the order through whatever confirmation control the page
// variant shows. One captcha value per page visit.
func (c *Controller) submitWithCaptcha(ctx context.Context) error {
	code := c.captcha.Acquire(ctx, c.page, c.cfg.ActionTimeout)
	if code == "" {
		manual, err := c.operator.AskCaptcha(ctx)
		if err != nil {
			return fmt.Errorf("captcha prompt: %w", err)
		}
		code = strings.TrimSpace(manual)
	}

	var filled executor.StepResult
	if code != "" {
		filled = c.exec.Fill(ctx, captcha.InputDescriptor(), code, fillTimeout)
		if !filled.Succeeded {
			filled = c.exec.Fill(ctx, locator.Selector("first input", "input"), code, fillTimeout)
		}
		if !filled.Succeeded {
			c.logger.Warn("No input accepted the captcha code")
		}
	} else {
		c.logger.Warn("No captcha code available, continuing without one")
	}

	c.agreeTerms(ctx)

	if filled.Succeeded && filled.Element != nil {
		if err := filled.Element.Press(ctx, "Enter", c.cfg.ActionTimeout); err != nil {
			c.logger.Debugf("Enter on the captcha input failed: %v", err)
		} else {
			pause(ctx, clickSettle)
		}
	}

	c.confirm(ctx)
	return ctx.Err()
}

// agreeTerms re-ticks the consent checkbox, some page variants reset
// it on the captcha step
func (c *Controller) agreeTerms(ctx context.Context) {
	if c.exec.Check(ctx, locator.Checkbox(), fillTimeout).Succeeded {
		return
	}
	for _, label := range []string{"我已詳細閱讀且同意", "會員服務條款", "同意"} {
		if c.exec.Check(ctx, locator.Labeled(label), fillTimeout).Succeeded {
			return
		}
	}
	consent := entities.Descriptor{
		Name: "consent checkbox",
		Matchers: []entities.Matcher{{
			Strategy:  entities.StrategyProximity,
			Value:     "text=會員服務條款",
			Relations: []string{"xpath=preceding::input[@type='checkbox'][1]"},
			Attached:  true,
		}},
	}
	c.exec.Check(ctx, consent, fillTimeout)
}

// confirmLabels are tried as buttons first, in order
var confirmLabels = []string{"確認張數", "確認數量", "確認", "確定", "送出", "下一步", "下一步驟"}

// scanKeywords drive the last-resort structural scan for a
// confirmation control
var scanKeywords = []string{"確認張數", "確認", "確定", "送出", "下一步"}

// confirm clicks the confirmation control, trying each fallback tier
// only when the previous one found nothing
func (c *Controller) confirm(ctx context.Context) {
	for _, label := range confirmLabels {
		if c.exec.Click(ctx, locator.Button(label), time.Second).Succeeded {
			c.logger.Infof("Clicked %s", label)
			return
		}
	}

	if c.exec.Click(ctx, locator.Text("確認張數", false), fillTimeout).Succeeded {
		c.logger.Info("Clicked 確認張數 by text")
		return
	}

	if _, err := c.page.Evaluate(ctx, "window.scrollTo(0, document.body.scrollHeight)"); err == nil {
		pause(ctx, scrollSettle)
	}
	if c.exec.Click(ctx, locator.Scan("confirm control", scanKeywords...), buyTimeout).Succeeded {
		c.logger.Info("Clicked a keyword-matched control")
		return
	}

	c.logger.Warn("No confirmation control found, saving a snapshot and submitting the form directly")
	c.sink.CapturePage(ctx, c.page, "step10_confirm_not_found")
	c.submitForm(ctx)
}

// submitForm submits the first form programmatically, the terminal
// fallback when no confirmation control matched
func (c *Controller) submitForm(ctx context.Context) {
	form := c.page.FindBySelector("form")
	if err := form.WaitAttached(ctx, time.Second); err != nil {
		c.logger.Warn("No form found to submit")
		return
	}
	_ = form.ScrollIntoView(ctx)
	submit := form.FindBySelector("button[type='submit'], input[type='submit']")
	if err := submit.Click(ctx, fillTimeout); err == nil {
		c.logger.Info("Clicked the form submit control")
		return
	}
	if _, err := form.Evaluate(ctx, "(f)=>{try{f.requestSubmit?f.requestSubmit():f.submit()}catch(e){}}"); err != nil {
		c.logger.Warnf("Programmatic form submit failed: %v", err)
	} else {
		c.logger.Info("Submitted the form programmatically")
	}
}

// holdOpen keeps a headful browser on screen so the outcome can be
// inspected
func (c *Controller) holdOpen(ctx context.Context) {
	if c.cfg.Headless {
		return
	}
	c.logger.Infof("Keeping the browser open for %s, interrupt to exit early", reviewWindow)
	pause(ctx, reviewWindow)
}

// pause waits out a fixed delay unless the run gets canceled first
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
