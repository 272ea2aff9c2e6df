package browser

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"

	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

// pwPage adapts a playwright page to the flow-facing Page interface.
// Playwright calls do not take a context, so every method checks for
// cancellation before it starts and relies on the action timeout after.
type pwPage struct {
	page playwright.Page
}

var _ interfaces.Page = (*pwPage)(nil)

func (p *pwPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.page.Content()
}

func (p *pwPage) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
	})
}

func (p *pwPage) Evaluate(ctx context.Context, script string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.page.Evaluate(script)
}

func (p *pwPage) FindByRole(role string, name string) interfaces.Element {
	if name == "" {
		return wrap(p.page.GetByRole(playwright.AriaRole(role)))
	}
	return wrap(p.page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{Name: name}))
}

func (p *pwPage) FindByLabel(text string, exact bool) interfaces.Element {
	return wrap(p.page.GetByLabel(text, playwright.PageGetByLabelOptions{Exact: playwright.Bool(exact)}))
}

func (p *pwPage) FindByText(text string, exact bool) interfaces.Element {
	return wrap(p.page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(exact)}))
}

func (p *pwPage) FindByPlaceholder(text string) interfaces.Element {
	return wrap(p.page.GetByPlaceholder(text))
}

func (p *pwPage) FindBySelector(selector string) interfaces.Element {
	return wrap(p.page.Locator(selector))
}

func (p *pwPage) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	els := make([]interfaces.Element, 0, len(all))
	for _, loc := range all {
		els = append(els, &pwElement{locator: loc})
	}
	return els, nil
}

// wrap narrows a locator to its first match, the whole flow works on
// single elements
func wrap(locator playwright.Locator) *pwElement {
	return &pwElement{locator: locator.First()}
}

// pwElement adapts a playwright locator to the Element interface
type pwElement struct {
	locator playwright.Locator
}

var _ interfaces.Element = (*pwElement)(nil)

func (e *pwElement) WaitVisible(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

func (e *pwElement) WaitAttached(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: ms(timeout),
	})
}

func (e *pwElement) Click(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
}

func (e *pwElement) Fill(ctx context.Context, text string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.Fill(text, playwright.LocatorFillOptions{Timeout: ms(timeout)})
}

func (e *pwElement) Press(ctx context.Context, key string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.Press(key, playwright.LocatorPressOptions{Timeout: ms(timeout)})
}

// Check forces the tick, consent boxes on the practice site hide the
// native input behind a styled replacement
func (e *pwElement) Check(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.Check(playwright.LocatorCheckOptions{
		Timeout: ms(timeout),
		Force:   playwright.Bool(true),
	})
}

func (e *pwElement) IsChecked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.locator.IsChecked()
}

func (e *pwElement) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.locator.IsEnabled()
}

func (e *pwElement) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.locator.ScrollIntoViewIfNeeded()
}

func (e *pwElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.locator.InnerText()
}

func (e *pwElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.locator.GetAttribute(name)
}

func (e *pwElement) BoundingBox(ctx context.Context) (*entities.Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rect, err := e.locator.BoundingBox()
	if err != nil || rect == nil {
		return nil, err
	}
	return &entities.Box{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}, nil
}

func (e *pwElement) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.locator.Screenshot()
}

func (e *pwElement) SelectValue(ctx context.Context, value string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)})
	return err
}

func (e *pwElement) SelectLabel(ctx context.Context, label string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.locator.SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{label},
	}, playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)})
	return err
}

func (e *pwElement) FindBySelector(selector string) interfaces.Element {
	return wrap(e.locator.Locator(selector))
}

func (e *pwElement) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := e.locator.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	els := make([]interfaces.Element, 0, len(all))
	for _, loc := range all {
		els = append(els, &pwElement{locator: loc})
	}
	return els, nil
}

func (e *pwElement) Evaluate(ctx context.Context, script string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.locator.Evaluate(script, nil)
}

// ms converts a timeout to playwright milliseconds, nil keeps the page
// default
func ms(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}
