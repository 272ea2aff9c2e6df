package locator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

type roleStrategy struct{}

func (roleStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	return await(ctx, page.FindByRole(m.Role, m.Value), m, timeout)
}

type labelStrategy struct{}

func (labelStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	return await(ctx, page.FindByLabel(m.Value, m.Exact), m, timeout)
}

type textStrategy struct{}

func (textStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	return await(ctx, page.FindByText(m.Value, m.Exact), m, timeout)
}

type placeholderStrategy struct{}

func (placeholderStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	return await(ctx, page.FindByPlaceholder(m.Value), m, timeout)
}

type selectorStrategy struct{}

func (selectorStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	return await(ctx, page.FindBySelector(m.Value), m, timeout)
}

// proximityStrategy anchors on one element and walks relation selectors
// from it, e.g. from a price header to the first seat inside the same
// category block, or from a consent text to the checkbox preceding it.
type proximityStrategy struct{}

func (proximityStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	anchor := page.FindBySelector(m.Value)
	if err := anchor.WaitVisible(ctx, timeout); err != nil {
		return nil, false
	}
	_ = anchor.ScrollIntoView(ctx)
	el := anchor
	for _, relation := range m.Relations {
		el = el.FindBySelector(relation)
	}
	return await(ctx, el, m, timeout)
}

// keywordStrategy scans every button, link, and input for any keyword
// in its normalized text. Last resort before giving up on a control.
type keywordStrategy struct{}

func (keywordStrategy) Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	return await(ctx, page.FindBySelector(KeywordExpression(m.Keywords)), m, timeout)
}

// KeywordExpression builds the xpath the keyword strategy scans with
func KeywordExpression(keywords []string) string {
	predicates := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		predicates = append(predicates, fmt.Sprintf("contains(normalize-space(.),'%s')", keyword))
	}
	return "xpath=//*[self::button or self::a or self::input][" + strings.Join(predicates, " or ") + "]"
}

func await(ctx context.Context, el interfaces.Element, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool) {
	var err error
	if m.Attached {
		err = el.WaitAttached(ctx, timeout)
	} else {
		err = el.WaitVisible(ctx, timeout)
	}
	if err != nil {
		return nil, false
	}
	return el, true
}
