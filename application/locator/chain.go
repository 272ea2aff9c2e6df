package locator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

// Per-strategy attempts stay short so one failing strategy cannot stall
// the whole chain.
const maxAttemptTimeout = 1200 * time.Millisecond

// Strategy is one way of turning a matcher into a live element
type Strategy interface {
	// Locate attempts the matcher and reports whether an element was found.
	// It never returns an error: a miss is an expected outcome.
	Locate(ctx context.Context, page interfaces.Page, m entities.Matcher, timeout time.Duration) (interfaces.Element, bool)
}

// Chain resolves descriptors against a page by trying each matcher's
// strategy in order until one finds a visible element
type Chain struct {
	page       interfaces.Page
	strategies map[entities.StrategyKind]Strategy
	logger     *logrus.Logger
}

// NewChain - creates a chain with the full strategy set registered
func NewChain(page interfaces.Page, logger *logrus.Logger) *Chain {
	return &Chain{
		page: page,
		strategies: map[entities.StrategyKind]Strategy{
			entities.StrategyRole:        roleStrategy{},
			entities.StrategyLabel:       labelStrategy{},
			entities.StrategyText:        textStrategy{},
			entities.StrategyPlaceholder: placeholderStrategy{},
			entities.StrategySelector:    selectorStrategy{},
			entities.StrategyProximity:   proximityStrategy{},
			entities.StrategyKeywords:    keywordStrategy{},
		},
		logger: logger,
	}
}

// Resolve - tries the descriptor's matchers in order and returns the
// first element found. The second return value is false when every
// matcher missed; that is a normal outcome, not an error.
func (c *Chain) Resolve(ctx context.Context, desc entities.Descriptor, timeout time.Duration) (interfaces.Element, bool) {
	attempt := clampTimeout(timeout)
	for _, m := range desc.Matchers {
		if ctx.Err() != nil {
			return nil, false
		}
		strategy, ok := c.strategies[m.Strategy]
		if !ok {
			c.logger.Warnf("no strategy registered for %q", m.Strategy)
			continue
		}
		if el, found := strategy.Locate(ctx, c.page, m, attempt); found {
			c.logger.Debugf("resolved %q via %s strategy", desc.Name, m.Strategy)
			return el, true
		}
	}
	c.logger.Debugf("element %q not found after %d strategies", desc.Name, len(desc.Matchers))
	return nil, false
}

func clampTimeout(d time.Duration) time.Duration {
	if d <= 0 || d > maxAttemptTimeout {
		return maxAttemptTimeout
	}
	return d
}
