package flow

import (
	"context"
	"strings"
	"time"

	"ticket_rehearsal/application/locator"
)

const maxAdvanceSteps = 20

// advanceLabels are the primary forward controls, tried in priority
// order
var advanceLabels = []string{
	"加入購物車",
	"立即結帳",
	"下一步",
	"下一步驟",
	"我同意",
	"我已閱讀並同意",
	"確認",
	"確定",
	"送出",
	"前往下一步",
	"同意並繼續",
	"我要購票",
}

// commonNextLabels mark generic buttons worth clicking when nothing
// from the primary list matched
var commonNextLabels = []string{
	"下一步",
	"下一步驟",
	"下一頁",
	"我同意",
	"我已閱讀並同意",
	"確認",
	"確定",
	"送出",
	"開始購票",
	"同意並繼續",
}

// successMarkers in the page content mean the flow reached a terminal
// page
var successMarkers = []string{"訂單建立", "購票完成", "已完成", "本次最佳紀錄"}

// advance pushes through the remaining checkout pages generically:
// fill every select, click one forward control, stop on a success
// marker or once an iteration gets nowhere. The step cap bounds the
// loop no matter what the page does.
func (c *Controller) advance(ctx context.Context) bool {
	c.logger.Info("Entering the generic advance loop")
	for step := 0; step < maxAdvanceSteps; step++ {
		if ctx.Err() != nil {
			return false
		}

		c.fillSelects(ctx)

		progressed := c.clickAdvance(ctx)

		if marker := c.successMarker(ctx); marker != "" {
			c.logger.Infof("Reached a terminal page: %s", marker)
			return true
		}

		if !progressed {
			c.logger.Info("No advance control matched, leaving the loop")
			return false
		}
	}
	c.logger.Warn("Advance loop hit its step cap")
	return false
}

// fillSelects picks the first real option in every enabled select so
// required dropdowns do not block the next step. Values "", "0" and
// "-1" are treated as placeholders.
func (c *Controller) fillSelects(ctx context.Context) {
	selects, err := c.page.FindAll(ctx, "select")
	if err != nil {
		return
	}
	for _, sel := range selects {
		if enabled, err := sel.IsEnabled(ctx); err == nil && !enabled {
			continue
		}
		options, err := sel.FindAll(ctx, "option")
		if err != nil {
			continue
		}
		for _, opt := range options {
			enabled, err := opt.IsEnabled(ctx)
			if err != nil || !enabled {
				continue
			}
			value, err := opt.Attribute(ctx, "value")
			if err != nil || value == "" || value == "0" || value == "-1" {
				continue
			}
			if err := sel.SelectValue(ctx, value, c.cfg.ActionTimeout); err == nil {
				break
			}
		}
	}
}

// clickAdvance tries one forward click: the primary labels, then the
// 下一步 link, then any button whose text holds a generic next keyword
func (c *Controller) clickAdvance(ctx context.Context) bool {
	for _, label := range advanceLabels {
		if c.exec.Click(ctx, locator.Button(label), fillTimeout).Succeeded {
			c.logger.Infof("Advanced via %s", label)
			pause(ctx, clickSettle)
			return true
		}
	}

	if c.exec.Click(ctx, locator.Link("下一步"), 500*time.Millisecond).Succeeded {
		c.logger.Info("Advanced via the 下一步 link")
		pause(ctx, selectSettle)
		return true
	}

	buttons, err := c.page.FindAll(ctx, "button")
	if err != nil {
		return false
	}
	for _, btn := range buttons {
		text, err := btn.Text(ctx)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" || !containsAny(text, commonNextLabels) {
			continue
		}
		if err := btn.Click(ctx, 500*time.Millisecond); err != nil {
			continue
		}
		c.logger.Infof("Advanced via the %s button", text)
		pause(ctx, selectSettle)
		return true
	}
	return false
}

// successMarker returns the first terminal marker present in the page
// content, or empty
func (c *Controller) successMarker(ctx context.Context) string {
	content, err := c.page.Content(ctx)
	if err != nil {
		return ""
	}
	for _, marker := range successMarkers {
		if strings.Contains(content, marker) {
			return marker
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
