package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticket_rehearsal/domain/interfaces/fake"
)

func TestAdvanceStopsWhenNothingMatches(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	controller, _, _ := newTestController(page, testConfig())

	assert.False(t, controller.advance(context.Background()))
}

func TestAdvanceReturnsOnSuccessMarker(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	page.HTML = "<main>訂單建立成功，請記下您的序號。</main>"
	controller, _, _ := newTestController(page, testConfig())

	assert.True(t, controller.advance(context.Background()))
}

func TestAdvanceHitsStepCap(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	next := fake.NewElement()
	page.AddRole("button", "下一步", next)
	controller, _, _ := newTestController(page, testConfig())

	assert.False(t, controller.advance(context.Background()))
	assert.Equal(t, maxAdvanceSteps, next.Clicks)
}

func TestAdvanceStopsOnMarkerAfterClicking(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	page.HTML = "<h1>購票完成</h1>"
	next := fake.NewElement()
	page.AddRole("button", "下一步", next)
	controller, _, _ := newTestController(page, testConfig())

	assert.True(t, controller.advance(context.Background()))
	assert.Equal(t, 1, next.Clicks)
}

func TestAdvanceUsesLinkFallback(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	page.HTML = "已完成"
	link := fake.NewElement()
	page.AddRole("link", "下一步", link)
	controller, _, _ := newTestController(page, testConfig())

	assert.True(t, controller.advance(context.Background()))
	assert.Equal(t, 1, link.Clicks)
}

func TestAdvanceScansButtonTexts(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	page.HTML = "本次最佳紀錄 00:42"
	back := fake.NewText("回上頁")
	next := fake.NewText("前往下一頁")
	page.AddList("button", back, next)
	controller, _, _ := newTestController(page, testConfig())

	assert.True(t, controller.advance(context.Background()))
	assert.Zero(t, back.Clicks)
	assert.Equal(t, 1, next.Clicks)
}

func TestFillSelectsSkipsPlaceholderValues(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()
	sel := fake.NewElement()
	sel.Lists = map[string][]*fake.Element{"option": {
		option("", ""),
		option("0", "請選擇"),
		option("-1", "減少"),
		option("3", "3"),
	}}
	page.AddList("select", sel)
	controller, _, _ := newTestController(page, testConfig())

	controller.fillSelects(context.Background())

	assert.Equal(t, []string{"3"}, sel.SelectedValues)
}

func TestFillSelectsSkipsDisabledOptionsAndSelects(t *testing.T) {
	zeroDelays(t)
	page := fake.NewPage()

	frozen := fake.NewElement()
	frozen.Enabled = false
	frozen.Lists = map[string][]*fake.Element{"option": {option("5", "5")}}

	open := fake.NewElement()
	blocked := option("1", "1")
	blocked.Enabled = false
	open.Lists = map[string][]*fake.Element{"option": {blocked, option("2", "2")}}

	page.AddList("select", frozen, open)
	controller, _, _ := newTestController(page, testConfig())

	controller.fillSelects(context.Background())

	assert.Empty(t, frozen.SelectedValues)
	assert.Equal(t, []string{"2"}, open.SelectedValues)
}
