package executor

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ticket_rehearsal/application/locator"
	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

// StepResult reports one best-effort page action. Element holds the
// resolved handle whenever resolution succeeded, even if the action
// itself failed, so callers can keep working with it.
type StepResult struct {
	Succeeded bool
	Element   interfaces.Element
}

// Executor performs page actions without ever surfacing an error.
// Anything that goes wrong, from a missing element to a failed click,
// comes back as a false StepResult; the purchase flow is built on
// trying alternatives, not on handling exceptions.
type Executor struct {
	chain  *locator.Chain
	logger *logrus.Logger
}

// New - creates an executor on top of a locator chain
func New(chain *locator.Chain, logger *logrus.Logger) *Executor {
	return &Executor{chain: chain, logger: logger}
}

// Click - resolves the descriptor, scrolls to the element, and clicks it
func (e *Executor) Click(ctx context.Context, desc entities.Descriptor, timeout time.Duration) StepResult {
	el, ok := e.chain.Resolve(ctx, desc, timeout)
	if !ok {
		return StepResult{}
	}
	e.scroll(ctx, el, desc.Name)
	if err := el.Click(ctx, timeout); err != nil {
		e.logger.Warnf("click %q failed: %v", desc.Name, err)
		return StepResult{Element: el}
	}
	return StepResult{Succeeded: true, Element: el}
}

// Fill - resolves the descriptor and replaces the element's value
func (e *Executor) Fill(ctx context.Context, desc entities.Descriptor, text string, timeout time.Duration) StepResult {
	el, ok := e.chain.Resolve(ctx, desc, timeout)
	if !ok {
		return StepResult{}
	}
	e.scroll(ctx, el, desc.Name)
	if err := el.Fill(ctx, text, timeout); err != nil {
		e.logger.Warnf("fill %q failed: %v", desc.Name, err)
		return StepResult{Element: el}
	}
	return StepResult{Succeeded: true, Element: el}
}

// Check - resolves the descriptor and ticks it unless already ticked
func (e *Executor) Check(ctx context.Context, desc entities.Descriptor, timeout time.Duration) StepResult {
	el, ok := e.chain.Resolve(ctx, desc, timeout)
	if !ok {
		return StepResult{}
	}
	if checked, err := el.IsChecked(ctx); err == nil && checked {
		return StepResult{Succeeded: true, Element: el}
	}
	e.scroll(ctx, el, desc.Name)
	if err := el.Check(ctx, timeout); err != nil {
		e.logger.Warnf("check %q failed: %v", desc.Name, err)
		return StepResult{Element: el}
	}
	return StepResult{Succeeded: true, Element: el}
}

// SelectOption - resolves a select control and picks the target option,
// matching option values before display texts
func (e *Executor) SelectOption(ctx context.Context, desc entities.Descriptor, target string, timeout time.Duration) StepResult {
	el, ok := e.chain.Resolve(ctx, desc, timeout)
	if !ok {
		return StepResult{}
	}
	if !e.SelectOnElement(ctx, el, target, timeout) {
		return StepResult{Element: el}
	}
	return StepResult{Succeeded: true, Element: el}
}

// SelectOnElement - applies the option matching rule to a select handle
// the caller already holds. The target is compared against every option
// value first and only then against display texts, so a target that is
// both a value and a text is always selected by value.
func (e *Executor) SelectOnElement(ctx context.Context, el interfaces.Element, target string, timeout time.Duration) bool {
	options, err := el.FindAll(ctx, "option")
	if err != nil || len(options) == 0 {
		return false
	}

	values := make([]string, 0, len(options))
	texts := make([]string, 0, len(options))
	for _, opt := range options {
		value, _ := opt.Attribute(ctx, "value")
		values = append(values, value)
		text, _ := opt.Text(ctx)
		texts = append(texts, strings.TrimSpace(text))
	}

	for _, value := range values {
		if value == target {
			if err := el.SelectValue(ctx, target, timeout); err != nil {
				e.logger.Warnf("select value %q failed: %v", target, err)
				return false
			}
			e.logger.Debugf("selected option by value %q", target)
			return true
		}
	}
	for _, text := range texts {
		if text == target {
			if err := el.SelectLabel(ctx, text, timeout); err != nil {
				e.logger.Warnf("select label %q failed: %v", target, err)
				return false
			}
			e.logger.Debugf("selected option by label %q", target)
			return true
		}
	}
	return false
}

func (e *Executor) scroll(ctx context.Context, el interfaces.Element, name string) {
	if err := el.ScrollIntoView(ctx); err != nil {
		e.logger.Debugf("scroll to %q failed: %v", name, err)
	}
}
