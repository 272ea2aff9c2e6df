package fake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket_rehearsal/domain/entities"
	"ticket_rehearsal/domain/interfaces"
)

var errAbsent = errors.New("element not found")

// Element is an in-memory interfaces.Element. The zero value is absent;
// NewElement returns a visible, enabled element.
type Element struct {
	Present  bool
	Visible  bool
	Attached bool
	Enabled  bool
	Ticked   bool
	Label    string
	Value    string
	Attrs    map[string]string
	Box      *entities.Box
	PNG      []byte

	Children map[string]*Element
	Lists    map[string][]*Element

	ClickErr  error
	FillErr   error
	PressErr  error
	CheckErr  error
	SelectErr error
	ShotErr   error

	Clicks         int
	FilledValues   []string
	PressedKeys    []string
	CheckCalls     int
	ScrollCalls    int
	WaitTimeouts   []time.Duration
	SelectedValues []string
	SelectedLabels []string
	EvalScripts    []string
}

// NewElement creates a present, visible, enabled element
func NewElement() *Element {
	return &Element{Present: true, Visible: true, Attached: true, Enabled: true}
}

// NewText creates a visible element with the given text
func NewText(text string) *Element {
	el := NewElement()
	el.Label = text
	return el
}

// Absent creates an element that fails every wait and action
func Absent() *Element {
	return &Element{}
}

// WaitVisible - records the timeout and succeeds only for visible elements
func (e *Element) WaitVisible(ctx context.Context, timeout time.Duration) error {
	e.WaitTimeouts = append(e.WaitTimeouts, timeout)
	if !e.Present || !e.Visible {
		return errAbsent
	}
	return nil
}

// WaitAttached - records the timeout and succeeds for attached elements
func (e *Element) WaitAttached(ctx context.Context, timeout time.Duration) error {
	e.WaitTimeouts = append(e.WaitTimeouts, timeout)
	if !e.Present || !e.Attached {
		return errAbsent
	}
	return nil
}

// Click - counts the click, failing for absent or hidden elements
func (e *Element) Click(ctx context.Context, timeout time.Duration) error {
	if !e.Present || !e.Visible {
		return errAbsent
	}
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

// Fill - records the filled text
func (e *Element) Fill(ctx context.Context, text string, timeout time.Duration) error {
	if !e.Present || !e.Visible {
		return errAbsent
	}
	if e.FillErr != nil {
		return e.FillErr
	}
	e.FilledValues = append(e.FilledValues, text)
	e.Value = text
	return nil
}

// Press - records the key
func (e *Element) Press(ctx context.Context, key string, timeout time.Duration) error {
	if !e.Present {
		return errAbsent
	}
	if e.PressErr != nil {
		return e.PressErr
	}
	e.PressedKeys = append(e.PressedKeys, key)
	return nil
}

// Check - ticks the element
func (e *Element) Check(ctx context.Context, timeout time.Duration) error {
	if !e.Present || !e.Attached {
		return errAbsent
	}
	if e.CheckErr != nil {
		return e.CheckErr
	}
	e.CheckCalls++
	e.Ticked = true
	return nil
}

// IsChecked - reports the ticked state
func (e *Element) IsChecked(ctx context.Context) (bool, error) {
	if !e.Present {
		return false, errAbsent
	}
	return e.Ticked, nil
}

// IsEnabled - reports the enabled state
func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	if !e.Present {
		return false, errAbsent
	}
	return e.Enabled, nil
}

// ScrollIntoView - counts the scroll
func (e *Element) ScrollIntoView(ctx context.Context) error {
	if !e.Present {
		return errAbsent
	}
	e.ScrollCalls++
	return nil
}

// Text - returns the element text
func (e *Element) Text(ctx context.Context) (string, error) {
	if !e.Present {
		return "", errAbsent
	}
	return e.Label, nil
}

// Attribute - returns a registered attribute, empty when missing
func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if !e.Present {
		return "", errAbsent
	}
	return e.Attrs[name], nil
}

// BoundingBox - returns the registered box, nil when not rendered
func (e *Element) BoundingBox(ctx context.Context) (*entities.Box, error) {
	if !e.Present {
		return nil, nil
	}
	return e.Box, nil
}

// Screenshot - returns the registered element PNG
func (e *Element) Screenshot(ctx context.Context) ([]byte, error) {
	if !e.Present {
		return nil, errAbsent
	}
	if e.ShotErr != nil {
		return nil, e.ShotErr
	}
	if e.PNG == nil {
		return nil, errors.New("no element screenshot registered")
	}
	return e.PNG, nil
}

// SelectValue - selects an option by value; when an option list is
// registered the value must exist in it, like a real select
func (e *Element) SelectValue(ctx context.Context, value string, timeout time.Duration) error {
	if !e.Present {
		return errAbsent
	}
	if e.SelectErr != nil {
		return e.SelectErr
	}
	if opts, ok := e.Lists["option"]; ok {
		found := false
		for _, opt := range opts {
			if opt.Attrs["value"] == value {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no option with value %q", value)
		}
	}
	e.SelectedValues = append(e.SelectedValues, value)
	return nil
}

// SelectLabel - selects an option by display text
func (e *Element) SelectLabel(ctx context.Context, label string, timeout time.Duration) error {
	if !e.Present {
		return errAbsent
	}
	if e.SelectErr != nil {
		return e.SelectErr
	}
	if opts, ok := e.Lists["option"]; ok {
		found := false
		for _, opt := range opts {
			if opt.Label == label {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("no option with label %q", label)
		}
	}
	e.SelectedLabels = append(e.SelectedLabels, label)
	return nil
}

// FindBySelector - returns the registered child or an absent element
func (e *Element) FindBySelector(selector string) interfaces.Element {
	if child, ok := e.Children[selector]; ok {
		return child
	}
	return Absent()
}

// FindAll - returns the child list registered for the selector
func (e *Element) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	els := e.Lists[selector]
	out := make([]interfaces.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

// Evaluate - records the script
func (e *Element) Evaluate(ctx context.Context, script string) (interface{}, error) {
	if !e.Present {
		return nil, errAbsent
	}
	e.EvalScripts = append(e.EvalScripts, script)
	return nil, nil
}

var _ interfaces.Element = (*Element)(nil)
