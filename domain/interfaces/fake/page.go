// Package fake provides in-memory Page and Element implementations for
// unit tests. Tests register elements under the queries production code
// is expected to issue; unregistered queries resolve to absent elements
// that fail every wait, mirroring how a real driver locator behaves.
package fake

import (
	"context"
	"errors"
	"strings"

	"ticket_rehearsal/domain/interfaces"
)

type bindingKind string

const (
	bindRole        bindingKind = "role"
	bindLabel       bindingKind = "label"
	bindText        bindingKind = "text"
	bindPlaceholder bindingKind = "placeholder"
	bindSelector    bindingKind = "selector"
)

type binding struct {
	kind  bindingKind
	role  string
	value string
	el    *Element
}

// Page is an in-memory interfaces.Page
type Page struct {
	bindings []binding
	lists    map[string][]*Element

	CurrentURL string
	HTML       string
	PNG        []byte

	Navigations     []string
	ScreenshotCalls int
	EvalScripts     []string
	EvalResult      interface{}

	NavigateErr error
	ContentErr  error
	ShotErr     error
}

// NewPage creates an empty fake page
func NewPage() *Page {
	return &Page{lists: make(map[string][]*Element)}
}

// AddRole registers an element under an accessibility role and name
func (p *Page) AddRole(role, name string, el *Element) {
	p.bindings = append(p.bindings, binding{kind: bindRole, role: role, value: name, el: el})
}

// AddLabel registers an element under its full label text
func (p *Page) AddLabel(label string, el *Element) {
	p.bindings = append(p.bindings, binding{kind: bindLabel, value: label, el: el})
}

// AddText registers an element under its visible text
func (p *Page) AddText(text string, el *Element) {
	p.bindings = append(p.bindings, binding{kind: bindText, value: text, el: el})
}

// AddPlaceholder registers an input under its placeholder text
func (p *Page) AddPlaceholder(text string, el *Element) {
	p.bindings = append(p.bindings, binding{kind: bindPlaceholder, value: text, el: el})
}

// AddSelector registers an element under the exact selector string
func (p *Page) AddSelector(selector string, el *Element) {
	p.bindings = append(p.bindings, binding{kind: bindSelector, value: selector, el: el})
}

// AddList registers the element set FindAll returns for a selector
func (p *Page) AddList(selector string, els ...*Element) {
	p.lists[selector] = els
}

// Navigate - records the navigation and moves the fake URL
func (p *Page) Navigate(ctx context.Context, url string) error {
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.Navigations = append(p.Navigations, url)
	p.CurrentURL = url
	return nil
}

// URL - returns the fake current URL
func (p *Page) URL() string {
	return p.CurrentURL
}

// Content - returns the registered page markup
func (p *Page) Content(ctx context.Context) (string, error) {
	if p.ContentErr != nil {
		return "", p.ContentErr
	}
	return p.HTML, nil
}

// Screenshot - returns the registered full-page PNG
func (p *Page) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	p.ScreenshotCalls++
	if p.ShotErr != nil {
		return nil, p.ShotErr
	}
	if p.PNG == nil {
		return nil, errors.New("no page screenshot registered")
	}
	return p.PNG, nil
}

// Evaluate - records the script and returns the canned result
func (p *Page) Evaluate(ctx context.Context, script string) (interface{}, error) {
	p.EvalScripts = append(p.EvalScripts, script)
	return p.EvalResult, nil
}

// FindByRole - returns the first element registered under the role whose
// name contains the query, case-insensitively
func (p *Page) FindByRole(role string, name string) interfaces.Element {
	for _, b := range p.bindings {
		if b.kind != bindRole || b.role != role {
			continue
		}
		if name == "" || containsFold(b.value, name) {
			return b.el
		}
	}
	return Absent()
}

// FindByLabel - substring match against registered label text
func (p *Page) FindByLabel(text string, exact bool) interfaces.Element {
	return p.lookup(bindLabel, text, exact)
}

// FindByText - substring or exact match against registered element text
func (p *Page) FindByText(text string, exact bool) interfaces.Element {
	return p.lookup(bindText, text, exact)
}

// FindByPlaceholder - substring match against registered placeholders
func (p *Page) FindByPlaceholder(text string) interfaces.Element {
	return p.lookup(bindPlaceholder, text, false)
}

// FindBySelector - exact match against the registered selector string
func (p *Page) FindBySelector(selector string) interfaces.Element {
	for _, b := range p.bindings {
		if b.kind == bindSelector && b.value == selector {
			return b.el
		}
	}
	return Absent()
}

// FindAll - returns the element list registered for the selector
func (p *Page) FindAll(ctx context.Context, selector string) ([]interfaces.Element, error) {
	els := p.lists[selector]
	out := make([]interfaces.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out, nil
}

func (p *Page) lookup(kind bindingKind, query string, exact bool) interfaces.Element {
	for _, b := range p.bindings {
		if b.kind != kind {
			continue
		}
		if exact {
			if b.value == query {
				return b.el
			}
		} else if containsFold(b.value, query) {
			return b.el
		}
	}
	return Absent()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var _ interfaces.Page = (*Page)(nil)
