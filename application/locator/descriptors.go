package locator

import "ticket_rehearsal/domain/entities"

// Button describes a named button: accessibility role first, then an
// exact visible-text fallback for controls without a proper role.
func Button(name string) entities.Descriptor {
	return entities.Descriptor{
		Name: name,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyRole, Role: "button", Value: name},
			{Strategy: entities.StrategyText, Value: name, Exact: true},
		},
	}
}

// Link describes a named link
func Link(name string) entities.Descriptor {
	return entities.Descriptor{
		Name: name,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyRole, Role: "link", Value: name},
		},
	}
}

// Checkbox describes the first checkbox on the page. It waits for
// attachment only, since consent boxes are often styled and hidden.
func Checkbox() entities.Descriptor {
	return entities.Descriptor{
		Name: "checkbox",
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyRole, Role: "checkbox", Attached: true},
		},
	}
}

// Labeled describes a form control by its label text, substring matched
func Labeled(label string) entities.Descriptor {
	return entities.Descriptor{
		Name: label,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyLabel, Value: label},
		},
	}
}

// Text describes an element by its visible text
func Text(text string, exact bool) entities.Descriptor {
	return entities.Descriptor{
		Name: text,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyText, Value: text, Exact: exact},
		},
	}
}

// Selector describes an element by a raw CSS or xpath selector
func Selector(name, selector string) entities.Descriptor {
	return entities.Descriptor{
		Name: name,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategySelector, Value: selector},
		},
	}
}

// Near describes an element reached from an anchor through relation
// selectors walked in order
func Near(name, anchor string, relations ...string) entities.Descriptor {
	return entities.Descriptor{
		Name: name,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyProximity, Value: anchor, Relations: relations},
		},
	}
}

// Scan describes a control found by scanning buttons, links, and inputs
// for any of the keywords
func Scan(name string, keywords ...string) entities.Descriptor {
	return entities.Descriptor{
		Name: name,
		Matchers: []entities.Matcher{
			{Strategy: entities.StrategyKeywords, Keywords: keywords},
		},
	}
}
