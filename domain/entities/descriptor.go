package entities

// StrategyKind identifies one way of locating an element on the page
type StrategyKind string

const (
	StrategyRole        StrategyKind = "role"
	StrategyLabel       StrategyKind = "label"
	StrategyText        StrategyKind = "text"
	StrategyPlaceholder StrategyKind = "placeholder"
	StrategySelector    StrategyKind = "selector"
	StrategyProximity   StrategyKind = "proximity"
	StrategyKeywords    StrategyKind = "keywords"
)

// Matcher is a single location attempt inside a descriptor
type Matcher struct {
	Strategy StrategyKind `json:"strategy"`
	// Role is the accessibility role for the role strategy (button, link, checkbox)
	Role string `json:"role,omitempty"`
	// Value is the name, label, text, or selector the strategy matches on.
	// For the proximity strategy it is the anchor selector.
	Value string `json:"value,omitempty"`
	// Exact requires a full text match instead of a substring match
	Exact bool `json:"exact,omitempty"`
	// Attached waits for DOM attachment only, not visibility
	Attached bool `json:"attached,omitempty"`
	// Relations are selectors walked step by step from the proximity anchor
	Relations []string `json:"relations,omitempty"`
	// Keywords feed the keyword-scan strategy
	Keywords []string `json:"keywords,omitempty"`
}

// Descriptor names a target element as an ordered list of matchers.
// Earlier matchers are preferred; later ones are fallbacks.
type Descriptor struct {
	Name     string    `json:"name"`
	Matchers []Matcher `json:"matchers"`
}
