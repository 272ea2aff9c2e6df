package entities

import "time"

// PurchaseContext carries the configuration of one rehearsal run.
// It is created once at startup and never mutated afterwards.
type PurchaseContext struct {
	BaseURL          string        `json:"base_url"`
	TargetPrice      string        `json:"target_price,omitempty"`      // e.g. "2800" or "NT$2,800"
	TargetQuantity   int           `json:"target_quantity,omitempty"`
	CountdownSeconds int           `json:"countdown_seconds"`
	ActionTimeout    time.Duration `json:"action_timeout"`
	Headless         bool          `json:"headless"`
	AutoSetup        bool          `json:"auto_setup"`
}
