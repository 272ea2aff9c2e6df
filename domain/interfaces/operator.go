package interfaces

import "context"

// Operator is the human supervising a rehearsal run
type Operator interface {
	// AwaitReady blocks until the operator signals that the manual page
	// setup is done, or the context is canceled
	AwaitReady(ctx context.Context) error

	// AskCaptcha asks the operator to read the captcha off the screen
	// and type it in
	AskCaptcha(ctx context.Context) (string, error)
}
