package fake

import (
	"context"

	"ticket_rehearsal/domain/interfaces"
)

// Operator answers terminal prompts with scripted values.
type Operator struct {
	ReadyCalls int
	ReadyErr   error

	CaptchaCalls int
	CaptchaText  string
	CaptchaErr   error
}

func (o *Operator) AwaitReady(ctx context.Context) error {
	o.ReadyCalls++
	return o.ReadyErr
}

func (o *Operator) AskCaptcha(ctx context.Context) (string, error) {
	o.CaptchaCalls++
	if o.CaptchaErr != nil {
		return "", o.CaptchaErr
	}
	return o.CaptchaText, nil
}

var _ interfaces.Operator = (*Operator)(nil)
