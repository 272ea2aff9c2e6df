package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"ticket_rehearsal/domain/interfaces"
)

// Operator talks to the person supervising the rehearsal through the
// terminal. Reads run in their own goroutine so a canceled run never
// stays stuck on stdin; the pending read itself stays parked there
// until the process exits.
type Operator struct {
	in     *bufio.Reader
	out    io.Writer
	logger *logrus.Logger
}

var _ interfaces.Operator = (*Operator)(nil)

// NewOperator - creates an operator over stdin and stdout
func NewOperator(logger *logrus.Logger) *Operator {
	return &Operator{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		logger: logger,
	}
}

// AwaitReady - walks the operator through the manual setup steps and
// blocks until they press Enter
func (o *Operator) AwaitReady(ctx context.Context) error {
	fmt.Fprintln(o.out, "請在瀏覽器完成步驟 1-4：勾選『我已閱讀並了解』→ 點『確認』→ 輸入秒數 → 點『開始倒數計時』。")
	fmt.Fprint(o.out, "完成後按 Enter 繼續，我會等倒數秒數再自動購票… ")
	_, err := o.readLine(ctx)
	return err
}

// AskCaptcha - asks the operator to read the captcha off the screen
func (o *Operator) AskCaptcha(ctx context.Context) (string, error) {
	fmt.Fprint(o.out, "請輸入頁面上的驗證碼後按 Enter： ")
	line, err := o.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

type readResult struct {
	line string
	err  error
}

func (o *Operator) readLine(ctx context.Context) (string, error) {
	ch := make(chan readResult, 1)
	go func() {
		line, err := o.in.ReadString('\n')
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			if res.err == io.EOF && res.line != "" {
				return res.line, nil
			}
			return "", res.err
		}
		return res.line, nil
	}
}
