// catch.go wraps callables so failures are captured on every exit path
// before they propagate.

package gatey

import (
	"errors"
	"fmt"
)

// CatchOption configures a Catch call.
type CatchOption func(*catchConfig)

type catchConfig struct {
	suppress bool
	ignored  []error
}

// WithSuppress makes Catch swallow the failure after capturing it:
// errors are replaced by a nil return and panics are converted to an
// error instead of re-panicking. Use wisely, the wrapped failure will
// not propagate.
func WithSuppress() CatchOption {
	return func(c *catchConfig) { c.suppress = true }
}

// WithIgnored lists errors (matched via errors.Is) that propagate
// without being captured.
func WithIgnored(errs ...error) CatchOption {
	return func(c *catchConfig) { c.ignored = errs }
}

// Catch runs fn and captures any failure before letting it out. A
// returned error is captured then returned unchanged; a panic is
// captured then re-panicked, preserving the original panic value. The
// capture is guaranteed to happen before the failure leaves Catch.
func (c *Client) Catch(fn func() error, opts ...CatchOption) (err error) {
	cfg := catchConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		info := buildPanicInfo(recovered, 2, c.cfg.codeContext)
		c.capture(Event{Message: info.Description, Exception: info}, eventConfig{level: LevelCritical})
		if cfg.suppress {
			err = fmt.Errorf("gatey: recovered panic: %s", info.Description)
			return
		}
		panic(recovered)
	}()

	err = fn()
	if err == nil {
		return nil
	}
	for _, ignored := range cfg.ignored {
		if errors.Is(err, ignored) {
			return err
		}
	}
	info := buildExceptionInfo(err, 1, c.cfg.codeContext)
	c.capture(Event{Message: info.Description, Exception: info}, eventConfig{level: LevelError})
	if cfg.suppress {
		return nil
	}
	return err
}
