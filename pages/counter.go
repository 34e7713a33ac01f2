package pages

import (
	"context"
	"log/slog"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/reactive"
)

// Counter counts ticks and shows its inputs.
type Counter struct {
	rt     *reactive.Runtime
	logger *slog.Logger

	Duration       *reactive.Cell[int]
	Message        *reactive.Cell[string]
	Counter        *reactive.Cell[int]
	DoubleDuration *reactive.Derived[int]

	messageLog *reactive.Effect
	stop       context.CancelFunc
}

// NewCounter binds a counter to duration and message. Both cells may be
// shared with the parent page.
func NewCounter(rt *reactive.Runtime, duration *reactive.Cell[int], message *reactive.Cell[string], opts ...Option) *Counter {
	s := newSettings(rt.Logger(), opts)
	c := &Counter{
		rt:       rt,
		logger:   s.logger.With("widget", "counter"),
		Duration: duration,
		Message:  message,
		Counter:  reactive.NewCell(rt, 0, reactive.WithName[int]("counter.value")),
	}
	c.DoubleDuration = reactive.NewNamedDerived(rt, "counter.double_duration", func() int {
		return c.Duration.Get() * 2
	})
	c.messageLog = reactive.NewNamedEffect(rt, "counter.message", func() {
		c.logger.Debug("message changed", "message", c.Message.Get())
	})
	return c
}

// Tick increments the counter.
func (c *Counter) Tick() {
	c.Counter.Update(func(n int) int { return n + 1 })
}

// Start ticks every interval until ctx ends or Stop is called. Ticks are
// posted to the runtime, so they apply on the next Drain or Wait.
func (c *Counter) Start(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		return goerrors.New("counter interval must be positive", goerrors.CategoryValidation)
	}
	if c.stop != nil {
		return goerrors.New("counter already started", goerrors.CategoryOperation)
	}
	ctx, cancel := context.WithCancel(ctx)
	c.stop = cancel

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !c.rt.Post(c.Tick) {
					return
				}
			}
		}
	}()
	c.logger.Debug("counter started", "every", every)
	return nil
}

// Running reports whether Start is active.
func (c *Counter) Running() bool {
	return c.stop != nil
}

// Stop ends the ticker. Ticks already posted still apply.
func (c *Counter) Stop() {
	if c.stop == nil {
		return
	}
	c.stop()
	c.stop = nil
}

// Destroy stops the ticker and the message effect. Duration and Message
// belong to the caller and stay live.
func (c *Counter) Destroy() {
	c.Stop()
	c.messageLog.Stop()
	c.DoubleDuration.Dispose()
	c.Counter.Dispose()
}
