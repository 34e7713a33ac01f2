package pages

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-storefront/reactive"
)

// AboutPage is the demo page wiring form inputs into a Counter.
type AboutPage struct {
	logger *slog.Logger

	Duration    *reactive.Cell[int]
	Message     *reactive.Cell[string]
	WithInit    *reactive.Cell[string]
	WithoutInit *reactive.Cell[string]

	Counter *Counter
}

// NewAboutPage creates the page and its counter.
func NewAboutPage(rt *reactive.Runtime, opts ...Option) *AboutPage {
	s := newSettings(rt.Logger(), opts)
	p := &AboutPage{
		logger:      s.logger.With("page", "about"),
		Duration:    reactive.NewCell(rt, 1000, reactive.WithName[int]("about.duration")),
		Message:     reactive.NewCell(rt, "Hola", reactive.WithName[string]("about.message")),
		WithInit:    reactive.NewCell(rt, "init value", reactive.WithName[string]("about.with_init")),
		WithoutInit: reactive.NewCell(rt, "----", reactive.WithName[string]("about.without_init")),
	}
	p.Counter = NewCounter(rt, p.Duration, p.Message, opts...)
	return p
}

// ChangeDuration parses input as an integer number of milliseconds.
// Input that does not parse is ignored.
func (p *AboutPage) ChangeDuration(input string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		p.logger.Debug("duration ignored", "input", input)
		return false
	}
	p.Duration.Set(n)
	return true
}

// ChangeMessage logs message and stores it.
func (p *AboutPage) ChangeMessage(message string) {
	p.logger.Info("changeMessage", "message", message)
	p.Message.Set(message)
}

// EmitWithInit replaces the initialized value.
func (p *AboutPage) EmitWithInit() {
	p.WithInit.Set("new value")
}

// EmitWithoutInit replaces the placeholder value.
func (p *AboutPage) EmitWithoutInit() {
	p.WithoutInit.Set("*****")
}

// Destroy stops the counter and releases the page cells.
func (p *AboutPage) Destroy() {
	p.Counter.Destroy()
	p.Duration.Dispose()
	p.Message.Dispose()
	p.WithInit.Dispose()
	p.WithoutInit.Dispose()
}
