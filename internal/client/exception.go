package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/utils"
	"github.com/charmbracelet/lipgloss"
)

// PrintExceptionHandler writes one styled line per failure. It is the
// handler a [Client] uses when none is configured.
type PrintExceptionHandler struct {
	mu    sync.Mutex
	out   io.Writer
	label lipgloss.Style
	run   lipgloss.Style
}

// NewPrintExceptionHandler returns a handler writing to out. Colours are used
// only when out is a terminal that supports them.
func NewPrintExceptionHandler(out io.Writer) *PrintExceptionHandler {
	renderer := lipgloss.NewRenderer(out)
	return &PrintExceptionHandler{
		out:   out,
		label: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		run:   renderer.NewStyle().Faint(true),
	}
}

// OnException implements [ExceptionHandler].
func (h *PrintExceptionHandler) OnException(ctx context.Context, err error) {
	line := h.label.Render("exception:") + " " + err.Error()
	if runID, ok := utils.GetRunIDFromContext(ctx); ok {
		line += " " + h.run.Render("run="+runID)
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) && len(panicErr.Stack) > 0 {
		line += "\n" + string(panicErr.Stack)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, _ = fmt.Fprintln(h.out, line)
}

// LogExceptionHandler routes failures to a structured logger.
type LogExceptionHandler struct {
	logger *logger.Logger
}

// NewLogExceptionHandler returns a handler logging to log. A nil log makes
// the handler use the logger attached to the dispatch context.
func NewLogExceptionHandler(log *logger.Logger) *LogExceptionHandler {
	return &LogExceptionHandler{logger: log}
}

// OnException implements [ExceptionHandler].
func (h *LogExceptionHandler) OnException(ctx context.Context, err error) {
	log := h.logger
	if log == nil {
		log = logger.FromContext(ctx)
	}

	event := log.Error().Err(err)
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		event = event.Bytes("stack", panicErr.Stack)
	}
	event.Msg("listener exception")
}
