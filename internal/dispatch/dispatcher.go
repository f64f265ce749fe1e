package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/mateoavila/nft-transfers/internal/transfers"
	pkgerrors "github.com/mateoavila/nft-transfers/pkg/errors"
	"github.com/mateoavila/nft-transfers/pkg/logger"
	"github.com/mateoavila/nft-transfers/pkg/metrics"
)

// Filter is an async admission predicate. Returning false drops the event
// silently; an error surfaces as a dispatch failure.
type Filter func(ctx context.Context, t transfers.Transfer) (bool, error)

// HandlerFunc processes one admitted transfer.
type HandlerFunc func(ctx context.Context, t transfers.Transfer) error

// Handler is a named unit of work fanned out per transfer. Critical handler
// failures surface to the caller; non-critical ones are logged and
// swallowed.
type Handler struct {
	Name     string
	Critical bool
	Fn       HandlerFunc
}

// Dispatcher routes transfers through the admission filters and the handler
// set. Events are independent; the dispatcher keeps no cross-event state.
type Dispatcher struct {
	filters  []Filter
	handlers []Handler
	logg     *logger.Logger
	metrics  *metrics.DispatchMetrics
}

// NewDispatcher validates and wires the pipeline.
func NewDispatcher(filters []Filter, handlers []Handler, logg *logger.Logger, m *metrics.DispatchMetrics) (*Dispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(handlers) == 0 {
		return nil, fmt.Errorf("at least one handler required")
	}
	for _, h := range handlers {
		if h.Name == "" || h.Fn == nil {
			return nil, fmt.Errorf("handler requires a name and a function")
		}
	}
	return &Dispatcher{
		filters:  filters,
		handlers: handlers,
		logg:     logg,
		metrics:  m,
	}, nil
}

type handlerOutcome struct {
	name     string
	critical bool
	err      error
}

// Dispatch runs one transfer through the pipeline. The first filter
// returning false drops the event (not an error). Handlers then run
// concurrently; after all settle, critical failures are aggregated into a
// single error naming each failed handler. The caller owns isolation: a
// returned error must not stop subsequent events.
func (d *Dispatcher) Dispatch(ctx context.Context, t transfers.Transfer) error {
	start := time.Now()
	logCtx := d.logg.WithFields(ctx, t.LogFields())

	for _, filter := range d.filters {
		admit, err := filter(ctx, t)
		if err != nil {
			d.metrics.IncProcessed("failure")
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "admission filter")
		}
		if !admit {
			d.metrics.IncDropped()
			return nil
		}
	}

	outcomes := make([]handlerOutcome, len(d.handlers))
	var wg sync.WaitGroup
	for idx, handler := range d.handlers {
		wg.Add(1)
		go func(idx int, handler Handler) {
			defer wg.Done()
			outcomes[idx] = handlerOutcome{
				name:     handler.Name,
				critical: handler.Critical,
				err:      d.runHandler(ctx, handler, t),
			}
		}(idx, handler)
	}
	wg.Wait()

	var dispatchErr error
	for _, outcome := range outcomes {
		if outcome.err == nil {
			continue
		}
		d.metrics.IncHandlerFailure(outcome.name)
		if outcome.critical {
			dispatchErr = multierr.Append(dispatchErr, pkgerrors.Wrap(
				pkgerrors.CodeHandler,
				outcome.err,
				fmt.Sprintf("%s failed to handle transfer", outcome.name),
			))
			continue
		}
		failCtx := d.logg.WithHandler(logCtx, outcome.name)
		d.logg.Error(failCtx, "non-critical handler failed", outcome.err)
	}

	outcome := "success"
	if dispatchErr != nil {
		outcome = "failure"
	}
	d.metrics.IncProcessed(outcome)
	d.metrics.ObserveDuration(outcome, time.Since(start))

	return dispatchErr
}

// runHandler shields sibling handlers from panics in one handler.
func (d *Dispatcher) runHandler(ctx context.Context, handler Handler, t transfers.Transfer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return handler.Fn(ctx, t)
}
