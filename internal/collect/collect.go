// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect fans a search spec out to every registered adapter of a
// category and merges what comes back.
//
// Each adapter runs in its own goroutine under its own timeout. A failing
// or timed-out adapter is excluded from the merge and recorded in the
// status list; it never aborts the batch. Only cancellation of the caller's
// context and adapter contract violations are returned as errors.
package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ashr-exe/icarus-insight/internal/logging"
	"github.com/ashr-exe/icarus-insight/internal/source"
	"github.com/ashr-exe/icarus-insight/pkg/types"
)

// DefaultTimeout bounds one adapter call when Collector.Timeout is zero.
const DefaultTimeout = 20 * time.Second

// Collector holds the adapters for both categories. Its fields are read-only
// after construction, so one Collector can serve concurrent runs.
type Collector struct {
	Patents []source.PatentSource
	Papers  []source.PaperSource

	// Timeout bounds each adapter call independently.
	Timeout time.Duration

	// MaxResults is passed to adapters as their result cap.
	MaxResults int

	Logger *log.Logger
}

// Result is the merged output of one category.
type Result struct {
	// Records are the succeeding adapters' records concatenated in
	// registration order.
	Records []types.RawRecord

	// Status has one entry per adapter in registration order.
	Status []types.AdapterStatus
}

// Failures counts the adapters that did not succeed.
func (r Result) Failures() int {
	n := 0
	for _, s := range r.Status {
		if s.Outcome != types.OutcomeSuccess {
			n++
		}
	}
	return n
}

type task struct {
	name string
	kind types.Kind
	call func(ctx context.Context) ([]types.RawRecord, error)
}

type outcome struct {
	index   int
	records []types.RawRecord
	err     error
	elapsed time.Duration
}

// CollectPatents queries every patent adapter with criteria derived from spec.
func (c *Collector) CollectPatents(ctx context.Context, spec types.SearchSpec) (Result, error) {
	tasks := make([]task, len(c.Patents))
	for i, s := range c.Patents {
		crit := source.PatentCriteriaFor(spec, c.MaxResults)
		tasks[i] = task{
			name: s.Name(),
			kind: types.KindPatent,
			call: func(ctx context.Context) ([]types.RawRecord, error) { return s.SearchPatents(ctx, crit) },
		}
	}
	return c.run(ctx, tasks)
}

// CollectPapers queries every paper adapter with criteria derived from spec.
func (c *Collector) CollectPapers(ctx context.Context, spec types.SearchSpec) (Result, error) {
	tasks := make([]task, len(c.Papers))
	for i, s := range c.Papers {
		crit := source.PaperCriteriaFor(spec, c.MaxResults)
		tasks[i] = task{
			name: s.Name(),
			kind: types.KindPaper,
			call: func(ctx context.Context) ([]types.RawRecord, error) { return s.SearchPapers(ctx, crit) },
		}
	}
	return c.run(ctx, tasks)
}

func (c *Collector) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// run starts every task and waits for all of them or for ctx. The channel
// is buffered to len(tasks) so abandoned tasks can always deliver and exit.
func (c *Collector) run(ctx context.Context, tasks []task) (Result, error) {
	logger := logging.OrDiscard(c.Logger)
	timeout := c.timeout()

	ch := make(chan outcome, len(tasks))
	for i, t := range tasks {
		go func() {
			ch <- invoke(ctx, i, t, timeout)
		}()
	}

	outcomes := make([]outcome, len(tasks))
	for range tasks {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case o := <-ch:
			outcomes[o.index] = o
		}
	}

	res := Result{Status: make([]types.AdapterStatus, len(tasks))}
	for i, t := range tasks {
		o := outcomes[i]
		st := types.AdapterStatus{Adapter: t.name, Kind: t.kind, Duration: o.elapsed}
		if o.err == nil {
			o.err = checkContract(t, o.records)
			if errors.Is(o.err, source.ErrContractViolation) {
				return Result{}, o.err
			}
		}
		if o.err != nil {
			st.Outcome = types.OutcomeTransientFailure
			if source.ClassOf(o.err) == source.ClassPermanent {
				st.Outcome = types.OutcomePermanentFailure
			}
			st.Error = o.err.Error()
			logger.Warn("adapter failed",
				"adapter", t.name, "kind", t.kind, "class", source.ClassOf(o.err), "err", o.err)
		} else {
			st.Outcome = types.OutcomeSuccess
			st.Records = len(o.records)
			for _, r := range o.records {
				if r.Source == "" {
					r.Source = t.name
				}
				res.Records = append(res.Records, r)
			}
			logger.Debug("adapter finished",
				"adapter", t.name, "kind", t.kind, "records", st.Records, "elapsed", o.elapsed)
		}
		res.Status[i] = st
	}
	return res, nil
}

// invoke runs one task under its own deadline. An adapter that ignores its
// context is abandoned when the deadline passes; a panic is reported as a
// permanent failure.
func invoke(parent context.Context, index int, t task, timeout time.Duration) outcome {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: source.Permanent(t.name, fmt.Errorf("adapter panicked: %v", r))}
			}
		}()
		records, err := t.call(ctx)
		done <- outcome{records: records, err: err}
	}()

	var o outcome
	select {
	case o = <-done:
	case <-ctx.Done():
		o.err = ctx.Err()
	}
	o.index = index
	o.elapsed = time.Since(start)

	if o.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		o.records = nil
		o.err = source.Transient(t.name, fmt.Errorf("timed out after %s: %w", timeout, context.DeadlineExceeded))
	}
	return o
}

// checkContract verifies every record carries the task's kind and exactly
// the matching payload.
func checkContract(t task, records []types.RawRecord) error {
	for i, r := range records {
		if r.Kind != t.kind {
			return fmt.Errorf("%w: %s returned %q record %d from a %s search",
				source.ErrContractViolation, t.name, r.Kind, i, t.kind)
		}
		switch {
		case r.Kind == types.KindPatent && (r.Patent == nil || r.Paper != nil),
			r.Kind == types.KindPaper && (r.Paper == nil || r.Patent != nil):
			return fmt.Errorf("%w: %s record %d payload does not match kind %q",
				source.ErrContractViolation, t.name, i, r.Kind)
		}
	}
	return nil
}
