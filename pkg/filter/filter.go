// Package filter streams lines through the timestamp rewriter.
package filter

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/cjappl/trtz/pkg/parser"
	"github.com/cjappl/trtz/pkg/rewriter"
)

// Filter rewrites a stream of lines, one at a time in arrival order.
type Filter struct {
	rw       *rewriter.Rewriter
	policy   Policy
	logger   zerolog.Logger
	onReject func(*InvalidTimestampError)
}

// Option configures filter behavior.
type Option func(*Filter)

// WithPolicy sets how invalid timestamps are handled.
func WithPolicy(p Policy) Option {
	return func(f *Filter) {
		f.policy = p
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Filter) {
		f.logger = l
	}
}

// WithRejectionHandler registers fn to be called for every invalid
// timestamp, whatever the policy.
func WithRejectionHandler(fn func(*InvalidTimestampError)) Option {
	return func(f *Filter) {
		f.onReject = fn
	}
}

// New creates a filter around a rewriter.
func New(rw *rewriter.Rewriter, opts ...Option) *Filter {
	f := &Filter{
		rw:     rw,
		policy: DefaultPolicy,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the configured policy.
func (f *Filter) Policy() Policy {
	return f.policy
}

// Run reads src to the end, writing each rewritten line to sink. Output
// written before an error is flushed. The returned stats are never nil.
func (f *Filter) Run(ctx context.Context, src parser.LineSource, sink Sink) (*Stats, error) {
	stats := &Stats{}

	f.logger.Debug().
		Str("tz", f.rw.Resolver().String()).
		Str("policy", string(f.policy)).
		Msg("filter started")

	err := f.run(ctx, src, sink, stats)
	if ferr := sink.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("writing output: %w", ferr)
	}

	f.logger.Debug().
		Int("lines", stats.Lines).
		Int("converted", stats.Converted).
		Int("rejected", stats.Rejected).
		Msg("filter finished")

	return stats, err
}

func (f *Filter) run(ctx context.Context, src parser.LineSource, sink Sink, stats *Stats) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := src.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return readError(err)
		}
		stats.Lines++

		out, err := f.process(line, stats)
		if err != nil {
			return err
		}
		if err := sink.WriteLine(out); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
}

// process rewrites one line and applies the policy. It returns the text to
// write, or an error if the run must stop.
func (f *Filter) process(line *parser.Line, stats *Stats) (string, error) {
	res := f.rw.Rewrite(line.Text)

	switch res.Outcome() {
	case rewriter.Fatal:
		return "", fmt.Errorf("%s:%d: %w", line.Source, line.LineNum, res.Err)

	case rewriter.Rejected:
		stats.Rejected += len(res.Rejections)
		var first *InvalidTimestampError
		for _, rej := range res.Rejections {
			e := &InvalidTimestampError{
				Source:  line.Source,
				LineNum: line.LineNum,
				Column:  rej.Column(),
				Text:    rej.Text,
				Err:     rej.Err,
			}
			if first == nil {
				first = e
			}
			if f.onReject != nil {
				f.onReject(e)
			}
			if f.policy != PolicyAbort {
				f.logger.Warn().
					Str("source", e.Source).
					Int("line", e.LineNum).
					Int("column", e.Column).
					Str("timestamp", e.Text).
					Err(e.Err).
					Msgf("left invalid timestamp unconverted (%s)", f.policy)
			}
		}

		switch f.policy {
		case PolicySkip:
			f.count(&res, stats)
			return res.String(), nil
		case PolicyPassthrough:
			stats.PassedThrough++
			return res.Original, nil
		default:
			return "", first
		}

	default:
		f.count(&res, stats)
		return res.String(), nil
	}
}

func (f *Filter) count(res *rewriter.Result, stats *Stats) {
	stats.Converted += res.Converted
	if res.Changed() {
		stats.LinesChanged++
	}
}

func readError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	re := &ReadError{Err: err}
	var srcErr *parser.SourceError
	if errors.As(err, &srcErr) {
		re.Source = srcErr.Source
		re.LineNum = srcErr.LineNum
	}
	return re
}
