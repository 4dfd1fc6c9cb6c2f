package app

import (
	"bufio"
	"context"
	"errors"
	"io"
	"runtime/debug"

	"github.com/dshills/unistr/internal/engine/ustring"
)

// RecordFunc transforms one input record. Returning a nil String drops the
// record from the output. rec belongs to the caller and is reused after
// the function returns.
type RecordFunc func(ctx context.Context, rec *ustring.String) (*ustring.String, error)

// ProcessOption configures Process.
type ProcessOption func(*processConfig)

type processConfig struct {
	keepGoing bool
}

// KeepGoing makes Process log failed records and continue, returning the
// collected failures at the end instead of stopping at the first one.
func KeepGoing() ProcessOption {
	return func(cfg *processConfig) {
		cfg.keepGoing = true
	}
}

// Process reads delimited records from r, applies fn to each and writes
// the results to w, each followed by the delimiter. op names the operation
// in errors and logs.
func (app *Application) Process(ctx context.Context, r io.Reader, w io.Writer, op string, fn RecordFunc, opts ...ProcessOption) (err error) {
	var cfg processConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = NewOperationError(op, "output", ferr)
		}
	}()

	rec := app.pool.Get()
	defer app.pool.Put(rec)

	log := app.logger.WithComponent(op)
	var failures ErrorList
	delim := app.delim.Bytes()

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := ustring.ReadLine(br, rec, ustring.WithDelimiter(app.delim)); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return NewOperationError(op, "input", err)
		}

		in := rec
		if app.normalize {
			in = rec.Normalize(app.form)
		}
		chars, bytes := in.Len(), in.Size()-1

		timer := StartTimer()
		out, err := app.apply(ctx, fn, in)
		if err != nil {
			app.metrics.RecordFailed()
			opErr := recordError(op, n, err)
			if !cfg.keepGoing {
				return opErr
			}
			log.WithField("record", n).Warn("%v", err)
			failures.Add(opErr)
			continue
		}
		app.metrics.RecordProcessed(timer.Elapsed(), chars, bytes)

		if out == nil {
			app.metrics.RecordSkipped()
			continue
		}
		if _, err := out.WriteTo(bw); err != nil {
			return NewOperationError(op, "output", err)
		}
		if _, err := bw.Write(delim); err != nil {
			return NewOperationError(op, "output", err)
		}
	}

	if failures.Len() > 0 {
		log.Warn("%d records failed", failures.Len())
	}
	return failures.AsError()
}

// apply calls fn, converting a panic into an error.
func (app *Application) apply(ctx context.Context, fn RecordFunc, rec *ustring.String) (out *ustring.String, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()
	return fn(ctx, rec)
}
