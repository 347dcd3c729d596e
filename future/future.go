// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package future provides a single-assignment completion handle that any number
// of goroutines can await.
package future

import (
	"context"
	"sync"
)

// Future represents the outcome of an operation which may not have completed yet.
//
// Await blocks until the operation completes or the given context is canceled.
// Unlike a channel receive, a Future can be awaited by many goroutines and
// awaited again after completion: every caller observes the same outcome.
//
// Example usage:
//
//	f := future.New(func() error {
//	    return loadEverything()
//	})
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	if err := f.Await(ctx); err != nil {
//	    log.Printf("load failed: %v", err)
//	}
type Future interface {
	// Await blocks until the Future is completed or ctx is done. It returns the
	// failure of the operation, or the context error when ctx ended first.
	Await(ctx context.Context) error
	// Done returns a channel closed once the Future is completed.
	Done() <-chan struct{}
	// IsDone reports whether the Future is completed.
	IsDone() bool
	// Err returns the failure of a completed Future, nil otherwise.
	Err() error
}

// New runs task in its own goroutine and returns a Future completed with its result.
func New(task func() error) Future {
	promise := NewPromise()
	go func() {
		if err := task(); err != nil {
			promise.Failure(err)
			return
		}
		promise.Success()
	}()
	return promise.Future()
}

// Completed returns an already completed Future holding err.
func Completed(err error) Future {
	promise := NewPromise()
	if err != nil {
		promise.Failure(err)
	} else {
		promise.Success()
	}
	return promise.Future()
}

type future struct {
	done chan struct{}
	mu   sync.RWMutex
	err  error
}

var _ Future = (*future)(nil)

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

// Await blocks until the Future is completed or ctx is canceled.
func (x *future) Await(ctx context.Context) error {
	select {
	case <-x.done:
		return x.Err()
	default:
	}

	select {
	case <-x.done:
		return x.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the Future is completed.
func (x *future) Done() <-chan struct{} {
	return x.done
}

// IsDone reports whether the Future is completed.
func (x *future) IsDone() bool {
	select {
	case <-x.done:
		return true
	default:
		return false
	}
}

// Err returns the failure of a completed Future.
func (x *future) Err() error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.err
}

func (x *future) complete(err error) {
	x.mu.Lock()
	x.err = err
	x.mu.Unlock()
	close(x.done)
}

// Promise is the writable side of a Future. Only the first completion counts.
type Promise struct {
	once   sync.Once
	future *future
}

// NewPromise returns a Promise with a pending Future.
func NewPromise() *Promise {
	return &Promise{future: newFuture()}
}

// Success completes the underlying Future without error.
func (p *Promise) Success() {
	p.once.Do(func() {
		p.future.complete(nil)
	})
}

// Failure completes the underlying Future with err.
func (p *Promise) Failure(err error) {
	p.once.Do(func() {
		p.future.complete(err)
	})
}

// Future returns the underlying Future.
func (p *Promise) Future() Future {
	return p.future
}
