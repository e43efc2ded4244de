package command

import (
	"context"
	"errors"

	"stockbook/internal/model"
)

var ErrExecutorStopped = errors.New("executor stopped")

type request struct {
	cmd   Command
	reply chan response
}

type response struct {
	result Result
	err    error
}

// Executor runs commands one at a time on a single goroutine so that no two
// commands ever touch the model concurrently.
type Executor struct {
	model    model.Model
	requests chan request
	done     chan struct{}
}

func NewExecutor(m model.Model) *Executor {
	return &Executor{
		model:    m,
		requests: make(chan request),
		done:     make(chan struct{}),
	}
}

// Run processes submissions until ctx is cancelled.
func (e *Executor) Run(ctx context.Context) {
	defer close(e.done)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.requests:
			result, err := req.cmd.Execute(e.model)
			req.reply <- response{result: result, err: err}
		}
	}
}

// Submit queues cmd and waits for its result. A command that has been accepted
// runs to completion even if ctx is cancelled while waiting.
func (e *Executor) Submit(ctx context.Context, cmd Command) (Result, error) {
	reply := make(chan response, 1)
	select {
	case e.requests <- request{cmd: cmd, reply: reply}:
	case <-e.done:
		return Result{}, ErrExecutorStopped
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp.result, resp.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
