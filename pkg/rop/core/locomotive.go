package core

import (
	"context"
	"sync"
)

type CancellationHandlers[In, Out any] struct {
	// OnCancel runs once the worker stops because ctx is done.
	OnCancel func(ctx context.Context, inputCh <-chan In, outCh chan<- Out)
	// OnCancelUnprocessed receives an input taken after ctx was done.
	OnCancelUnprocessed func(ctx context.Context, unprocessed In, outCh chan<- Out)
	// OnCancelProcessed receives a result computed while ctx became done.
	OnCancelProcessed func(ctx context.Context, in In, processed Out, outCh chan<- Out)
}

// Locomotive feeds inputs to engine one at a time and forwards the results
// until inputCh is closed or ctx is done. Several locomotives may share the
// same channels.
func Locomotive[In, Out any](ctx context.Context, inputCh <-chan In, outCh chan<- Out,
	engine func(ctx context.Context, input In) Out,
	handlers CancellationHandlers[In, Out], wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			if handlers.OnCancel != nil {
				handlers.OnCancel(ctx, inputCh, outCh)
			}
			return
		case in, ok := <-inputCh:
			if !ok {
				return
			}

			if ctx.Err() != nil {
				if handlers.OnCancelUnprocessed != nil {
					handlers.OnCancelUnprocessed(ctx, in, outCh)
				}
				if handlers.OnCancel != nil {
					handlers.OnCancel(ctx, inputCh, outCh)
				}
				return
			}

			pr := engine(ctx, in)

			select {
			case outCh <- pr:
			case <-ctx.Done():
				if handlers.OnCancelProcessed != nil {
					handlers.OnCancelProcessed(ctx, in, pr, outCh)
				}
				if handlers.OnCancel != nil {
					handlers.OnCancel(ctx, inputCh, outCh)
				}
				return
			}
		}
	}
}
