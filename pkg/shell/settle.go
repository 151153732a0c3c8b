package shell

import "context"

// Handler is a command action in any supported calling convention. Use
// Sync, Callback or Deferred to declare one; the engine drives them all
// through the same single-fire completion.
type Handler interface {
	start(ctx context.Context, inst *Instance, args Args, done func(error))
}

// Sync is an action that completes when it returns.
type Sync func(ctx context.Context, inst *Instance, args Args) error

func (f Sync) start(ctx context.Context, inst *Instance, args Args, done func(error)) {
	done(f(ctx, inst, args))
}

// Callback is an action that completes when it calls done, possibly from
// another goroutine after returning.
type Callback func(ctx context.Context, inst *Instance, args Args, done func(error))

func (f Callback) start(ctx context.Context, inst *Instance, args Args, done func(error)) {
	f(ctx, inst, args, done)
}

// Deferred is an action that completes when its channel yields or closes.
type Deferred func(ctx context.Context, inst *Instance, args Args) <-chan error

func (f Deferred) start(ctx context.Context, inst *Instance, args Args, done func(error)) {
	ch := f(ctx, inst, args)
	if ch == nil {
		done(nil)
		return
	}
	go func() {
		select {
		case err := <-ch:
			done(err)
		case <-ctx.Done():
			// Cancellation settles the item; a late result is ignored.
		}
	}()
}
