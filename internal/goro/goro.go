package goro

import (
	"context"
	"sync"
)

// Group manages a set of long-running goroutines. Goroutines are spawned
// individually with Group.Go and after that interrupted and waited-on as a
// single unit. The zero-value of this type is valid. A Group must not be
// copied after first use.
type Group struct {
	initOnce sync.Once
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Go spawns a goroutine whose lifecycle is managed by this Group. All
// functions passed to Go on the same Group share one context.Context used to
// indicate cancellation; a function that does not honor ctx.Done() will make
// Wait hang until it exits on its own.
func (g *Group) Go(f func(ctx context.Context) error) {
	g.initOnce.Do(g.init)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		_ = f(g.ctx)
	}()
}

// Cancel cancels the context passed to all goroutines spawned via Go.
func (g *Group) Cancel() {
	g.initOnce.Do(g.init)
	g.cancel()
}

// Wait blocks until all goroutines spawned via Go have completed. Returns
// immediately if Go was never called.
func (g *Group) Wait() {
	g.wg.Wait()
}

func (g *Group) init() {
	g.ctx, g.cancel = context.WithCancel(context.Background())
}
