package gracefull

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/AndreeJait/email-storm/loggerw"
)

type ShutdownFunc func(ctx context.Context) error

type MapShutdownFunc map[string]ShutdownFunc

type GracefulShutDown struct {
	mu              sync.Mutex
	mapShutDownFunc MapShutdownFunc
	log             loggerw.Logger

	requested chan struct{}
	once      sync.Once
}

func NewGracefulShutdown(log loggerw.Logger) *GracefulShutDown {
	return &GracefulShutDown{
		mapShutDownFunc: make(MapShutdownFunc),
		log:             log,
		requested:       make(chan struct{}),
	}
}

func (g *GracefulShutDown) AddFunc(key string, callbackFunc ShutdownFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mapShutDownFunc[key] = callbackFunc
}

// Request asks the process to stop. Safe to call more than once.
func (g *GracefulShutDown) Request() {
	g.once.Do(func() { close(g.requested) })
}

func (g *GracefulShutDown) Requested() <-chan struct{} {
	return g.requested
}

// Wait blocks until one of signals arrives, Request is called or ctx is done.
func (g *GracefulShutDown) Wait(ctx context.Context, signals ...os.Signal) {
	quit := make(chan os.Signal, 1)
	if len(signals) > 0 {
		signal.Notify(quit, signals...)
		defer signal.Stop(quit)
	}

	select {
	case sig := <-quit:
		g.log.Infof("received signal %s", sig)
	case <-g.requested:
		g.log.Info("shutdown requested")
	case <-ctx.Done():
	}
}

// ShutdownAll runs every registered callback concurrently and waits for them
// or for ctx, whichever comes first.
func (g *GracefulShutDown) ShutdownAll(ctx context.Context) {
	g.mu.Lock()
	funcs := make(MapShutdownFunc, len(g.mapShutDownFunc))
	for k, v := range g.mapShutDownFunc {
		funcs[k] = v
	}
	g.mu.Unlock()

	var wg sync.WaitGroup
	for key, val := range funcs {
		wg.Add(1)
		go func(key string, callbackFunc ShutdownFunc) {
			defer wg.Done()
			g.log.Infof("starting to shutdown %s", key)

			err := callbackFunc(ctx)
			if err != nil {
				g.log.Errorf("failed to shutdown [%s], reason %+v", key, err)
				return
			}
			g.log.Infof("success to shutdown %s", key)
		}(key, val)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.log.Infof("all process done :)")
	case <-ctx.Done():
		g.log.Errorf("shutdown deadline reached: %v", ctx.Err())
	}
}
