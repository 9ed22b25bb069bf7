// Command qalloc-server runs the HTTP allocation service: POST /api/allocate
// accepts a circuit plus a coupling-graph topology, runs the allocator
// driver, and returns the resulting Solution as JSON. This is internal/app's
// one real entrypoint, mirroring how cmd/cli is qc/alloc/driver's.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kegliz/qalloc/internal/app"
	"github.com/kegliz/qalloc/internal/config"
)

func main() {
	var (
		port      = flag.Int("port", 0, "HTTP listen port; <=0 selects the config default")
		localOnly = flag.Bool("local-only", false, "bind 127.0.0.1 only instead of all interfaces")
		debug     = flag.Bool("debug", false, "enable debug logging")
		version   = flag.String("version", "dev", "version string reported by the service")
	)
	flag.Parse()

	c := config.New()
	if *debug {
		c.Set("debug", true)
	}

	srv, err := app.NewServer(app.ServerOptions{C: c, Version: *version})
	if err != nil {
		fmt.Fprintf(os.Stderr, "qalloc-server: building server: %v\n", err)
		os.Exit(1)
	}

	listenPort := *port
	if listenPort <= 0 {
		listenPort = c.HTTPPort()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(listenPort, *localOnly)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "qalloc-server: %v\n", err)
			os.Exit(1)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "qalloc-server: shutdown: %v\n", err)
			os.Exit(1)
		}
	}
}
