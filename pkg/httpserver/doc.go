// Package httpserver runs an http.Handler with configurable timeouts and
// context-driven graceful shutdown.
//
// Run opens the listener, reports the bound address through WithOnStart
// callbacks and serves until the context is cancelled, then shuts down
// within the configured deadline. Signal handling is left to the caller,
// typically through signal.NotifyContext:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness (no checks) and readiness (named
// probes) from the same endpoint.
//
// Listen and serve errors wrap ErrStart, shutdown errors wrap ErrShutdown.
package httpserver
