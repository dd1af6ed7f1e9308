// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT/SIGTERM, an explicit Trigger, or the
// cancellation of a parent context. It then runs registered hooks in
// reverse order under a single timeout.
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
