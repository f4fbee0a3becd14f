// Package journal provides a crash-safe structured logging pipeline: cheap
// topic-bound handles feed an unbounded channel drained by a single
// background consumer that batches messages and durably persists them to a
// JSON document, with a companion panic capture that guarantees the final
// record reaches disk before default crash handling proceeds.
//
// Key features
//   - Non-blocking producers: enqueueing never waits on the consumer or on I/O
//   - Durable persistence: batched read-append-rename flushes of a single
//     session document, rotated to a ".old" backup at startup
//   - Panic capture: Guard() records file, line, payload and backtrace,
//     blocks until the record is on disk, then re-raises the panic
//   - Mirror logging: every message is echoed through rs/zerolog to the
//     console and/or a lumberjack rolling file
//   - Deterministic shutdown: Close() drains, flushes and joins the consumer
//
// Typical usage
//
//	p, err := journal.New(nil)
//	if err != nil { panic(err) }
//	defer p.Close(context.Background())
//
//	log, _ := p.Logger("gfx")
//	log.Info("swapchain created")
//	log.State("surface caps", caps)
//
//	go func() {
//	    defer p.Guard()
//	    run()
//	}()
package journal
