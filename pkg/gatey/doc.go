// Package gatey is the official Go SDK for the Gatey error and event
// reporting service: it captures exceptions and log-like messages from
// a host application and ships them to the Gatey API without blocking
// the caller.
//
// # Core Components
//
// The SDK is organized around these concepts:
//
//   - Event: the canonical representation of a captured message or exception
//   - Client: the root interface, exposing CaptureMessage, CaptureException and Catch
//   - Transport: destination for events (Gatey API over HTTP, printer, func, void, multi)
//   - queue: a background worker delivering events FIFO with bounded retry
//   - Guard: the process-wide panic funnel, chaining previously installed handlers
//
// # Quick Start
//
//	client, err := gatey.NewClient(
//	    gatey.WithProjectID(1),
//	    gatey.WithServerSecret("secret-from-dashboard"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.CaptureMessage("service started", gatey.WithLevel(gatey.LevelInfo))
//
//	if err := doWork(); err != nil {
//	    client.CaptureException(err)
//	}
//
// To also capture unhandled panics:
//
//	client, _ := gatey.NewClient(
//	    gatey.WithProjectID(1),
//	    gatey.WithServerSecret("..."),
//	    gatey.WithGlobalPanicCapture(),
//	)
//	defer client.Close()
//	defer gatey.Guard()
//
// # Design Principles
//
//   - Capture calls never block on network I/O and never fail into the host application
//   - Event building never panics: malformed input degrades to placeholder fields
//   - Delivery failures are retried with bounded backoff, then dropped with a local diagnostic
//   - The server secret always wins over the client secret when both are configured
package gatey
