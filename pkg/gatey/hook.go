// hook.go is the process-wide panic handler registration point. Go has
// no uncaught-exception hook, so the SDK funnels panics through Guard:
// a deferred Guard at the top of main or a goroutine recovers, runs the
// installed handler chain, then re-panics so the default crash behavior
// still occurs.

package gatey

import "sync"

// PanicHandler receives a recovered panic value.
type PanicHandler func(recovered any)

var (
	hookMu        sync.Mutex
	activeHandler PanicHandler
	priorHandler  PanicHandler
)

// InstallGlobalHandler makes handler the process-wide panic handler.
// The previously installed handler is chained: it runs after the new
// one, and is restored by UninstallGlobalHandler.
func InstallGlobalHandler(handler PanicHandler) {
	hookMu.Lock()
	defer hookMu.Unlock()
	prior := activeHandler
	priorHandler = prior
	activeHandler = func(recovered any) {
		safeHandle(handler, recovered)
		if prior != nil {
			safeHandle(prior, recovered)
		}
	}
}

// UninstallGlobalHandler restores the handler that was active before
// the last InstallGlobalHandler call.
func UninstallGlobalHandler() {
	hookMu.Lock()
	defer hookMu.Unlock()
	activeHandler = priorHandler
	priorHandler = nil
}

// Guard recovers a panic on the calling goroutine, runs the installed
// handler chain, then re-panics with the original value. Use in defer:
//
//	func main() {
//	    defer gatey.Guard()
//	    // ...
//	}
//
// Without an installed handler Guard re-panics immediately, so adding
// it is always safe.
func Guard() {
	recovered := recover()
	if recovered == nil {
		return
	}

	hookMu.Lock()
	handler := activeHandler
	hookMu.Unlock()

	if handler != nil {
		handler(recovered)
	}
	panic(recovered)
}

// safeHandle runs a handler guarding against its own panics; a broken
// handler must never mask the original panic.
func safeHandle(handler PanicHandler, recovered any) {
	defer func() { _ = recover() }()
	handler(recovered)
}
