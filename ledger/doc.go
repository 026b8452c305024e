// Package ledger tracks live ownership groups for leak audits.
//
// A Ledger is a handle.Observer. Groups created with the ledger's options
// report every lifecycle event to it:
//
//	l := ledger.New()
//	h := handle.NewWithOptions[Frame](l.Options("frame"))
//
//	l.Len()      // 1
//	h.Release()
//	l.Len()      // 0
//
// # Audits
//
// Check returns a *errors.LeakError naming every group that is still alive,
// and logs each one at warn level. Close runs a final audit and stops
// recording. Subscribing to a closed ledger returns a closed error.
//
// # Subscribers
//
// Subscribe forwards recorded events to further observers, so a single
// ledger can feed metrics or debug output:
//
//	err := l.Subscribe(handle.ObserverFunc(func(e handle.Event) {
//	    log.Printf("group %d %s", e.Group, e.Type)
//	}))
//
// Unlike handles, a Ledger is safe for concurrent use. One ledger may
// observe groups owned by different goroutines.
package ledger
