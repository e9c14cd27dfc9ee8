// Package watcher reports changes to a single file with debouncing.
//
// The package implements a hybrid watching strategy:
//   - Primary: fsnotify on the file's parent directory, so editors that
//     replace the file through a rename are still seen
//   - Fallback: stat polling for environments where fsnotify fails
//     (network mounts, Docker volumes)
//
// Bursts of events are coalesced so a save that touches the file several
// times produces one change.
//
// Usage:
//
//	err := watcher.Run(ctx, "dictionary.txt", watcher.DefaultOptions(),
//	    func(ctx context.Context, ev watcher.FileEvent) {
//	        // rebuild outputs
//	    })
package watcher
