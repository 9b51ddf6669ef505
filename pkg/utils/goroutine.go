package utils

import "log"

// GoSafe runs fn on a new goroutine and turns a panic into a log line
// instead of crashing the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic in goroutine: %v", r)
			}
		}()
		fn()
	}()
}
