// safego.go — panic-capturing goroutine launcher.
package util

import (
	"runtime/debug"

	"github.com/bio-agent/go-bridge-v2/pkg/logger"
)

// SafeGo runs fn in a new goroutine, recovering panics into an error log
// with the stack attached.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("goroutine panicked",
					logger.FieldError, r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
