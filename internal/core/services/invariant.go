package services

import (
	"fmt"

	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// invariant reports a broken internal invariant. Debug builds (tag
// atlasdebug) panic; release builds log and continue.
func invariant(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if debugInvariants {
		panic("invariant violated: " + msg)
	}
	logger.Error("invariant violated: %s", msg)
}
