package passes

import (
	"github.com/disposejs/dispose/internal/logger"
)

// Returned when a destructuring declaration at the top of a pattern can't be
// resolved statically. This stops the whole run.
type UnsupportedPatternError struct {
	Loc    logger.Loc
	Reason string
}

func (e *UnsupportedPatternError) Error() string {
	return e.Reason
}
