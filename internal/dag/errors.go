package dag

import (
	"fmt"
	"strings"
)

// CycleError reports that no valid total order exists. Remaining holds
// the ids that could not be resolved, sorted; they contain at least one
// cycle (plus everything downstream of it).
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	if len(e.Remaining) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf("circular dependency detected among cells: %s",
		strings.Join(e.Remaining, ", "))
}
