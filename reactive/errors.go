package reactive

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// CodeDerivedWrite is raised when a cell is written while a derived value computes.
	CodeDerivedWrite = "REACTIVE_DERIVED_WRITE"
	// CodeCycle is raised when a derived value depends on itself.
	CodeCycle = "REACTIVE_CYCLE"
	// CodeEffectLoop is raised when effects keep re-triggering within one flush.
	CodeEffectLoop = "REACTIVE_EFFECT_LOOP"
)

func usageError(code, message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).WithTextCode(code)
}

func derivedWriteError(cell string) *goerrors.Error {
	return usageError(CodeDerivedWrite, fmt.Sprintf("cell %s written inside a derived computation", cell))
}

func cycleError(derived string) *goerrors.Error {
	return usageError(CodeCycle, fmt.Sprintf("derived %s depends on itself", derived))
}

func effectLoopError(runs int) *goerrors.Error {
	return usageError(CodeEffectLoop, fmt.Sprintf("effects re-triggered %d times in a single flush", runs))
}

// HasCode reports whether err (or a recovered panic value) is a reactive
// usage error with the given text code.
func HasCode(v any, code string) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	var typed *goerrors.Error
	if !errors.As(err, &typed) {
		return false
	}
	return typed.TextCode == code
}
