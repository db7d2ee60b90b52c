// exception.go normalizes Go errors and recovered panic values into
// ExceptionInfo. Building is best-effort and never panics: malformed
// input degrades to placeholder fields instead of destabilizing the
// host application.

package gatey

import (
	"fmt"
	"reflect"
)

// buildExceptionInfo converts an error into an ExceptionInfo with the
// stack captured at the call site, skip frames above this function.
func buildExceptionInfo(err error, skip int, withContext bool) *ExceptionInfo {
	return &ExceptionInfo{
		Class:       exceptionClass(err),
		Description: safeErrorString(err),
		Traceback:   captureStack(skip+1, withContext),
	}
}

// buildPanicInfo converts a recovered panic value into an ExceptionInfo.
func buildPanicInfo(recovered any, skip int, withContext bool) *ExceptionInfo {
	return &ExceptionInfo{
		Class:       panicClass(recovered),
		Description: formatRecovered(recovered),
		Traceback:   captureStack(skip+1, withContext),
	}
}

// exceptionClass returns the type name of an error ("ValidationError",
// "errorString"). Pointer indirection is stripped.
func exceptionClass(err error) string {
	if err == nil {
		return "NilError"
	}
	return typeName(reflect.TypeOf(err))
}

// panicClass returns the type name of a recovered panic value.
func panicClass(recovered any) string {
	if recovered == nil {
		return "NilPanic"
	}
	return typeName(reflect.TypeOf(recovered))
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// safeErrorString calls err.Error() guarding against nil errors and
// Error implementations that panic.
func safeErrorString(err error) (description string) {
	if err == nil {
		return "<nil>"
	}
	defer func() {
		if recover() != nil {
			description = "<unprintable error>"
		}
	}()
	return err.Error()
}

// formatRecovered formats a recovered panic value as a string.
func formatRecovered(recovered any) (description string) {
	if recovered == nil {
		return "<nil>"
	}
	defer func() {
		if recover() != nil {
			description = "<unprintable panic value>"
		}
	}()
	if err, ok := recovered.(error); ok {
		return safeErrorString(err)
	}
	return fmt.Sprintf("%v", recovered)
}
