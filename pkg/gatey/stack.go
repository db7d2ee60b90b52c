// stack.go captures call stacks as serializable traceback frames.

package gatey

import (
	"os"
	"runtime"
	"strings"
)

const (
	// maxStackFrames bounds the traceback length.
	maxStackFrames = 50

	// contextLineCount is how many source lines are captured before and
	// after a frame line.
	contextLineCount = 5
)

// captureStack walks the calling goroutine's stack starting at skip
// frames above the caller and returns traceback frames, innermost first.
// SDK-internal frames are filtered out so tracebacks start at the host
// application's capture site.
func captureStack(skip int, withContext bool) []Frame {
	frames := make([]Frame, 0, 8)
	for i := skip + 1; len(frames) < maxStackFrames; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		full := fullFunctionName(pc)
		if isInternalFrame(full, file) {
			continue
		}
		frame := Frame{
			Filename: file,
			Function: trimFunctionName(full),
			Line:     line,
		}
		if withContext {
			frame.Context = contextLines(file, line)
		}
		frames = append(frames, frame)
	}
	return frames
}

// fullFunctionName resolves a program counter to the fully qualified
// function name, import path included.
func fullFunctionName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	return fn.Name()
}

// trimFunctionName shortens a fully qualified name to "pkg.Func".
func trimFunctionName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// isInternalFrame reports whether a frame belongs to the SDK itself or
// to the runtime panic machinery. SDK test files are not internal so
// the package's own tests see their frames.
func isInternalFrame(function, file string) bool {
	if strings.Contains(function, "florgon/gatey-sdk-go/") && !strings.HasSuffix(file, "_test.go") {
		return true
	}
	return function == "runtime.gopanic" || function == "runtime.goexit"
}

// contextLines reads source lines around the given line of a file.
// Returns nil when the file cannot be read or the line is out of range;
// traceback capture is best-effort and never fails.
func contextLines(filename string, line int) *CodeContext {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	if line < 1 || line > len(lines) {
		return nil
	}

	start := line - contextLineCount - 1
	if start < 0 {
		start = 0
	}
	end := line + contextLineCount
	if end > len(lines) {
		end = len(lines)
	}

	ctx := &CodeContext{
		Pre:    trimLines(lines[start : line-1]),
		Target: strings.TrimRight(lines[line-1], "\r"),
		Post:   trimLines(lines[line:end]),
	}
	return ctx
}

func trimLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimRight(l, "\r")
	}
	return out
}
