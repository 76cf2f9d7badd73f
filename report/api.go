package report

import (
	"fmt"
	"os"
)

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	return lce.Message
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result from a bug or unexpected condition occurring within the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: missing VELA_PATH,
// a malformed module file, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. erroneous input code.
// The absPath is the absolute path to the erroneous source file.  The reprPath
// is the representative path to the erroneous source file: it is the file's
// ReprPath field.  The span may be nil in which case no position information
// will be printed.
func ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage("error", absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportCompileWarning reports a compilation warning.  Warnings are buffered
// and displayed all at once when compilation finishes.  The arguments are of
// the same form as those to ReportCompileError.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	msg := fmt.Sprintf(message, args...)
	rep.warnings = append(rep.warnings, func() {
		displayCompileMessage("warning", absPath, reprPath, span, msg)
	})
}

// ReportModuleError reports an error loading a module.
func ReportModuleError(modName string, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayModuleMessage(modName, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// -----------------------------------------------------------------------------

// CatchErrors catches any errors thrown by a `panic` during a stage of
// compilation.  In effect, this handler determines when any errors
// "unrecoverable" within a given subsection of the compiler should stop
// bubbling.
// NB: This function must ALWAYS be deferred.
func CatchErrors(absPath, reprPath string) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			ReportCompileError(absPath, reprPath, cerr.Span, "%s", cerr.Message)
		} else if serr, ok := x.(error); ok {
			ReportStdError(reprPath, serr)
		} else {
			ReportFatal("%s", x)
		}
	}
}

// -----------------------------------------------------------------------------

// BeginPhase displays the beginning of a compilation phase if the log level is
// verbose.
func BeginPhase(phase string) {
	if rep.logLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// EndPhase displays the end of the current compilation phase.
func EndPhase(success bool) {
	if rep.logLevel == LogLevelVerbose {
		displayEndPhase(success)
	}
}

// ReportCompileHeader reports the pre-compilation header: information about
// the compiler's current configuration (version, target, etc.).
func ReportCompileHeader(target string, caching bool) {
	if rep.logLevel == LogLevelVerbose {
		displayCompileHeader(target, caching)
	}
}

// ReportCompilationFinished displays all buffered warnings followed by the
// closing message for compilation.
func ReportCompilationFinished() {
	if rep.logLevel >= LogLevelWarn {
		for _, warning := range rep.warnings {
			warning()
		}
	}

	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(rep.errorCount == 0, rep.errorCount, len(rep.warnings))
	}
}
