package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

const icePostlude = `
This error was not supposed to happen: it is a bug in the compiler.
Please open an issue on GitHub.`

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Internal Compiler Error ")
	ErrorColorFG.Println(message)
	InfoColorFG.Println(icePostlude)
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(message)
}

// displayModuleMessage displays an error loading a module.
func displayModuleMessage(modName, message string) {
	ErrorStyleBG.Print("Module Error")
	ErrorColorFG.Println(fmt.Sprintf(" [%s] %s", modName, message))
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	ErrorStyleBG.Print("Error")
	ErrorColorFG.Println(fmt.Sprintf(" %s: %s", reprPath, err))
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. if we want to display an error,
// the label is "error".
func displayCompileMessage(label, absPath, reprPath string, span *TextSpan, message string) {
	displayBanner(label, reprPath)
	fmt.Println(message)

	if span != nil {
		displaySourceText(absPath, span)
	}
}

// displayBanner displays the banner on top of all compilation messages.
func displayBanner(label, reprPath string) {
	fmt.Print("\n\n-- ")

	var labelLen int
	if label == "error" {
		ErrorStyleBG.Print("Type Error")
		labelLen = len("Type Error")
	} else {
		WarnStyleBG.Print("Type Warning")
		labelLen = len("Type Warning")
	}

	fmt.Print(" ")

	fileName := filepath.Base(reprPath)
	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - labelLen - 1
	if dashCount < 3 {
		dashCount = 3
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(absPath string, span *TextSpan) {
	fmt.Println()

	// Open the file so we can read the desired source text.
	file, err := os.Open(absPath)
	if err != nil {
		// The file may be gone by the time the message prints; the message
		// itself is still useful without the excerpt.
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Calculate the maximum line number length and use it to build the format
	// string used to print line numbers neatly.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		// Print the line number, separator bar, and trimmed source line.
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// For any line which is not the starting line, underlining continues
		// from the previous line and so starts at the left margin.
		var caretPrefixCount int
		if i == 0 {
			caretPrefixCount = span.StartCol - minIndent
		}

		// For all lines except the last, underlining spans to the end of the
		// line and over onto the next one.
		var caretSuffixCount int
		if i == len(lines)-1 {
			caretSuffixCount = len(line) - span.EndCol
		}

		fmt.Print(strings.Repeat(" ", caretPrefixCount))

		caretCount := len(line) - caretSuffixCount - caretPrefixCount - minIndent
		if caretCount < 1 {
			caretCount = 1
		}

		ErrorColorFG.Println(strings.Repeat("^", caretCount))
	}

	fmt.Println()
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays all the compiler information before starting
// compilation.
func displayCompileHeader(target string, caching bool) {
	fmt.Print("velac ")
	InfoColorFG.Print("v" + VelaVersion)
	fmt.Print(" -- target: ")
	InfoColorFG.Println(target)

	if caching {
		fmt.Println("compiling using cache")
	}
}

// VelaVersion is the current version string of the Vela compiler.
const VelaVersion = "0.3.1"

// phaseSpinner stores the current phase spinner.
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Typechecking")

// displayBeginPhase displays the beginning of a compilation phase.
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase.
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2))
		}

		phaseSpinner = nil
	}
}

// displayCompilationFinished displays a compilation finished message.
func displayCompilationFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}
}
