package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintSummary writes the failing tests followed by the overall verdict:
//
//	Failing tests:
//	- widgets/checkbox
//
//	Tests Result: Errors
//	(1/2 tests passed)
func PrintSummary(w io.Writer, suite SuiteResult, color bool) {
	if !suite.Passed() {
		fmt.Fprintf(w, "\nFailing tests:\n")
		for _, name := range suite.FailedNames() {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}

	verdict, c := "OK", text.FgHiGreen
	if !suite.Passed() {
		verdict, c = "Errors", text.FgHiRed
	}
	lines := fmt.Sprintf("\nTests Result: %s\n(%d/%d tests passed)\n", verdict, suite.Succeeded, suite.Tested)
	if color {
		lines = c.Sprint(lines)
	}
	fmt.Fprint(w, lines)
}
