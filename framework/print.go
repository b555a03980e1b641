package framework

import (
	"fmt"

	"github.com/fatih/color"
)

var passedColor = color.New(color.FgGreen, color.Bold)

// PrintResults writes a summary of the run to stdout.
func PrintResults(results Results) {
	fmt.Printf("Ran %d test cases\n", len(results.Tests))
	if results.OK() {
		passedColor.Println("All tests passed")
		return
	}
	failedColor.Printf("%d tests failed:\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Printf("  [%s]\n", f.TestID)
		for _, err := range f.Errors {
			fmt.Printf("    %s\n", err)
		}
	}
}

// PrintFilterDescription explains up front which tests will be skipped
// because of -run/-skip parameters.
func PrintFilterDescription(filters RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Println("Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Printf("  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Printf("  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Println()
}
