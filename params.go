package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/openfoodfacts/api-contract-tests/client"
	"github.com/openfoodfacts/api-contract-tests/framework"
)

type commandParams struct {
	baseURL    string
	casesPath  string
	resultsDir string
	readyFile  string
	update     bool
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.baseURL, "url", client.BaseURL(""), "base URL of the test deployment")
	fs.StringVar(&c.casesPath, "cases", "", "path to the YAML test case table")
	fs.StringVar(&c.resultsDir, "results", "expected_test_results", "directory holding expected result files")
	fs.StringVar(&c.readyFile, "ready-file", "", "static asset file that must exist before the run starts")
	fs.BoolVar(&c.update, "update", false, "rewrite expected result files from the actual responses")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select cases to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select cases not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed cases")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all cases")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.casesPath == "" {
		fmt.Fprintln(os.Stderr, "-cases is required")
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand builds a command line that re-executes only the failed cases.
func rerunCommand(params commandParams, results framework.Results) string {
	var names []string
	for _, f := range results.Failures {
		names = append(names, f.TestID.String())
	}
	var b commandBuilder
	b.add(os.Args[0], "-url", params.baseURL, "-cases", params.casesPath, "-results", params.resultsDir)
	b.add("-run", "^("+strings.Join(names, "|")+")$")
	return b.String()
}
