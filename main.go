package main

import (
	"fmt"
	"os"

	"github.com/openfoodfacts/api-contract-tests/client"
	"github.com/openfoodfacts/api-contract-tests/framework"
	"github.com/openfoodfacts/api-contract-tests/logging"
	"github.com/openfoodfacts/api-contract-tests/testcases"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	debugLogger := logging.NullLogger()
	if params.debugAll {
		debugLogger = logging.NewDebugLogger()
	}

	// Setup-phase problems abort the whole run: nothing below can be
	// asserted against a deployment that never came up.
	if err := client.WaitForServer(params.baseURL, client.WaitOptions{Output: os.Stdout}); err != nil {
		fmt.Fprintf(os.Stderr, "Deployment error: %s\n", err)
		os.Exit(1)
	}
	if params.readyFile != "" {
		if err := client.WaitForFile(params.readyFile, client.WaitOptions{}); err != nil {
			fmt.Fprintf(os.Stderr, "Deployment error: %s\n", err)
			os.Exit(1)
		}
	}

	cases, err := testcases.LoadCases(params.casesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid case table: %s\n", err)
		os.Exit(1)
	}
	debugLogger.Printf("loaded %d cases from %s", len(cases), params.casesPath)

	fmt.Println()
	framework.PrintFilterDescription(params.filters)
	fmt.Println("Running test suite")

	runner := &testcases.Runner{
		Client:        client.NewTestClient(),
		ResultsDir:    params.resultsDir,
		UpdateResults: params.update,
	}
	testLogger := framework.ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := framework.Run(params.filters.AsFilter, testLogger, func(c *framework.Context) {
		runner.Run(c, cases)
	})

	fmt.Println()
	framework.PrintResults(results)
	if !results.OK() {
		fmt.Printf("\nTo re-run just the failed cases:\n  %s\n", rerunCommand(params, results))
		os.Exit(1)
	}
}
