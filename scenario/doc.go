// Package scenario runs named checks of the handle contract.
//
// Each Scenario builds handles over instrumented Probe pointees inside a
// fresh Env. After the scenario body returns, Run audits the env: a failed
// expectation, a panic, a group left alive, or a probe dropped twice all
// fail the scenario.
//
//	for _, r := range scenario.RunAll("") {
//	    fmt.Println(scenario.FormatResult(r))
//	}
package scenario
