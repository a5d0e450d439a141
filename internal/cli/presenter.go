package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/agbru/ehandlers/internal/orchestration"
	"github.com/agbru/ehandlers/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It renders one table row per scenario.
type CLIResultPresenter struct{}

// Verify interface compliance.
var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentScenarioTable displays the scenario summary table with the handler
// exercised, the expected behavior, the number of entries logged, the
// duration and the status.
func (CLIResultPresenter) PresentScenarioTable(results []orchestration.ScenarioResult, out io.Writer) {
	styles := ui.GetReportStyles()
	fmt.Fprintf(out, "\n%s\n", styles.Title.Render("--- Scenario Summary ---"))

	table := tablewriter.NewWriter(out)
	table.Header("Scenario", "Handler", "Expectation", "Logs", "Duration", "Status")
	for _, res := range results {
		_ = table.Append(
			res.Name,
			res.Handler,
			styles.Dim.Render(res.Expectation),
			strconv.Itoa(res.Entries),
			FormatDuration(res.Duration),
			FormatStatus(res.Err),
		)
	}
	_ = table.Render()
}
