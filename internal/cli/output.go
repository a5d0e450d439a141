// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayMetrics], [DisplayExecutionConfig].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatStatus], [FormatDuration].

package cli

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/ehandlers/internal/config"
	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/format"
	"github.com/agbru/ehandlers/internal/ui"
)

// DisplayExecutionConfig displays the logging setup the scenarios run with.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func DisplayExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Logging through %s%s%s at level %s%s%s as component %s%s%s, timeout %s%s%s.\n",
		ui.ColorCyan(), cfg.LogBackend, ui.ColorReset(),
		ui.ColorCyan(), cfg.Level(), ui.ColorReset(),
		ui.ColorCyan(), cfg.Component, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if cfg.Annotation != "" || cfg.Traceback {
		fmt.Fprintf(out, "Handler options: annotation=%q traceback=%t.\n", cfg.Annotation, cfg.Traceback)
	}
}

// FormatStatus renders a scenario outcome for the report.
func FormatStatus(err error) string {
	styles := ui.GetReportStyles()
	if err != nil {
		return styles.Fail.Render("FAIL") + " " + err.Error()
	}
	return styles.Pass.Render("PASS")
}

// FormatDuration formats a scenario duration, showing "< 1µs" for durations
// too short to measure.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// DisplayMetrics writes every metric family gathered from g in the
// Prometheus text exposition format.
//
// Parameters:
//   - out: The output writer.
//   - g: The gatherer, usually the registry the handler metrics live in.
//
// Returns:
//   - error: An error if gathering or encoding fails.
func DisplayMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return apperrors.WrapError(err, "failed to gather metrics")
	}
	fmt.Fprintf(out, "\n--- Handler Metrics ---\n")
	encoder := expfmt.NewEncoder(out, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return apperrors.WrapError(err, "failed to encode metric %s", mf.GetName())
		}
	}
	return nil
}
