package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/ehandlers/internal/ehandlers"
	apperrors "github.com/agbru/ehandlers/internal/errors"
	"github.com/agbru/ehandlers/internal/logging"
)

const tracerName = "github.com/agbru/ehandlers/internal/orchestration"

// Scenario is one self-checking use of the handlers. Run returns nil when
// the handlers behaved as the scenario expects.
type Scenario struct {
	Name        string
	Handler     string
	Expectation string
	Run         func(ctx context.Context, h *Harness) error
}

// ExecuteScenarios runs every scenario concurrently and returns their
// results in input order.
//
// Each scenario runs inside its own span and is itself guarded by
// ehandlers.InterceptorCtx: a misbehaving scenario, panics included, is
// reported once on sink at warning level and recorded as a failed result.
// Entries logged by the guard are not counted in ScenarioResult.Entries.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - scenarios: The scenarios to run.
//   - sink: The sink every handler writes to.
//   - opts: Options shared by every handler call, such as annotation or metrics.
//
// Returns:
//   - []ScenarioResult: One result per scenario.
func ExecuteScenarios(ctx context.Context, scenarios []Scenario, sink logging.Sink, opts ...ehandlers.Option) []ScenarioResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]ScenarioResult, len(scenarios))
	tracer := otel.Tracer(tracerName)

	for i, sc := range scenarios {
		g.Go(func() error {
			ctx, span := tracer.Start(ctx, sc.Name)
			defer span.End()

			h := newHarness(sink, opts)
			guarded := ehandlers.InterceptorCtx(func(ctx context.Context, h *Harness) (struct{}, error) {
				if sc.Run == nil {
					return struct{}{}, apperrors.NewConfigError("scenario %q has no Run function", sc.Name)
				}
				return struct{}{}, sc.Run(ctx, h)
			},
				ehandlers.WithSink(sink),
				ehandlers.WithSource(sc.Name),
				ehandlers.WithLevel(logging.WarnLevel),
				ehandlers.WithAnnotation("unexpected behavior"),
			)

			startTime := time.Now()
			_, err := guarded(ctx, h)
			results[i] = ScenarioResult{
				Name:        sc.Name,
				Handler:     sc.Handler,
				Expectation: sc.Expectation,
				Entries:     h.Entries(),
				Duration:    time.Since(startTime),
				Err:         err,
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// AnalyzeScenarioResults presents the results and derives the exit code.
//
// Parameters:
//   - ctx: The context the scenarios ran under; its error decides between
//     timeout and cancellation exit codes.
//   - results: The slice of scenario results to analyze.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeScenarioResults(ctx context.Context, results []ScenarioResult, presenter ResultPresenter, out io.Writer) int {
	presenter.PresentScenarioTable(results, out)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if err := ctx.Err(); apperrors.IsContextError(err) {
		if errors.Is(err, context.DeadlineExceeded) {
			fmt.Fprintf(out, "\nGlobal Status: Timeout. The scenario run did not finish in time.\n")
			return apperrors.ExitErrorTimeout
		}
		fmt.Fprintf(out, "\nGlobal Status: Canceled.\n")
		return apperrors.ExitErrorCanceled
	}
	if failed > 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. %d of %d scenarios misbehaved.\n", failed, len(results))
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All %d scenarios behaved as expected.\n", len(results))
	return apperrors.ExitSuccess
}
