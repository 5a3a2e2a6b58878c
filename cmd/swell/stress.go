package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"swell/internal/diag"
	"swell/internal/observ"
	"swell/internal/trace"
	"swell/internal/ui"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Flood the warning sink to exercise the rate limiter",
	Long: `Emits a burst of warnings per synthetic second against a small rate window
and reports how many the limiter admitted and suppressed. Warning text is
discarded; the counters and the journal tell the story. Strict mode is
ignored here because the first warning would end the run.`,
	RunE: runStress,
}

func init() {
	stressCmd.Flags().Uint64("count", 5000, "warnings to emit")
	stressCmd.Flags().Uint64("burst", 100, "warnings per synthetic second")
	stressCmd.Flags().Int("window", 5, "rate window in synthetic seconds")
	stressCmd.Flags().Int("ceiling", 200, "warnings admitted per window")
	stressCmd.Flags().String("level", "addrs", "backtrace detail while flooding (off|addrs|symbols)")
	stressCmd.Flags().String("ui", "auto", "dashboard (auto|on|off)")
}

type stressTally struct {
	emitted  uint64
	admitted uint64
	windows  uint64
	lastMsg  string
}

func (t *stressTally) snapshot() ui.Event {
	return ui.Event{
		Emitted:    t.emitted,
		Admitted:   t.admitted,
		Suppressed: t.emitted - t.admitted,
		Windows:    t.windows,
		Message:    t.lastMsg,
	}
}

func runStress(cmd *cobra.Command, args []string) error {
	count, err := cmd.Flags().GetUint64("count")
	if err != nil {
		return fmt.Errorf("failed to get count flag: %w", err)
	}
	burst, err := cmd.Flags().GetUint64("burst")
	if err != nil {
		return fmt.Errorf("failed to get burst flag: %w", err)
	}
	window, err := cmd.Flags().GetInt("window")
	if err != nil {
		return fmt.Errorf("failed to get window flag: %w", err)
	}
	ceiling, err := cmd.Flags().GetInt("ceiling")
	if err != nil {
		return fmt.Errorf("failed to get ceiling flag: %w", err)
	}
	levelStr, err := cmd.Flags().GetString("level")
	if err != nil {
		return fmt.Errorf("failed to get level flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	if count == 0 {
		return fmt.Errorf("nothing to emit, count is zero")
	}
	if burst == 0 {
		return fmt.Errorf("burst must be positive")
	}
	if window < 1 {
		return fmt.Errorf("window must be at least one second, got %d", window)
	}
	if ceiling < 1 {
		return fmt.Errorf("ceiling must be positive, got %d", ceiling)
	}

	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	level, err := diag.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	if level == diag.LevelDebugger {
		return fmt.Errorf("debugger level is not supported under stress")
	}

	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProf()

	_, cleanupTrace, err := setupTracing(cmd, fileCfg.Trace)
	if err != nil {
		return err
	}
	defer cleanupTrace()
	tracer := trace.FromContext(cmd.Context())

	timer := observ.NewTimer()
	tally := &stressTally{}
	winSec := int64(window)

	scenario := func(emit func(ui.Event)) error {
		dcfg, err := fileCfg.Diagnostics.DiagConfig()
		if err != nil {
			return err
		}
		dcfg.Level = level
		dcfg.Strict = false
		dcfg.Output = io.Discard
		dcfg.Window = time.Duration(window) * time.Second
		dcfg.Ceiling = ceiling
		dcfg.Observer = func(msg string) {
			tally.admitted++
			tally.lastMsg = msg
		}

		// The flood drives its own clock: one synthetic second per burst,
		// so window rollovers happen at exact burst boundaries.
		sec := int64(0)
		dcfg.Now = func() time.Time { return time.Unix(sec, 0) }

		if path := fileCfg.Diagnostics.Journal; path != "" {
			j, err := diag.OpenJournal(path)
			if err != nil {
				return err
			}
			defer func() {
				if err := j.Close(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "journal: close error: %v\n", err)
				}
			}()
			dcfg.Journal = j
		}

		dc := diag.New(dcfg)

		endFlood := timer.Begin("flood")
		span := trace.Begin(tracer, trace.ScopeRuntime, "stress.flood", 0, 0)
		for i := uint64(0); i < count; i++ {
			if i > 0 && i%burst == 0 {
				sec++
				if sec%winSec == 0 {
					trace.Point(tracer, trace.ScopeDiag, "window.roll",
						fmt.Sprintf("admitted=%d", tally.admitted), 0)
				}
			}
			dc.Warnf("synthetic stall %d on shard %d", i, i%7)
			tally.emitted = i + 1
			tally.windows = uint64(sec/winSec) + 1
			if (i+1)%burst == 0 || i+1 == count {
				emit(tally.snapshot())
			}
		}
		span.End(fmt.Sprintf("admitted=%d suppressed=%d",
			tally.admitted, tally.emitted-tally.admitted))
		endFlood(fmt.Sprintf("%d warnings", count))
		return nil
	}

	if shouldUseTUI(mode) {
		err = runWithDashboard("swell stress", count, scenario)
	} else {
		err = scenario(func(ui.Event) {})
	}
	if err != nil {
		return err
	}

	if !quiet {
		printStressSummary(cmd.OutOrStdout(), tally)
	}
	return printTimings(cmd, timer)
}

func printStressSummary(out io.Writer, t *stressTally) {
	fmt.Fprintf(out, "emitted    %d\n", t.emitted)
	fmt.Fprintf(out, "admitted   %d\n", t.admitted)
	fmt.Fprintf(out, "suppressed %d\n", t.emitted-t.admitted)
	fmt.Fprintf(out, "windows    %d\n", t.windows)
}
