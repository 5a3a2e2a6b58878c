package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"swell/internal/asyncrt"
	"swell/internal/diag"
	"swell/internal/observ"
	"swell/internal/trace"
)

// watchdogDelayMs is the watchdog's sleep before it checks on the batch.
// On the virtual clock it fires only once the scenario has no runnable
// work, so a warning from it means items were genuinely left behind.
const watchdogDelayMs = 250

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted task scenario with live diagnostics",
	Long: `Spawns a producer, a pool of workers draining a rendezvous channel, and a
watchdog timer on one cooperative executor. Workers report slow items through
the warning sink, so the printed backtraces show task frames stitched to the
frames of the supervisor suspended above them.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Int("tasks", 3, "worker tasks to spawn")
	demoCmd.Flags().Int("items", 8, "items produced per worker")
	demoCmd.Flags().Int("warn-every", 3, "warn on every Nth item (0 disables)")
	demoCmd.Flags().String("level", "", "backtrace detail (off|addrs|symbols|debugger)")
	demoCmd.Flags().Bool("strict", false, "terminate on the first warning")
	demoCmd.Flags().Bool("deadlock", false, "end with two tasks joined on each other")
}

func runDemo(cmd *cobra.Command, args []string) error {
	workers, err := cmd.Flags().GetInt("tasks")
	if err != nil {
		return fmt.Errorf("failed to get tasks flag: %w", err)
	}
	items, err := cmd.Flags().GetInt("items")
	if err != nil {
		return fmt.Errorf("failed to get items flag: %w", err)
	}
	warnEvery, err := cmd.Flags().GetInt("warn-every")
	if err != nil {
		return fmt.Errorf("failed to get warn-every flag: %w", err)
	}
	levelStr, err := cmd.Flags().GetString("level")
	if err != nil {
		return fmt.Errorf("failed to get level flag: %w", err)
	}
	strictFlag, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	withDeadlock, err := cmd.Flags().GetBool("deadlock")
	if err != nil {
		return fmt.Errorf("failed to get deadlock flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	if workers < 1 {
		return fmt.Errorf("need at least one worker task, got %d", workers)
	}
	if items < 1 {
		return fmt.Errorf("need at least one item per worker, got %d", items)
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

	heartbeat, cleanupTrace, err := setupTracing(cmd, fileCfg.Trace)
	if err != nil {
		return err
	}
	defer cleanupTrace()
	tracer := trace.FromContext(cmd.Context())

	timer := observ.NewTimer()
	endSetup := timer.Begin("setup")

	dcfg, err := fileCfg.Diagnostics.DiagConfig()
	if err != nil {
		return err
	}
	if levelStr != "" {
		dcfg.Level, err = diag.ParseLevel(levelStr)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("strict") {
		dcfg.Strict = strictFlag
	}
	dcfg.Output = cmd.ErrOrStderr()

	// The observer bridges admitted warnings into the trace stream; the
	// sink itself never logs through trace.
	var ex *asyncrt.Executor
	var warnings int
	dcfg.Observer = func(msg string) {
		warnings++
		var task uint64
		if ex != nil {
			task = uint64(ex.Current())
		}
		trace.Point(tracer, trace.ScopeDiag, "warn.admitted", msg, task)
	}

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

	execCfg, err := fileCfg.Runtime.ExecutorConfig()
	if err != nil {
		return err
	}
	ex = asyncrt.NewExecutor(execCfg)
	ex.SetTracer(tracer)
	ex.SetHeartbeat(heartbeat)
	ex.AttachDiagnostics(dc)

	stats := buildDemoScenario(ex, dc, demoParams{
		workers:   workers,
		items:     items,
		warnEvery: warnEvery,
		deadlock:  withDeadlock,
	})
	endSetup("")

	endRun := timer.Begin("run")
	runErr := ex.Run()
	endRun(fmt.Sprintf("%d warnings", warnings))

	if !quiet {
		printDemoReport(cmd.OutOrStdout(), ex, stats, warnings)
	}
	if err := printTimings(cmd, timer); err != nil {
		return err
	}

	if runErr != nil {
		dumpRingOnError(cmd, tracer)
		return runErr
	}
	return nil
}

type demoParams struct {
	workers   int
	items     int
	warnEvery int
	deadlock  bool
}

type demoStats struct {
	produced  int
	processed int
	perWorker []int
}

// buildDemoScenario installs a supervisor task that owns the whole run: it
// spawns the producer, the worker pool, and the watchdog on its first poll
// and then joins them in order, so warnings raised inside any of them are
// stitched to the supervisor's suspended frames.
func buildDemoScenario(ex *asyncrt.Executor, dc *diag.Context, p demoParams) *demoStats {
	stats := &demoStats{perWorker: make([]int, p.workers)}
	total := p.workers * p.items
	ch := ex.ChanNew(0)

	next := 1
	warned := false
	producer := func(tc *asyncrt.TaskCtx) asyncrt.PollOutcome {
		switch kind, _ := tc.Resume(); kind {
		case asyncrt.ResumeChanSendAck:
			// The parked send was handed to a receiver.
			next++
		case asyncrt.ResumeChanSendClosed:
			return asyncrt.Done(next - 1)
		}
		for next <= total {
			if !warned && next > total/2 {
				warned = true
				dc.Warnf("producer: %d of %d items queued, consumers are lagging", next-1, total)
			}
			if !tc.SendOrPark(ch, next) {
				if tc.ChanIsClosed(ch) {
					return asyncrt.Done(next - 1)
				}
				return tc.ParkSend(ch)
			}
			stats.produced = next
			next++
		}
		tc.ChanClose(ch)
		return asyncrt.Done(total)
	}

	mkWorker := func(w int) asyncrt.TaskFn {
		handle := func(item int) {
			stats.processed++
			stats.perWorker[w]++
			if p.warnEvery > 0 && item%p.warnEvery == 0 {
				dc.Warnf("worker %d: item %d missed its deadline", w, item)
			}
		}
		return func(tc *asyncrt.TaskCtx) asyncrt.PollOutcome {
			if kind, v := tc.Resume(); kind == asyncrt.ResumeChanRecvValue {
				handle(v.(int))
			}
			for {
				v, ok := tc.RecvOrPark(ch)
				if !ok {
					if tc.ChanIsClosed(ch) {
						return asyncrt.Done(stats.perWorker[w])
					}
					return tc.ParkRecv(ch)
				}
				handle(v.(int))
			}
		}
	}

	watchdog := func(tc *asyncrt.TaskCtx) asyncrt.PollOutcome {
		if kind, _ := tc.Resume(); kind == asyncrt.ResumeTimer {
			if stats.processed < total {
				dc.Warnf("watchdog: %d of %d items still pending at t=%dms",
					total-stats.processed, total, tc.NowMs())
			}
			return asyncrt.Done(nil)
		}
		return tc.SleepMs(watchdogDelayMs)
	}

	spawned := false
	var joinList []asyncrt.TaskID
	joinIdx := 0
	supervisor := func(tc *asyncrt.TaskCtx) asyncrt.PollOutcome {
		if !spawned {
			spawned = true
			joinList = append(joinList, tc.Spawn(producer))
			for w := 0; w < p.workers; w++ {
				joinList = append(joinList, tc.Spawn(mkWorker(w)))
			}
			joinList = append(joinList, tc.Spawn(watchdog))
			if p.deadlock {
				spawnJoinCycle(tc)
			}
		}
		for joinIdx < len(joinList) {
			if !tc.TaskDone(joinList[joinIdx]) {
				return tc.ParkJoin(joinList[joinIdx])
			}
			joinIdx++
		}
		return asyncrt.Done(nil)
	}

	ex.Spawn(supervisor)
	return stats
}

// spawnJoinCycle parks two fresh tasks on each other's completion. Neither
// can ever run again, so once the rest of the scenario drains the scheduler
// reports a cooperative deadlock and Run returns ErrDeadlock.
func spawnJoinCycle(tc *asyncrt.TaskCtx) {
	var first, second asyncrt.TaskID
	first = tc.Spawn(func(tc *asyncrt.TaskCtx) asyncrt.PollOutcome {
		return tc.ParkJoin(second)
	})
	second = tc.Spawn(func(tc *asyncrt.TaskCtx) asyncrt.PollOutcome {
		return tc.ParkJoin(first)
	})
}

func printDemoReport(out io.Writer, ex *asyncrt.Executor, stats *demoStats, warnings int) {
	nowMs := ex.NowMs()
	var done, cancelled int
	for _, t := range ex.DrainTasks() {
		if t.Status != asyncrt.TaskDone {
			continue
		}
		switch t.ResultKind {
		case asyncrt.TaskResultSuccess:
			done++
		case asyncrt.TaskResultCancelled:
			cancelled++
		}
	}

	fmt.Fprintf(out, "produced  %d items\n", stats.produced)
	fmt.Fprintf(out, "processed %d items\n", stats.processed)
	fmt.Fprintf(out, "warnings  %d admitted\n", warnings)
	fmt.Fprintf(out, "clock     %d ms\n", nowMs)
	fmt.Fprintf(out, "tasks     %d completed, %d cancelled\n", done, cancelled)
}
