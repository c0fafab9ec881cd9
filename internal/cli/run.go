package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/afero"

	"skilltest/internal/agent"
	"skilltest/internal/applog"
	"skilltest/internal/assertionx"
	"skilltest/internal/config"
	"skilltest/internal/report"
	"skilltest/internal/scheduler"
	"skilltest/internal/skill"
	"skilltest/internal/testfile"
)

// Run resolves skill paths, loads configuration and test files, schedules
// every test case, renders the transcript (or JSON), and returns the
// process exit code. It never calls os.Exit; callers translate the return
// value themselves, which keeps this function testable end to end.
func Run(fs afero.Fs, opts Options, stdout, stderr io.Writer) int {
	applog.Initialize(opts.Verbose)

	if err := opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "skilltest: %v\n", err)
		return ExitConfigError
	}

	dirs, err := skill.Resolve(fs, opts.Paths)
	if err != nil {
		fmt.Fprintf(stderr, "skilltest: %v\n", err)
		return ExitExecutionError
	}

	var units []scheduler.Unit
	for _, dir := range dirs {
		cfg, err := config.LoadAndOverride(fs, dir.Path, opts.Overrides)
		if err != nil {
			fmt.Fprintf(stderr, "skilltest: %v\n", err)
			return ExitConfigError
		}

		paths, err := testfile.Discover(fs, dir.Path, cfg.TestPatterns, cfg.ExcludePatterns)
		if err != nil {
			fmt.Fprintf(stderr, "skilltest: %v\n", err)
			return ExitExecutionError
		}

		var cases []testfile.TestCase
		for _, p := range paths {
			tc, err := testfile.Load(fs, dir.Path, p)
			if err != nil {
				fmt.Fprintf(stderr, "skilltest: %v\n", err)
				return ExitExecutionError
			}
			cases = append(cases, tc...)
		}

		units = append(units, scheduler.Flatten(dir.Name, dir.Path, cfg, cases, opts.Filter)...)
	}

	concurrency := runtime.NumCPU()
	if opts.Parallel != nil {
		concurrency = *opts.Parallel
		if concurrency <= 0 {
			concurrency = 1
		}
	}

	invoker := agent.NewInvoker()
	judgeFor := func(u scheduler.Unit) assertionx.AgentCaller {
		return &agent.Judge{Invoker: invoker, SkillName: u.SkillName, SkillPath: u.SkillPath}
	}

	bus := scheduler.NewEventBus()

	reportOut, reportErr := stdout, stderr
	if opts.Format == FormatJSON {
		reportOut, reportErr = io.Discard, io.Discard
	}
	consumer := &report.Consumer{
		Fs:         fs,
		Out:        reportOut,
		ErrOut:     reportErr,
		Color:      report.ColorEnabled(opts.NoColor),
		Verbose:    opts.Verbose,
		NoErrorLog: opts.NoErrorLog,
	}

	// SIGINT aborts the run cooperatively rather than killing the process
	// outright: cancelling the context kills any agent or exec child still
	// running, so in-flight iterations end as failed iterations, queued
	// units are dropped, and every skill that didn't finish is reported as
	// a whole-skill failure with whatever test results it did collect.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resultCh := make(chan scheduler.Report, 1)
	go func() {
		resultCh <- scheduler.Run(ctx, units, invoker, judgeFor, concurrency, bus)
	}()
	consumer.Run(bus.Events())
	final := <-resultCh

	if opts.Format == FormatJSON {
		if err := report.WriteJSON(stdout, final, time.Now()); err != nil {
			fmt.Fprintf(stderr, "skilltest: %v\n", err)
			return ExitExecutionError
		}
	} else {
		fmt.Fprintf(stdout, "\n%d skills, %d tests: %d passed, %d failed\n",
			final.Summary.TotalSkills, final.Summary.TotalTests, final.Summary.PassedTests, final.Summary.FailedTests)
	}

	if final.Summary.FailedSkills > 0 {
		return ExitThresholdFailed
	}
	return ExitSuccess
}
