package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"

	"skilltest/internal/runner"
	"skilltest/internal/scheduler"
)

// ColorEnabled mirrors lipgloss's own renderer-profile detection the way
// internal/tui/theme gates capability, generalized to a plain stdout
// writer: color is on only when stdout is a real color-capable terminal and
// the caller has not forced it off with --no-color.
func ColorEnabled(forceOff bool) bool {
	if forceOff {
		return false
	}
	return lipgloss.NewRenderer(os.Stdout).ColorProfile() != termenv.Ascii
}

var (
	styleOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	styleFail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleDim  = lipgloss.NewStyle().Faint(true)
)

// Consumer renders the terminal transcript from the scheduler's event
// stream and, on every skill whose verdict is not Pass, writes a crash-safe
// error log next to the skill.
type Consumer struct {
	Fs         afero.Fs
	Out        io.Writer
	ErrOut     io.Writer
	Color      bool
	Verbose    bool
	NoErrorLog bool

	seq int64
}

// Run ranges over events until the channel closes, printing the transcript
// and writing per-skill error logs as it goes.
func (c *Consumer) Run(events <-chan scheduler.Event) {
	for e := range events {
		switch e.Kind {
		case scheduler.AllTestsStarted:
			fmt.Fprintln(c.Out, "running skill tests...")
		case scheduler.IterationStarted:
			if c.Verbose {
				fmt.Fprintf(c.Out, "  iteration %d started (%s)\n", e.Iteration, e.TestID)
			}
		case scheduler.AssertionResult:
			if c.Verbose && e.Assertion != nil {
				c.printAssertionRecord(*e.Assertion)
			}
		case scheduler.TestCompleted:
			if e.TestResult != nil {
				c.printTestLine(e.SkillName, *e.TestResult)
			}
		case scheduler.SkillCompleted:
			if e.SkillResult != nil && e.SkillResult.Verdict != scheduler.Pass {
				c.writeErrorLog(*e.SkillResult)
			}
		case scheduler.SkillError:
			if e.SkillResult != nil {
				fmt.Fprintf(c.Out, "%s :: execution aborted, partial results preserved\n", e.SkillName)
				c.writeErrorLog(*e.SkillResult)
			}
		}
	}
}

func (c *Consumer) printAssertionRecord(a runner.AssertionRecord) {
	mark := "ok"
	if !a.Passed {
		mark = "fail"
	}
	fmt.Fprintf(c.Out, "    [%s] %s (%s)\n", mark, a.ID, a.AssertionType)
}

func (c *Consumer) printTestLine(skillName string, tr scheduler.TestResult) {
	tag := "ok"
	style := styleOK
	switch tr.Summary.Verdict {
	case scheduler.Fail:
		tag = "FAILED"
		style = styleFail
	case scheduler.Warn:
		tag = "warn"
		style = styleWarn
	}

	label := fmt.Sprintf("%s :: %s", skillName, tr.ID)
	if c.Color {
		fmt.Fprintf(c.Out, "%s %s (%d/%d, %.1f%%)\n", style.Render(tag), label, tr.Summary.Passed, tr.Summary.Iterations, tr.Summary.PassRate)
	} else {
		fmt.Fprintf(c.Out, "%s %s (%d/%d, %.1f%%)\n", tag, label, tr.Summary.Passed, tr.Summary.Iterations, tr.Summary.PassRate)
	}

	for _, f := range tr.Summary.Failures {
		c.printFailureLine(f)
	}
}

func (c *Consumer) printFailureLine(assertionID string) {
	line := fmt.Sprintf("    - %s", assertionID)
	if c.Color {
		line = styleDim.Render(line)
	}
	fmt.Fprintln(c.Out, line)
}

func (c *Consumer) writeErrorLog(sk scheduler.SkillResult) {
	now := time.Now()
	seq := atomic.AddInt64(&c.seq, 1) % 10000
	name := fmt.Sprintf("%s-%04d.json", errorLogTimestamp(now), seq)
	dir := sk.SkillPath + "/.skill-test-logs"
	if err := c.Fs.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(c.ErrOut, "error-log: could not create %s: %v\n", dir, err)
		return
	}
	path := dir + "/" + name

	passedTests := 0
	for _, tr := range sk.Tests {
		if tr.Summary.Verdict == scheduler.Pass {
			passedTests++
		}
	}

	doc := toExecutionReport(isoMillis(now), scheduler.Report{
		Skills: []scheduler.SkillResult{sk},
		Summary: scheduler.Summary{
			TotalSkills:  1,
			PassedSkills: boolToCount(sk.Verdict == scheduler.Pass),
			FailedSkills: boolToCount(sk.Verdict != scheduler.Pass),
			TotalTests:   len(sk.Tests),
			PassedTests:  passedTests,
			FailedTests:  len(sk.Tests) - passedTests,
		},
	})

	f, err := c.Fs.Create(path)
	if err != nil {
		fmt.Fprintf(c.ErrOut, "error-log: could not create %s: %v\n", path, err)
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		fmt.Fprintf(c.ErrOut, "error-log: could not write %s: %v\n", path, err)
		return
	}

	if !c.NoErrorLog {
		fmt.Fprintf(c.ErrOut, "error log written: %s\n", path)
	}
}

// errorLogTimestamp renders YYYYMMDD-HHMMSS-mmm (dash-separated throughout,
// UTC) for the crash-safe error-log filename.
func errorLogTimestamp(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%s-%03d", u.Format("20060102-150405"), u.Nanosecond()/1_000_000)
}

func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
