package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"skilltest/internal/cli"
	"skilltest/internal/config"
	"skilltest/internal/version"
)

var (
	hookFlag       string
	hookPathFlag   string
	modelFlag      string
	timeoutFlag    int
	iterationsFlag int
	thresholdFlag  float64
	strictFlag     bool
	verboseFlag    bool
	noColorFlag    bool
	formatFlag     string
	filterFlag     string
	parallelFlag   int
	noErrorLogFlag bool

	rootCmd = &cobra.Command{
		Use:     "skilltest",
		Aliases: []string{"stk"},
		Short:   "Run declarative test suites against AI-agent skills",
		Version: version.GetVersionString(),
	}

	runCmd = &cobra.Command{
		Use:   "run [paths...]",
		Short: "Discover skills, run their test cases, and report the results",
		Long: `run resolves one or more skill directories (or a parent directory
containing several), loads each skill's skill-test.config.yaml, discovers its
test files, invokes the agent once per test iteration, evaluates assertions,
and prints a transcript or a JSON execution report.`,
		RunE: runRun,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the skilltest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersionString())
			return nil
		},
	}
)

func init() {
	runCmd.Flags().IntVar(&iterationsFlag, "iterations", 0, "override the configured iteration count; tests that set their own iterations keep them (0 = use config)")
	runCmd.Flags().StringVar(&hookFlag, "hook", "", "override the hook mode: none, simple, forced, custom")
	runCmd.Flags().StringVar(&hookPathFlag, "hook-path", "", "path to a custom hook script (requires --hook custom)")
	runCmd.Flags().StringVar(&modelFlag, "model", "", "override the model passed to the agent")
	runCmd.Flags().IntVar(&timeoutFlag, "timeout", 0, "override the per-iteration timeout in milliseconds (0 = use config)")
	runCmd.Flags().Float64Var(&thresholdFlag, "threshold", -1, "override the pass-rate threshold percentage (0-100)")
	runCmd.Flags().BoolVar(&strictFlag, "strict", false, "treat zero-iteration warnings as failures")
	runCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "print per-iteration and per-assertion detail")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	runCmd.Flags().StringVar(&formatFlag, "format", "table", "output format: table or json")
	runCmd.Flags().StringVar(&filterFlag, "filter", "", "only run test cases whose ID contains this substring")
	runCmd.Flags().IntVar(&parallelFlag, "parallel", -1, "max concurrent iterations across all skills (-1 = hardware parallelism, 0 = sequential)")
	runCmd.Flags().BoolVar(&noErrorLogFlag, "no-error-log", false, "suppress the announcement of written error logs (logs are still written)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	overrides := config.Overrides{}
	if cmd.Flags().Changed("model") {
		overrides.Model = &modelFlag
	}
	if cmd.Flags().Changed("timeout") && timeoutFlag != 0 {
		overrides.TimeoutMS = &timeoutFlag
	}
	if cmd.Flags().Changed("iterations") && iterationsFlag != 0 {
		overrides.Iterations = &iterationsFlag
	}
	if cmd.Flags().Changed("threshold") {
		overrides.Threshold = &thresholdFlag
	}
	if cmd.Flags().Changed("hook") {
		hook := config.Hook(hookFlag)
		overrides.Hook = &hook
	}
	if cmd.Flags().Changed("hook-path") {
		overrides.HookPath = &hookPathFlag
	}
	if cmd.Flags().Changed("strict") {
		overrides.Strict = &strictFlag
	}

	var parallel *int
	if cmd.Flags().Changed("parallel") && parallelFlag >= 0 {
		parallel = &parallelFlag
	}

	opts := cli.Options{
		Paths:      paths,
		Overrides:  overrides,
		Verbose:    verboseFlag,
		NoColor:    noColorFlag,
		Format:     cli.Format(formatFlag),
		Filter:     filterFlag,
		Parallel:   parallel,
		NoErrorLog: noErrorLogFlag,
	}

	code := cli.Run(afero.NewOsFs(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if code != cli.ExitSuccess {
		os.Exit(code)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitConfigError)
	}
}
