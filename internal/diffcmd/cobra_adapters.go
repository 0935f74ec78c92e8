package diffcmd

import (
	"github.com/lehigh-university-libraries/h5diff/internal/chart"
	"github.com/lehigh-university-libraries/h5diff/internal/config"
	"github.com/lehigh-university-libraries/h5diff/internal/results"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runFlags mirrors the flags of the run command. Values from the environment
// are used unless the flag was set explicitly.
type runFlags struct {
	recursive   bool
	show        bool
	detail      bool
	failOnError bool
	concurrency int
	topK        int
	epsilon     float64
	discipline  string
	norm        string
	pattern     string
	plotPath    string
	resultsPath string
}

func (f *runFlags) apply(flags *pflag.FlagSet, cfg *config.Run) {
	cfg.Recursive = f.recursive
	cfg.ShowPlot = f.show
	cfg.Detail = f.detail

	if flags.Changed("fail-on-error") {
		cfg.FailOnError = f.failOnError
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("top") {
		cfg.TopK = f.topK
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = f.epsilon
	}
	if flags.Changed("discipline") {
		cfg.Discipline = f.discipline
	}
	if flags.Changed("norm") {
		cfg.Norm = f.norm
	}
	if flags.Changed("pattern") {
		cfg.Pattern = f.pattern
	}
	if flags.Changed("plot") {
		cfg.PlotPath = f.plotPath
	}
	if flags.Changed("results") {
		cfg.ResultsPath = f.resultsPath
	}
}

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run OLD NEW [TABLE]",
		Short: "Compare same-named tables across two result trees",
		Long: `Compare a numeric table across two directories of result files.

Files under OLD matching --pattern are paired with the file at the same relative
path under NEW. For each pair the relative error ||new - old|| / ||old|| of the
table is computed and the cases are printed in ascending order of error.

OLD may also be a single file, in which case NEW is the file to compare it to.
TABLE defaults to H5DIFF_TABLE or "data".`,
		Example: `  # Compare two simulation runs
  h5diff run ./baseline ./candidate

  # Recurse into subdirectories and compare table "pressure"
  h5diff run -r ./baseline ./candidate pressure

  # Plot the ten worst cases and keep the results
  h5diff run ./baseline ./candidate --plot worst.png --results run.yaml

  # Compare parquet exports, four pairs at a time
  h5diff run ./a ./b fields --pattern '*.parquet' --concurrency 4`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.PathOld = args[0]
			cfg.PathNew = args[1]
			if len(args) == 3 {
				cfg.TableID = args[2]
			}
			f.apply(cmd.Flags(), cfg)

			deps := DefaultDeps()
			deps.Stdout = cmd.OutOrStdout()

			_, err = Execute(cmd.Context(), cfg, deps)
			return err
		},
	}

	cmd.Flags().BoolVarP(&f.recursive, "recursive", "r", false, "Descend into subdirectories of OLD")
	cmd.Flags().BoolVar(&f.show, "show", false, "Draw the top cases as a chart in the terminal")
	cmd.Flags().BoolVar(&f.detail, "detail", false, "Also report the relative error of each column")
	cmd.Flags().BoolVar(&f.failOnError, "fail-on-error", false, "Exit non-zero if any pair failed (H5DIFF_FAIL_ON_ERROR)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Maximum pairs compared at once, 0 for no limit (H5DIFF_CONCURRENCY)")
	cmd.Flags().IntVar(&f.topK, "top", results.DefaultTopK, "Number of cases to plot (H5DIFF_TOP_K)")
	cmd.Flags().Float64Var(&f.epsilon, "epsilon", 1e-20, "Added to the reference norm (H5DIFF_EPSILON)")
	cmd.Flags().StringVar(&f.discipline, "discipline", "completion", "Result collection order: completion or dispatch (H5DIFF_DISCIPLINE)")
	cmd.Flags().StringVar(&f.norm, "norm", "frobenius", "Matrix norm: frobenius or l1 (H5DIFF_NORM)")
	cmd.Flags().StringVar(&f.pattern, "pattern", "*.h5", "Base name pattern of files to compare (H5DIFF_PATTERN)")
	cmd.Flags().StringVar(&f.plotPath, "plot", "", "Save the top cases as a bar chart image, e.g. "+chart.DefaultPath+" (H5DIFF_PLOT)")
	cmd.Flags().StringVar(&f.resultsPath, "results", "", "Save the run as YAML (H5DIFF_RESULTS)")

	return cmd
}

// NewReportCmd creates the report command
func NewReportCmd() *cobra.Command {
	var opts ReportOptions

	cmd := &cobra.Command{
		Use:   "report RESULTS",
		Short: "Print a saved run again",
		Long: `Print the ranked report of a run saved with "h5diff run --results", and
optionally chart its worst cases.`,
		Example: `  h5diff report run.yaml --show
  h5diff report run.yaml --plot worst.png --top 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := DefaultDeps()
			deps.Stdout = cmd.OutOrStdout()
			return ExecuteReport(args[0], opts, deps)
		},
	}

	cmd.Flags().IntVar(&opts.TopK, "top", results.DefaultTopK, "Number of cases to plot")
	cmd.Flags().BoolVar(&opts.ShowPlot, "show", false, "Draw the top cases as a chart in the terminal")
	cmd.Flags().StringVar(&opts.PlotPath, "plot", "", "Save the top cases as a bar chart image")

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "List the tables stored in result files",
		Example: `  h5diff inspect ./baseline/case1.h5
  h5diff inspect ./export/case1.parquet`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps := DefaultDeps()
			deps.Stdout = cmd.OutOrStdout()
			return ExecuteInspect(args, deps)
		},
	}

	return cmd
}
