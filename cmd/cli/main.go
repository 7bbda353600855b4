package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gostrata/adapters/battery"
	"gostrata/adapters/excel"
	"gostrata/adapters/rng"
	"gostrata/app"
	"gostrata/domain/stats"
	"gostrata/internal"
	"gostrata/internal/config"
	"gostrata/internal/errors"
)

// cliApp carries the state shared by every subcommand
type cliApp struct {
	cfg    *config.Config
	logger *internal.Logger

	// flag values; applied over cfg when set
	method       string
	permutations int
	seed         uint32
	workers      int
	sheet        string
	logLevel     string
	envFile      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.Classify(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &cliApp{}

	rootCmd := &cobra.Command{
		Use:   "gostrata",
		Short: "Histogram densities and group association scores for tabular data",
		Long: `gostrata estimates histogram densities and scores how strongly a response
column depends on a label column, with optional permutation testing.

Defaults come from the environment (and a .env file when present):
  LOG_LEVEL, GOSTRATA_BIN_METHOD, GOSTRATA_PERMUTATIONS, GOSTRATA_SEED,
  GOSTRATA_WORKERS, GOSTRATA_SHEET
Flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.method, "method", string(stats.DefaultBinMethod), "Bin method: SquareRoot|Sturges|Rice|Scott|FreedmanDiaconis (overrides "+config.EnvBinMethod+")")
	flags.IntVar(&a.permutations, "permutations", config.DefaultPermutations, "Permutation count, 0 computes the score only (overrides "+config.EnvPermutations+")")
	flags.Uint32Var(&a.seed, "seed", config.DefaultSeed, "Base seed for permutation streams (overrides "+config.EnvSeed+")")
	flags.IntVar(&a.workers, "workers", 0, "Concurrent permutations, 0 selects GOMAXPROCS (overrides "+config.EnvWorkers+")")
	flags.StringVar(&a.sheet, "sheet", config.DefaultSheet, "Worksheet of an XLSX input (overrides "+config.EnvSheet+")")
	flags.StringVar(&a.logLevel, "log-level", "INFO", "ERROR|WARN|INFO|DEBUG|TRACE (overrides "+config.EnvLogLevel+")")
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file loaded before configuration")

	rootCmd.AddCommand(
		newBinsCmd(a),
		newDensityCmd(a),
		newDescribeCmd(a),
		newEntropyCmd(a),
		newICCmd(a),
		newINCmd(a),
	)

	return rootCmd
}

// setup loads .env and the environment, then applies flag overrides
func (a *cliApp) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !os.IsNotExist(err) {
			return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("load %s: %w", a.envFile, err))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		method, err := stats.ParseBinMethod(a.method)
		if err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
		cfg.Analysis.BinMethod = method
	}
	if flags.Changed("permutations") {
		cfg.Analysis.Permutations = a.permutations
	}
	if flags.Changed("seed") {
		cfg.Analysis.Seed = a.seed
	}
	if flags.Changed("workers") {
		cfg.Analysis.Workers = a.workers
	}
	if flags.Changed("sheet") {
		cfg.Input.Sheet = a.sheet
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(cfg.Logging.Level))
	return nil
}

func (a *cliApp) reader(path string) *excel.DataReader {
	return excel.NewDataReader(path, excel.WithSheet(a.cfg.Input.Sheet), excel.WithLogger(a.logger))
}

func (a *cliApp) service() *app.AssociationService {
	engine := battery.NewPermutationEngine(rng.NewAdapter(),
		battery.WithWorkers(a.cfg.Analysis.Workers),
		battery.WithLogger(a.logger))
	return app.NewAssociationService(engine, a.logger)
}
