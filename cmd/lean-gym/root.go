package main

import (
	"os"

	leangym "github.com/PatrickMassot/lean-gym"
	"github.com/PatrickMassot/lean-gym/internal/cli"
	"github.com/PatrickMassot/lean-gym/internal/config"
	"github.com/PatrickMassot/lean-gym/internal/presentation/tui"
	"github.com/PatrickMassot/lean-gym/pkg/runner"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lean-gym <task>",
		Short: "Branching proof sessions over stdin/stdout",
		Long: `lean-gym loads one task and answers "<branchId> <command>" request lines
with one JSON response per line. Every successful command creates a new branch;
failures leave the session untouched.

The task search path comes from LEAN_PATH.`,
		Args:          cli.ExactTask,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runSession,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return cli.UsageError(err)
	})

	// Persistent flags (available to all commands)
	root.PersistentFlags().Bool("debug", false, "Log diagnostics to stderr (LEAN_GYM_DEBUG)")
	root.PersistentFlags().String("log-file", "", "Write diagnostics to a rotating log file (LEAN_GYM_LOG_FILE)")

	root.Flags().String("engine", config.EngineRewrite, "Proof engine: rewrite or process (LEAN_GYM_ENGINE)")
	root.Flags().String("engine-config", "engine.yaml", "Engine host command for the process engine (LEAN_GYM_ENGINE_CONFIG)")
	root.Flags().String("transcript", "", "Append every exchange to an NDJSON file (LEAN_GYM_TRANSCRIPT)")
	root.Flags().String("redis-addr", "", "Record the transcript to Redis (LEAN_GYM_REDIS_ADDR)")
	root.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (LEAN_GYM_METRICS_ADDR)")

	root.AddCommand(newVersionCmd(), newTasksCmd(), newValidateCmd(), newGraphCmd(), newEngineHostCmd())
	return root
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var prompt *runner.Prompt
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		prompt = runner.InteractivePrompt(f, cmd.ErrOrStderr())
	}
	if prompt != nil {
		tui.PrintBanner(cmd.ErrOrStderr(), leangym.Version, args[0])
	}

	return cli.RunSession(cmd.Context(), cli.RunOptions{
		Task:   args[0],
		Config: cfg,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		Prompt: prompt,
		Stderr: cmd.ErrOrStderr(),
	})
}

// loadConfig reads the environment, then applies the flags set on the command
// line on top of it.
func loadConfig(cmd *cobra.Command) (config.Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Env{}, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	override("engine", &cfg.Engine)
	override("engine-config", &cfg.EngineConfig)
	override("log-file", &cfg.LogFile)
	override("transcript", &cfg.Transcript)
	override("redis-addr", &cfg.RedisAddr)
	override("metrics-addr", &cfg.MetricsAddr)
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}

	if err := cfg.Validate(); err != nil {
		return config.Env{}, err
	}
	return cfg, nil
}
