package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/tuannm99/novalite/internal"
	"github.com/tuannm99/novalite/internal/engine"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	db         *engine.Database
}

// run executes one CLI invocation and closes the database it opened,
// whether or not the command succeeded.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.db != nil {
		err = multierr.Append(err, a.db.Close())
	}
	return err
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	v := internal.NewViper()

	root := &cobra.Command{
		Use:   "novalite",
		Short: "Embedded relational table store",
		Long: `novalite manages a directory of table snapshots.

Commands are structured JSON documents, not SQL text.

Examples:
  novalite --data-dir ./data tables
  novalite describe users
  novalite exec batch.json
  novalite shell
  cat batch.json | novalite exec -`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := internal.LoadConfigFrom(v, a.configPath)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			a.db, err = engine.Open(cfg)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	flags.String("data-dir", "", "Directory holding the table snapshots (default ./data)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	_ = v.BindPFlag("storage.workdir", flags.Lookup("data-dir"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(newTablesCmd(a))
	root.AddCommand(newDescribeCmd(a))
	root.AddCommand(newExecCmd(a))
	root.AddCommand(newShellCmd(a))
	return root, a
}
