package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novalite/internal/sql/executor"
)

func newExecCmd(a *app) *cobra.Command {
	var keepGoing, stats bool

	cmd := &cobra.Command{
		Use:   "exec <file.json|->",
		Short: "Run a JSON batch of commands",
		Long: `Run a JSON array of command objects (or a single object) and print one
JSON result per line.

Example batch:
  [
    {"op": "create", "table": "users", "columns": [{"name": "id", "type": "INT"}, {"name": "name", "type": "STRING"}]},
    {"op": "insert", "table": "users", "values": ["1", "Alice"]},
    {"op": "select", "table": "users", "where": {"column": "name", "op": "=", "value": "alice"}},
    {"op": "update", "table": "users", "set": {"column": "name", "value": "Al"}, "where": {"column": "id", "value": "1"}},
    {"op": "alter", "table": "users", "add_column": {"name": "email", "type": "STRING"}},
    {"op": "delete", "table": "users", "where": {"column": "email", "op": "IS", "value": "NULL"}}
  ]`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer closeIn()

			cmds, err := readBatch(in)
			if err != nil {
				return err
			}

			failed, err := runBatch(a, cmds, cmd.OutOrStdout(), keepGoing)
			if err != nil {
				return err
			}
			if stats {
				if err := printStats(cmd.ErrOrStderr(), a.db.Stats()); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d commands failed", failed, len(cmds))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Continue after a failed command")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print execution counters to stderr")
	return cmd
}

func openInput(cmd *cobra.Command, name string) (io.Reader, func(), error) {
	if name == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// runBatch executes cmds in order and returns how many failed.
func runBatch(a *app, cmds []command, w io.Writer, keepGoing bool) (int, error) {
	enc := json.NewEncoder(w)
	failed := 0
	for i, c := range cmds {
		var res *executor.Result
		p, err := c.toPlan()
		if err == nil {
			res, err = a.db.Exec(p)
		}
		if err != nil {
			failed++
		}
		if encErr := enc.Encode(newResult(i, c.Op, res, err)); encErr != nil {
			return failed, encErr
		}
		if err != nil && !keepGoing {
			break
		}
	}
	return failed, nil
}

func printStats(w io.Writer, st executor.Stats) error {
	_, err := fmt.Fprintf(w, "commands=%d failures=%d rows_affected=%d rows_returned=%d\n",
		st.Commands, st.Failures, st.RowsAffected, st.RowsReturned)
	return err
}
