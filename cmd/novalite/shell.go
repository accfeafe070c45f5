package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tuannm99/novalite/internal/record"
	"github.com/tuannm99/novalite/internal/sql/executor"
)

const (
	shellPrompt = "novalite> "
	shellHelp   = `meta commands:
  \q | quit | exit       quit
  \tables                list tables
  \d <table>             describe a table
  \stats                 execution counters
  \help                  show help

anything else is one JSON command per line, e.g.
  {"op": "select", "table": "users", "limit": 10}`
)

func newShellCmd(a *app) *cobra.Command {
	var history string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt reading one JSON command per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          shellPrompt,
				HistoryFile:     history,
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdin:           io.NopCloser(cmd.InOrStdin()),
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("readline: %w", err)
			}
			defer func() { _ = rl.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), `type \help for help`)
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if err != nil {
					// EOF
					return nil
				}
				if quit := handleShellLine(a, line, cmd.OutOrStdout()); quit {
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&history, "history", "", "History file (empty keeps history in memory)")
	return cmd
}

// handleShellLine runs one prompt line and reports whether the shell should exit.
func handleShellLine(a *app, line string, w io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, `\`) || line == "quit" || line == "exit" {
		fields := strings.Fields(line)
		switch fields[0] {
		case `\q`, "quit", "exit":
			return true
		case `\help`:
			fmt.Fprintln(w, shellHelp)
		case `\tables`:
			printTables(a, w, w)
		case `\d`:
			if len(fields) != 2 {
				fmt.Fprintln(w, `usage: \d <table>`)
				break
			}
			if err := printSchema(a, fields[1], w); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}
		case `\stats`:
			_ = printStats(w, a.db.Stats())
		default:
			fmt.Fprintf(w, "unknown command: %s\n", line)
		}
		return false
	}

	var c command
	if err := json.Unmarshal([]byte(line), &c); err != nil {
		fmt.Fprintf(w, "error: decode command: %v\n", err)
		return false
	}
	p, err := c.toPlan()
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return false
	}
	res, err := a.db.Exec(p)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return false
	}
	printResult(w, res)
	return false
}

// printResult renders a result as a tab-separated table.
func printResult(w io.Writer, res *executor.Result) {
	if len(res.Columns) == 0 {
		fmt.Fprintf(w, "OK (%d rows affected)\n", res.AffectedRows)
		return
	}
	fmt.Fprintln(w, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = record.Format(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
}
