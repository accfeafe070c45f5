package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printTables(a, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show a table's columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchema(a, args[0], cmd.OutOrStdout())
		},
	}
}

func printTables(a *app, w, errw io.Writer) {
	for _, name := range a.db.ListTables() {
		fmt.Fprintln(w, name)
	}
	for _, err := range a.db.LoadErrors() {
		fmt.Fprintf(errw, "skipped: %v\n", err)
	}
}

func printSchema(a *app, table string, w io.Writer) error {
	schema, err := a.db.DescribeTable(table)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Table: %s\n", schema.TableName)
	for _, c := range schema.Cols {
		fmt.Fprintf(w, "  %s %s\n", c.Name, c.Type)
	}
	n, err := a.db.RowCount(table)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Rows: %d\n", n)
	return nil
}
