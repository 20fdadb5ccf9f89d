package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

func (a *app) tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Показать список доступных таблиц",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			printTables(a.stdout)
			return nil
		},
	}
}

func printTables(w io.Writer) {
	fmt.Fprint(w, "\nДоступные таблицы:\n\n")
	for _, table := range schema.Tables() {
		et, err := schema.Lookup(table)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "  • %-20s → %s\n", table, et.Name)
	}
	fmt.Fprintln(w)
}
