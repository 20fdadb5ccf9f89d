package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VikaRzyankina/CorpIS/internal/etl"
	"github.com/VikaRzyankina/CorpIS/internal/parser"
	"github.com/VikaRzyankina/CorpIS/internal/report"
	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

var exportFormats = []string{"csv", "xlsx", "xls", "ods"}

func (a *app) exportCmd() *cobra.Command {
	var (
		table  string
		all    bool
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Экспорт данных из БД в файл",
		Long: `Экспорт одной таблицы (--table, формат по расширению --output) или всех
таблиц (--all, файлы <output>/<таблица>.<format>). Без --table выполняется
экспорт всех таблиц.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if table == "" {
				if !slices.Contains(exportFormats, format) {
					return withCode(exitUsage, fmt.Errorf("invalid --format %q (choose from %s)", format, strings.Join(exportFormats, ", ")))
				}
				if _, err := parser.CodecFor("x." + format); err != nil {
					return err
				}
			}
			var et *schema.EntityType
			if table != "" {
				var err error
				if et, err = schema.Lookup(table); err != nil {
					return fmt.Errorf("Неизвестная таблица: %s. Доступные: %s", table, strings.Join(schema.Tables(), ", "))
				}
			}

			r, closeRunner, err := a.runner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRunner()

			if et == nil {
				return a.exportAll(cmd, r, output, format)
			}
			fmt.Fprintf(a.stdout, "\n%s\n", report.Banner("ЭКСПОРТ ДАННЫХ"))
			fmt.Fprintf(a.stdout, "\nИзвлечение данных из таблицы: %s\n", et.Label)
			res, err := r.ExportTable(cmd.Context(), et.Table, output)
			if err != nil {
				return err
			}
			if !printExport(a.stdout, res) {
				return errIncomplete
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&table, "table", "t", "", "название таблицы для экспорта")
	cmd.Flags().BoolVarP(&all, "all", "a", true, "экспорт всех таблиц")
	cmd.Flags().StringVarP(&output, "output", "o", "", "путь для сохранения (файл или директория)")
	cmd.Flags().StringVar(&format, "format", "csv", "формат файлов при экспорте всех таблиц: "+strings.Join(exportFormats, ", "))
	cmd.MarkFlagsMutuallyExclusive("table", "all")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// printExport prints the result of one table export and reports whether a
// file was written.
func printExport(w io.Writer, res etl.ExportResult) bool {
	if res.Empty() {
		fmt.Fprintf(w, "   Таблица %s пуста\n", res.Entity.Label)
		return false
	}
	fmt.Fprintf(w, "   Извлечено %d записей\n", res.Rows)
	fmt.Fprintf(w, "\nСохранение в файл: %s\n", res.Path)
	fmt.Fprintf(w, "   Сохранено %d записей\n", res.Rows)
	fmt.Fprintln(w, "\nЭкспорт успешно завершен!")
	return true
}

func (a *app) exportAll(cmd *cobra.Command, r *etl.Runner, dir, format string) error {
	w := a.stdout
	fmt.Fprintf(w, "\n%s\n", report.Banner("МАССОВЫЙ ЭКСПОРТ"))
	fmt.Fprintf(w, "Таблиц для экспорта: %d\n\n", len(schema.Tables()))

	results, err := r.ExportAll(cmd.Context(), dir, format)
	ok, failed := 0, 0
	for _, res := range results {
		if res.Entity == nil {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", report.Separator())
		fmt.Fprintf(w, "\n%s\n", report.Banner("ЭКСПОРТ ДАННЫХ"))
		fmt.Fprintf(w, "\nИзвлечение данных из таблицы: %s\n", res.Entity.Label)
		if res.Err != nil {
			failed++
			fmt.Fprintf(w, "\nОшибка экспорта %s: %v\n", res.Entity.Table, res.Err)
			continue
		}
		if printExport(w, res) {
			ok++
		} else {
			failed++
		}
	}
	fmt.Fprintf(w, "\n%s\n\n", report.Summary(ok, failed))
	if err != nil {
		return err
	}
	if failed > 0 {
		return errIncomplete
	}
	return nil
}
