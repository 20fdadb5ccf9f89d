package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/VikaRzyankina/CorpIS/internal/etl"
	"github.com/VikaRzyankina/CorpIS/internal/report"
)

func (a *app) importCmd() *cobra.Command {
	var path, table string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Импорт данных из файла или директории в БД",
		Long: `Импорт одного файла (таблица определяется по заголовку, если не указана)
или всех поддерживаемых файлов директории в порядке имен.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, statErr := os.Stat(path)
			dir := statErr == nil && st.IsDir()
			if dir && table != "" {
				return withCode(exitUsage, fmt.Errorf("--table cannot be used with a directory"))
			}

			r, closeRunner, err := a.runner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRunner()

			if dir {
				return a.importAll(cmd, r, path)
			}
			ok, err := a.importOne(cmd, r, path, table)
			if err != nil {
				return err
			}
			if !ok {
				return errIncomplete
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "путь к файлу или директории для импорта")
	cmd.Flags().StringVarP(&table, "table", "t", "", "название таблицы (по умолчанию определяется автоматически)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) importOne(cmd *cobra.Command, r *etl.Runner, path, table string) (bool, error) {
	w := a.stdout
	fmt.Fprintf(w, "\n%s\n", report.Banner("ИМПОРТ ДАННЫХ"))
	fmt.Fprintf(w, "\nИзвлечение данных из %s\n", path)

	res, err := r.ImportFile(cmd.Context(), path, table)
	printImport(w, res)
	if err != nil {
		return false, err
	}
	if !res.OK() {
		fmt.Fprintf(a.stderr, "\nЗагрузка завершена с ошибками!\n")
		return false, nil
	}
	fmt.Fprintln(w, "\nИмпорт успешно завершен!")
	return true, nil
}

// printImport prints the stages res got through.
func printImport(w io.Writer, res etl.ImportResult) {
	if res.Columns == 0 {
		return
	}
	fmt.Fprintf(w, "   Извлечено %d записей, %d колонок\n", res.Read, res.Columns)
	fmt.Fprintln(w, "\nТрансформация и валидация")
	if res.Entity == nil {
		return
	}
	valid := res.Read - len(res.Rejected)
	fmt.Fprintf(w, "   Таблица: %s\n", res.Entity.Label)
	fmt.Fprintf(w, "   Валидировано %d/%d записей\n", valid, res.Read)
	if n := len(res.Rejected); n > 0 {
		fmt.Fprintf(w, "   Пропущено невалидных записей: %d\n", n)
		for _, e := range res.Rejected {
			fmt.Fprintf(w, "     %v\n", e)
		}
	}
	fmt.Fprintln(w, "\nЗагрузка в БД")
	fmt.Fprintf(w, "\n%s\n", report.Format(res.Outcome, res.Entity.Label))
}

func (a *app) importAll(cmd *cobra.Command, r *etl.Runner, dir string) error {
	w := a.stdout
	paths, err := r.ListDir(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintf(w, "В директории %s не найдено поддерживаемых файлов\n", dir)
		return errIncomplete
	}

	fmt.Fprintf(w, "\n%s\n", report.Banner("МАССОВЫЙ ИМПОРТ"))
	fmt.Fprintf(w, "Найдено файлов: %d\n\n", len(paths))

	sum, err := r.ImportFiles(cmd.Context(), paths, func(fr etl.FileResult) {
		fmt.Fprintf(w, "\n%s\n", report.Separator())
		fmt.Fprintf(w, "\n%s\n", report.Banner("ИМПОРТ ДАННЫХ"))
		fmt.Fprintf(w, "\nИзвлечение данных из %s\n", fr.Path)
		printImport(w, fr.ImportResult)
		switch {
		case fr.Err != nil:
			fmt.Fprintf(w, "\nОшибка импорта %s: %v\n", filepath.Base(fr.Path), fr.Err)
		case !fr.OK():
			fmt.Fprintf(a.stderr, "\nЗагрузка завершена с ошибками!\n")
		default:
			fmt.Fprintln(w, "\nИмпорт успешно завершен!")
		}
	})
	fmt.Fprintf(w, "\n%s\n\n", report.Summary(sum.Succeeded, sum.Failed))
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return errIncomplete
	}
	return nil
}
