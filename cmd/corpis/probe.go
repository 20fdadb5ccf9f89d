package main

import (
	"github.com/spf13/cobra"

	"github.com/VikaRzyankina/CorpIS/internal/probe"
)

func (a *app) probeCmd() *cobra.Command {
	var (
		path   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Показать, как будет прочитан файл: таблица, поля и типы колонок",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			res, err := probe.Probe(cmd.Context(), readerOptions(cfg.Parser), path)
			if err != nil {
				return err
			}
			out, err := probe.Render(res, asJSON)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "путь к файлу")
	cmd.Flags().BoolVar(&asJSON, "json", false, "вывод в формате JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
