// Package report renders load outcomes as the plain-text summaries printed by
// the CLI. It never prints itself.
package report

import (
	"fmt"
	"strings"

	"github.com/VikaRzyankina/CorpIS/internal/storage"
)

// MaxErrors is how many error lines Format lists before summarising the rest.
const MaxErrors = 10

var (
	rule = strings.Repeat("=", 60)
	thin = strings.Repeat("-", 60)
)

// SuccessRate returns the success percentage; an empty batch is 0.
func SuccessRate(o storage.Outcome) float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Success) / float64(o.Total) * 100
}

// Format renders the load summary for the table label.
func Format(o storage.Outcome, label string) string {
	lines := []string{
		rule,
		"РЕЗУЛЬТАТЫ ЗАГРУЗКИ: " + label,
		rule,
		fmt.Sprintf("Всего записей:      %d", o.Total),
		fmt.Sprintf("Загружено успешно:  %d", o.Success),
		fmt.Sprintf("Ошибок:             %d", o.Failed),
		fmt.Sprintf("Процент успеха:     %.1f%%", SuccessRate(o)),
	}

	if len(o.Errors) > 0 {
		lines = append(lines, "\nОШИБКИ:", thin)
		for i, e := range o.Errors {
			if i == MaxErrors {
				break
			}
			lines = append(lines, "  • "+e)
		}
		if n := len(o.Errors) - MaxErrors; n > 0 {
			lines = append(lines, fmt.Sprintf("  ... и еще %d ошибок", n))
		}
	}

	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}

// Summary renders the totals block closing a bulk import or export.
func Summary(ok, failed int) string {
	return strings.Join([]string{
		rule,
		"ИТОГО:",
		fmt.Sprintf("  Успешно: %d", ok),
		fmt.Sprintf("  Ошибок:  %d", failed),
		rule,
	}, "\n")
}

// Banner renders a section heading such as "ИМПОРТ ДАННЫХ".
func Banner(title string) string {
	return rule + "\n" + title + "\n" + rule
}

// Separator is printed between files of a bulk run.
func Separator() string { return strings.Repeat("─", 60) }
