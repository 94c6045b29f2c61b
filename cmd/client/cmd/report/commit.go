// cmd/client/cmd/report/commit.go
package report

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meetboard/internal/app/client"
)

var meetingDate string

var CommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Зафиксировать корзину в журнал",
	Long: `Пакетно записывает корзину в журнал под указанной датой собрания.

Фиксация идет по одному отчету. При фатальной ошибке конвейер
останавливается, корзина сохраняется: повтор команды допишет уже
записанные отчеты еще раз. Перед повтором после сбоя проверьте
журнал командой board --date.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		// Без общего таймаута: фиксация большой корзины может идти долго,
		// сервер сам шлет прогресс по мере обработки.
		done, err := app.Commit(cmd.Context(), meetingDate, func(p client.CommitProgress) {
			switch {
			case p.UploadError != "":
				color.Yellow("  %d/%d записан, вложение потеряно: %s", p.Index, p.Total, p.UploadError)
			case p.RecordID == "":
				// Событие упавшего элемента, причину доскажет done.
			default:
				fmt.Printf("  %d/%d записан (%s)\n", p.Index, p.Total, p.RecordID)
			}
		})
		if err != nil {
			return fmt.Errorf("ошибка фиксации: %w", err)
		}

		switch done.Status {
		case "success":
			color.Green("Готово: записано %d из %d. Корзина пуста.", done.Appended, done.Total)
		case "fatal_stop":
			color.Red("Фиксация остановлена на отчете %d из %d: %s", done.FailedIndex, done.Total, done.Message)
			fmt.Printf("Записано до остановки: %d. Корзина сохранена.\n", done.Appended)
			fmt.Println("ВНИМАНИЕ: повтор commit запишет уже записанные отчеты повторно.")
			fmt.Println("Сверьте журнал: meetboard board --date " + meetingDate)
			if done.RateLimited {
				fmt.Println("Хранилище ограничило частоту запросов - подождите минуту перед повтором.")
			}
		default:
			color.Red("Фиксация не удалась: %s", done.Message)
		}
		return nil
	},
}

func init() {
	CommitCmd.Flags().StringVar(&meetingDate, "date", "", "дата собрания (YYYY-MM-DD)")
	CommitCmd.MarkFlagRequired("date")
}
