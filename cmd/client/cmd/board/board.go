// cmd/client/cmd/board/board.go
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"meetboard/cmd/client/cmd/types"
	"meetboard/internal/app/client"
)

var (
	date    string
	refresh bool
)

var BoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Доска отчетов о собраниях",
	Long: `Показывает доску отчетов.

Без флагов выводит список дат собраний. С флагом --date выводит
отчеты этой даты, сгруппированные по отделам.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if refresh {
			if err := app.RefreshBoard(ctx); err != nil {
				return fmt.Errorf("ошибка обновления: %w", err)
			}
		}

		if date == "" {
			return showDates(ctx, app)
		}
		return showDate(ctx, app, date)
	},
}

func showDates(ctx context.Context, app *client.App) error {
	dates, err := app.BoardDates(ctx)
	if err != nil {
		return fmt.Errorf("доска недоступна: %w", err)
	}

	if len(dates) == 0 {
		fmt.Println("Отчетов пока нет.")
		return nil
	}

	color.Cyan("Даты собраний:")
	for _, d := range dates {
		fmt.Printf("  %s\n", d)
	}
	fmt.Println()
	fmt.Println("Отчеты даты: meetboard board --date <YYYY-MM-DD>")
	return nil
}

func showDate(ctx context.Context, app *client.App, date string) error {
	departments, err := app.Board(ctx, date)
	if err != nil {
		return fmt.Errorf("доска недоступна: %w", err)
	}

	if len(departments) == 0 {
		fmt.Printf("На %s отчетов нет.\n", date)
		return nil
	}

	color.Cyan("=== Собрание %s ===", date)
	for _, dep := range departments {
		fmt.Println()
		color.Yellow("%s", dep.Department)
		for _, rec := range dep.Records {
			fmt.Printf("  [%s] %s\n", rec.Group, rec.Content)
			if rec.AttachmentURL != "" {
				fmt.Printf("      вложение: %s\n", rec.AttachmentURL)
			}
		}
	}
	return nil
}

func init() {
	BoardCmd.Flags().StringVar(&date, "date", "", "дата собрания (YYYY-MM-DD)")
	BoardCmd.Flags().BoolVar(&refresh, "refresh", false, "сбросить серверный кеш перед чтением (нужен вход)")
}
