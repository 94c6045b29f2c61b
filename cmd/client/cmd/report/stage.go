// cmd/client/cmd/report/stage.go
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var attachmentPath string

var StageCmd = &cobra.Command{
	Use:   "stage <текст отчета>",
	Short: "Добавить отчет в корзину",
	Long: `Кладет отчет в корзину сессии. Отчет остается несданным,
пока корзина не будет зафиксирована командой report commit.

Флаг --file прикладывает вложение: файл уедет в хранилище только
при фиксации.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		items, err := app.Stage(ctx, args[0], attachmentPath)
		if err != nil {
			return fmt.Errorf("ошибка добавления: %w", err)
		}

		color.Green("Отчет добавлен. В корзине: %d", items)
		return nil
	},
}

func init() {
	StageCmd.Flags().StringVarP(&attachmentPath, "file", "f", "", "путь к вложению")
}
