// cmd/client/cmd/report/discard.go
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var DiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Выбросить корзину целиком",
	Long:  `Удаляет все несданные отчеты из корзины. Повтор безвреден.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.CartDiscard(ctx); err != nil {
			return fmt.Errorf("ошибка сброса корзины: %w", err)
		}

		color.Green("Корзина пуста.")
		return nil
	},
}
