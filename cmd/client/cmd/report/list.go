// cmd/client/cmd/report/list.go
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать корзину",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		items, err := app.CartList(ctx)
		if err != nil {
			return fmt.Errorf("ошибка чтения корзины: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("Корзина пуста.")
			return nil
		}

		color.Cyan("Несданные отчеты (%d):", len(items))
		for i, item := range items {
			fmt.Printf("  %d. %s\n", i+1, item.Content)
			if item.Filename != "" {
				fmt.Printf("     вложение: %s (%d байт)\n", item.Filename, item.Size)
			}
		}
		return nil
	},
}
