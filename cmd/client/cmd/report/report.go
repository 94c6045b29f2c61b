// cmd/client/cmd/report/report.go
package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"meetboard/cmd/client/cmd/types"
	"meetboard/internal/app/client"
)

// ReportCmd - родительская команда работы с отчетами.
var ReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Несданные отчеты и их фиксация",
	Long: `Работа с корзиной отчетов: добавление, просмотр, сброс и
пакетная фиксация в журнал.`,
}

// appFromContext достает приложение, положенное root-командой.
func appFromContext(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	if !app.IsAuthenticated() {
		return nil, fmt.Errorf("требуется вход: meetboard login")
	}
	return app, nil
}
