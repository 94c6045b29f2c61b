// cmd/client/cmd/init.go
package cmd

import (
	"meetboard/cmd/client/cmd/auth"
	"meetboard/cmd/client/cmd/board"
	"meetboard/cmd/client/cmd/report"
)

func init() {
	// Вход и выход
	rootCmd.AddCommand(auth.LoginCmd)
	rootCmd.AddCommand(auth.LogoutCmd)

	// Доска отчетов
	rootCmd.AddCommand(board.BoardCmd)

	// Работа с отчетами
	rootCmd.AddCommand(report.ReportCmd)
	report.ReportCmd.AddCommand(report.StageCmd)
	report.ReportCmd.AddCommand(report.ListCmd)
	report.ReportCmd.AddCommand(report.DiscardCmd)
	report.ReportCmd.AddCommand(report.CommitCmd)
}
