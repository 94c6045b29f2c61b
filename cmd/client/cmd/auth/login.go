// cmd/client/cmd/auth/login.go
package auth

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"meetboard/cmd/client/cmd/types"
	"meetboard/internal/app/client"
)

var (
	department string
	group      string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти под парой отдел/группа",
	Long: `Вход по справочнику отделов и групп.

Отдел и группу можно передать флагами или выбрать из списка,
который клиент запросит у сервера. После входа токен сохраняется
локально для последующих команд.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		dep, grp := department, group
		if dep == "" || grp == "" {
			var err error
			dep, grp, err = pickDepartmentGroup(ctx, app, dep, grp)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Пароль для %s / %s: ", dep, grp)
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		if err := app.Login(ctx, dep, grp, string(password)); err != nil {
			return fmt.Errorf("ошибка входа: %w", err)
		}

		color.Green("Вход выполнен: %s / %s", dep, grp)
		return nil
	},
}

// pickDepartmentGroup дозапрашивает недостающую половину пары у
// пользователя, показывая справочник с сервера.
func pickDepartmentGroup(ctx context.Context, app *client.App, dep, grp string) (string, string, error) {
	directory, err := app.Directory(ctx)
	if err != nil {
		return "", "", fmt.Errorf("справочник недоступен: %w", err)
	}
	if len(directory) == 0 {
		return "", "", fmt.Errorf("справочник пуст, вход невозможен")
	}

	if dep == "" {
		fmt.Println("Отделы:")
		for i, d := range directory {
			fmt.Printf("  %d. %s\n", i+1, d.Department)
		}
		idx, err := readChoice("Отдел", len(directory))
		if err != nil {
			return "", "", err
		}
		dep = directory[idx].Department
	}

	if grp == "" {
		var groups []string
		for _, d := range directory {
			if d.Department == dep {
				groups = d.Groups
				break
			}
		}
		if len(groups) == 0 {
			return "", "", fmt.Errorf("у отдела %q нет групп в справочнике", dep)
		}

		fmt.Printf("Группы отдела %s:\n", dep)
		for i, g := range groups {
			fmt.Printf("  %d. %s\n", i+1, g)
		}
		idx, err := readChoice("Группа", len(groups))
		if err != nil {
			return "", "", err
		}
		grp = groups[idx]
	}

	return dep, grp, nil
}

func readChoice(prompt string, max int) (int, error) {
	fmt.Printf("%s (1-%d): ", prompt, max)
	var raw string
	if _, err := fmt.Scanln(&raw); err != nil {
		return 0, fmt.Errorf("ошибка чтения выбора: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("нужен номер от 1 до %d", max)
	}
	return n - 1, nil
}

func init() {
	LoginCmd.Flags().StringVarP(&department, "department", "d", "", "отдел из справочника")
	LoginCmd.Flags().StringVarP(&group, "group", "g", "", "группа отдела")
}
