package cli

import (
	"context"
	"fmt"
	"time"

	roleBus "github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/KSx23/archer/internal/sqldb"
	"github.com/spf13/cobra"
)

var (
	seedUser string
	seedPass string
	seedHost string
	seedName string
)

func init() {
	rootCommand.AddCommand(seedCommand)

	seedCommand.Flags().StringVarP(&seedUser, "user", "u", "postgres", "Database username required.")
	seedCommand.Flags().StringVarP(&seedPass, "pass", "p", "postgres", "Database password required.")
	seedCommand.Flags().StringVar(&seedHost, "host", "localhost:5432", "Database host:port required.")
	seedCommand.Flags().StringVarP(&seedName, "name", "n", "postgres", "Database name to seed required.")
}

var seedCommand = &cobra.Command{
	Use:   "seed",
	Short: "inserts the baseline roles",
	Long: `Insert the well known roles the route authorization keys off.

Examples:
  admin seed --user=myuser --pass=mypass --host=localhost:5432 --name=mydb`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("seeding baseline roles...")

		db, err := sqldb.Open(sqldb.Config{
			User:       seedUser,
			Password:   seedPass,
			Host:       seedHost,
			Name:       seedName,
			DisableTLS: true,
		})

		if err != nil {
			return fmt.Errorf("open connection: %w", err)
		}

		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		roles := map[string]string{
			roleBus.RoleAdmin:   "full administrative access",
			roleBus.RoleManager: "schedules shifts and decides time off",
			roleBus.RoleWorker:  "claims shifts and requests time off",
		}

		const q = `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		`

		for name, description := range roles {
			if _, err := db.ExecContext(ctx, q, name, description); err != nil {
				return fmt.Errorf("insert role %q: %w", name, err)
			}
		}

		fmt.Println("seeding completed!")
		return nil
	},
}
