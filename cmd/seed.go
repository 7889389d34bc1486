package cmd

import (
	"fmt"
	"log"

	"github.com/fvnks/konecte-relay/internal/config"
	"github.com/fvnks/konecte-relay/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the users table with demo accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQL(cfg.MySQL.DSN, db.PoolOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo users...")

		if err := seedUsers(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

func seedUsers(sqlDB *sqlx.DB) error {
	type demoUser struct {
		name     string
		phone    string
		plan     string
		verified bool
		whatsapp bool
	}

	// Phone prefixes deliberately vary: the two upstream integrations store
	// "+56..." and "56..." for the same subscribers.
	demo := []demoUser{
		{"Valentina Rojas", "+56987654321", "pro", true, true},
		{"Matías Fuentes", "56911112222", "pro", true, true},
		{"Camila Soto", "+56933334444", "free", true, false},
		{"Diego Herrera", "56955556666", "free", false, false},
	}

	const q = `
		INSERT INTO users (name, phone, plan, phone_verified, plan_whatsapp)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, u := range demo {
		if _, err := sqlDB.Exec(q, u.name, u.phone, u.plan, u.verified, u.whatsapp); err != nil {
			return fmt.Errorf("seed user %s: %w", u.name, err)
		}
	}
	return nil
}
