package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/justinglotz/apartment-maintenance-tracker/internal/auth"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/config"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/database"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return cfg, db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a sample complex, tenant, landlord and issue",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if len(password) < 8 {
				return errors.New("--password must be at least 8 characters")
			}

			_, db, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			res, err := database.Seed(db, hash)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Complex  %d %s\n", res.Complex.ID, res.Complex.Name)
			fmt.Fprintf(out, "Tenant   %d %s\n", res.Tenant.ID, res.Tenant.Email)
			fmt.Fprintf(out, "Landlord %d %s\n", res.Landlord.ID, res.Landlord.Email)
			fmt.Fprintf(out, "Issue    %d %s\n", res.Issue.ID, res.Issue.Title)
			return nil
		},
	}
	cmd.Flags().String("password", "password123", "Password for the seeded users")
	return cmd
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user id or email>",
		Short: "Issue an access token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close(db)

			var user models.User
			query := db.Model(&models.User{})
			if id, convErr := strconv.ParseUint(args[0], 10, 64); convErr == nil {
				query = query.Where("id = ?", id)
			} else {
				query = query.Where("email = ?", strings.ToLower(strings.TrimSpace(args[0])))
			}
			if err := query.First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("no user matches %q", args[0])
				}
				return err
			}

			manager, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
			if err != nil {
				return err
			}
			token, err := manager.Issue(&user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL the models migrate to, using an in-memory SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(&config.Config{DBType: "sqlite-pure", DBDatabase: ":memory:"})
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return err
			}

			var tables []string
			if err := db.Raw("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name").Scan(&tables).Error; err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, table := range tables {
				var ddl string
				if err := db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&ddl).Error; err != nil {
					return err
				}
				fmt.Fprintf(out, "\n=== Table: %s ===\n%s\n", table, ddl)
			}
			return nil
		},
	}
}
