// cmd/orgctl/main.go

// orgctl is the operator CLI: schema migration, seeding, and quick
// inspection of organizations and memberships.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fleetgrid/orgctx/internal/auth"
	"github.com/fleetgrid/orgctx/internal/config"
	"github.com/fleetgrid/orgctx/internal/model"
	"github.com/fleetgrid/orgctx/internal/repository"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "orgctl",
		Short:        "Administer the organization context service",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newOrgsCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			return db.AutoMigrate(
				&model.User{},
				&model.Organization{},
				&model.Membership{},
				&model.Invite{},
				&model.ContextAuditLog{},
			)
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		orgName string
		email   string
		role    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an organization with an initial member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !model.Role(role).Valid() {
				return fmt.Errorf("invalid role %q", role)
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			ctx := context.Background()

			users := repository.NewUserRepository(db)
			orgs := repository.NewOrganizationRepository(db)
			memberships := repository.NewMembershipRepository(db)

			user, err := users.FindByEmail(ctx, email)
			if err != nil {
				user = &model.User{Email: email, FirstName: "Seed", Status: model.StatusActive}
				if err := users.Create(ctx, user); err != nil {
					return err
				}
			}

			org := &model.Organization{
				Name:     orgName,
				Slug:     slugify(orgName),
				IsActive: true,
			}
			if err := orgs.Create(ctx, org); err != nil {
				return err
			}

			membership := &model.Membership{
				OrganizationID: org.ID,
				UserID:         user.ID,
				Role:           model.Role(role),
				IsActive:       true,
			}
			if err := memberships.Create(ctx, membership); err != nil {
				return err
			}

			fmt.Printf("created organization %d (%s) with %s as %s\n", org.ID, org.Slug, user.Email, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgName, "org", "", "organization name")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	cmd.Flags().StringVar(&role, "role", string(model.RoleOwner), "member role")
	cmd.MarkFlagRequired("org")
	cmd.MarkFlagRequired("email")
	return cmd
}

func newOrgsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}

			orgs, err := repository.NewOrganizationRepository(db).FindAll(context.Background())
			if err != nil {
				return err
			}

			for _, org := range orgs {
				state := "active"
				if !org.IsActive {
					state = "inactive"
				}
				fmt.Printf("%d\t%s\t%s\t%s\t%s\n", org.ID, org.Slug, org.Plan, org.SubscriptionStatus, state)
			}
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an unscoped token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := openDatabase()
			if err != nil {
				return err
			}

			user, err := repository.NewUserRepository(db).FindByEmail(context.Background(), email)
			if err != nil {
				return err
			}

			tm := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)
			token, err := tm.Generate(user.ID.String(), user.Email, newSessionID())
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.MarkFlagRequired("email")
	return cmd
}

func openDatabase() (*gorm.DB, error) {
	cfg := config.Load()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}
