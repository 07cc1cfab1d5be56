package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dangerclosesec/socioplus/internal/audit"
	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/database"
	"github.com/dangerclosesec/socioplus/internal/domain"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/dangerclosesec/socioplus/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long: `Creates a sample organization, a sample volunteer and one open opportunity.
Accounts and postings that already exist are reused.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db, err := database.Open(cmd.Context(), cfg, logger.Warn)
		if err != nil {
			return err
		}

		userRepo := repository.NewUserRepository(db)
		authService := auth.NewAuthService(
			auth.NewPasswordHasher(),
			auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod),
		)
		userService := service.NewUserService(userRepo, authService, service.NoopNotifier{})
		opportunityService := service.NewOpportunityService(
			repository.NewOpportunityRepository(db),
			userRepo,
			repository.NewApplicationRepository(db),
			auth.NewRuleAuthorizer(),
			audit.NoOpLogger{},
		)

		ctx := cmd.Context()

		org, err := seedUser(ctx, userService, userRepo, service.RegisterInput{
			Name:     "Community Food Bank",
			Email:    "contact@foodbank.org",
			Role:     model.RoleOrganization,
			Phone:    "555-0100",
			Location: "New York, NY",
			Bio:      "Dedicated to fighting hunger in our community.",
		})
		if err != nil {
			return err
		}

		if _, err := seedUser(ctx, userService, userRepo, service.RegisterInput{
			Name:     "John Doe",
			Email:    "john@example.com",
			Role:     model.RoleVolunteer,
			Phone:    "555-0200",
			Location: "New York, NY",
		}); err != nil {
			return err
		}

		spots := 10
		if _, err := seedOpportunity(ctx, opportunityService, org, service.CreateOpportunityInput{
			Title:          "Food Distribution Volunteer",
			Description:    "Help us distribute food to families in need. We need energetic volunteers to help pack and distribute food boxes.",
			Location:       "123 Main St, New York, NY",
			Date:           time.Now().AddDate(0, 0, 7).Format(model.DateLayout),
			Duration:       "4 hours",
			SkillsRequired: "Physical fitness, Communication",
			SpotsAvailable: &spots,
		}); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Database seeded with sample data!")
		fmt.Fprintf(out, "Organization: contact@foodbank.org / %s\n", seedPassword)
		fmt.Fprintf(out, "Volunteer: john@example.com / %s\n", seedPassword)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedUser(ctx context.Context, users *service.UserService, repo repository.UserRepositoryIface, input service.RegisterInput) (*model.User, error) {
	input.Password = seedPassword
	input.ConfirmPassword = seedPassword

	out, err := users.Register(ctx, input)
	if err == nil {
		slog.Debug("seeded user", "email", input.Email, "id", out.User.ID)
		return out.User, nil
	}
	if !errors.Is(err, domain.ErrEmailAlreadyExists) {
		return nil, fmt.Errorf("seeding %s: %w", input.Email, err)
	}

	user, err := repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("loading existing %s: %w", input.Email, err)
	}
	slog.Info("user already exists, reusing", "email", input.Email)
	return user, nil
}

// seedOpportunity posts input for org unless org already has a posting with
// the same title.
func seedOpportunity(ctx context.Context, opps *service.OpportunityService, org *model.User, input service.CreateOpportunityInput) (*model.Opportunity, error) {
	existing, err := opps.ListByOwner(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("loading postings of %s: %w", org.Email, err)
	}
	for _, opp := range existing {
		if opp.Title == input.Title {
			slog.Info("opportunity already exists, reusing", "title", opp.Title, "id", opp.ID)
			return opp, nil
		}
	}

	opp, err := opps.Create(ctx, auth.IdentityFor(org), input)
	if err != nil {
		return nil, fmt.Errorf("seeding opportunity: %w", err)
	}
	slog.Debug("seeded opportunity", "id", opp.ID)
	return opp, nil
}
