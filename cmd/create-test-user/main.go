package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"schematics-backend/apperrors"
	"schematics-backend/config"
	"schematics-backend/logging"
	"schematics-backend/models"
	"schematics-backend/repository"
	"schematics-backend/service"
	"schematics-backend/validation"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger, err := logging.New("info", logging.FormatConsole)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if path := config.LoadDotEnv(); path == "" {
		logger.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load(config.NewViper())
	if err != nil {
		return err
	}

	stores, err := repository.OpenStores(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer stores.Close()

	registrationService := service.NewRegistrationService(
		service.RegistrationWithUserRepository(stores.Users),
		service.RegistrationWithBcryptCost(cfg.BcryptCost),
		service.RegistrationWithLogger(logger),
	)
	preferenceService := service.NewPreferenceService(
		service.WithPreferenceRepository(stores.Preferences),
		service.WithOnMissing(service.OnMissingUpsert),
		service.WithLogger(logger),
	)

	// Create a test user
	input := validation.RegistrationInput{
		FirstName:       "Test",
		LastName:        "User",
		Email:           "test@example.com",
		Password:        "TestPassword123!",
		ConfirmPassword: "TestPassword123!",
	}

	result, err := registrationService.Register(ctx, service.RegisterRequest{Input: input})
	if apperrors.Is(err, apperrors.KindConflict) {
		existing, getErr := stores.Users.GetByEmail(ctx, input.Email)
		if getErr != nil {
			return getErr
		}
		logger.Info("user already exists",
			zap.String("email", input.Email),
			zap.String("id", existing.ID.String()),
		)
		return nil
	}
	if err != nil {
		return err
	}
	user := result.User

	// Seed their preferences
	theme := models.ThemeDark
	showEmail := true
	_, err = preferenceService.ReplacePreferences(ctx, service.UpdatePreferencesRequest{
		UserID: user.ID.String(),
		Patch: &models.PreferencePatch{
			Theme:   &theme,
			Privacy: &models.PrivacyPatch{ShowEmail: &showEmail},
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Test user created successfully!\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   Password: %s\n", input.Password)
	fmt.Printf("   Name: %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("   Theme: %s\n", theme)
	return nil
}
