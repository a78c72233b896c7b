package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"erg-profile/internal/analysis"
	"erg-profile/internal/auth"
	"erg-profile/internal/config"
	"erg-profile/internal/logbook"
	"erg-profile/internal/service"
	"erg-profile/internal/store"
	"erg-profile/internal/tui"
)

func main() {
	importPath := flag.String("import", "", "import a FIT file and exit")
	debug := flag.Bool("debug", false, "write debug-level logs")
	flag.Parse()

	if err := run(*importPath, *debug); err != nil {
		log.Fatal(err)
	}
}

func run(importPath string, debug bool) error {
	ctx := context.Background()

	logger, closeLog, err := newLogger(debug)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	// Importing a file needs no credentials
	if importPath != "" {
		return importFIT(importPath, logger)
	}

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Concept2 Logbook API credentials.")
		fmt.Println("Get them from: https://log.concept2.com/developers")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Logbook.ClientID,
		ClientSecret: cfg.Logbook.ClientSecret,
	})

	// Check for existing auth
	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if storedAuth, err = authenticate(ctx, db, oauthCfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	// Create token source for API calls (with auto-refresh)
	tokenSource := auth.NewTokenSource(oauthCfg, authToken(storedAuth), func(newToken *oauth2.Token) error {
		logger.Info("access token refreshed", "expires", newToken.Expiry)
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Test token is valid by getting a fresh one
	if _, err := tokenSource.Token(); err != nil {
		logger.Warn("stored token rejected", "error", err)
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		storedAuth, err = authenticate(ctx, db, oauthCfg)
		if err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
		tokenSource.Replace(authToken(storedAuth))
	}

	// Create services
	client := logbook.NewClient(tokenSource)
	syncSvc := service.NewSyncService(client, db, logger)
	querySvc := service.NewQueryService(db, cfg.Athlete)

	// Launch TUI
	app := tui.NewApp(syncSvc, querySvc, cfg.Display)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// authenticate runs the browser login and stores the tokens with the
// Logbook user they belong to
func authenticate(ctx context.Context, db *store.DB, oauthCfg *oauth2.Config) (*store.Auth, error) {
	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return nil, err
	}

	client := logbook.NewClient(oauth2.StaticTokenSource(result.Token))
	user, err := client.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}

	storedAuth := &store.Auth{
		UserID:       user.ID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return nil, fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as %s (user %d)!\n", user.Username, user.ID)
	return storedAuth, nil
}

func authToken(a *store.Auth) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		Expiry:       a.ExpiresAt,
	}
}

func importFIT(path string, logger *slog.Logger) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	result, err := service.NewImportService(db, logger).ImportFIT(path)
	if err != nil {
		return err
	}

	w := result.Workout
	fmt.Printf("Imported %s: %sm in %s", filepath.Base(path), humanize.Comma(int64(w.Distance)), analysis.FormatPace(w.DurationSeconds))
	if pace := analysis.PaceFromDistanceTime(w.Distance, w.DurationSeconds); pace > 0 {
		fmt.Printf(" (%s/500m, %.0fW)", analysis.FormatPace(pace), analysis.WattsFromPace(pace))
	}
	fmt.Println()

	for _, u := range result.NewRecords {
		fmt.Printf("  New record: %s %.0fW\n", analysis.AnchorLabel(u.Record.Anchor), u.Record.Watts)
	}
	return nil
}

// newLogger writes structured logs to a file since the TUI owns the terminal
func newLogger(debug bool) (*slog.Logger, func(), error) {
	dir, err := config.GetConfigDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "ergprofile.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return logger, func() { f.Close() }, nil
}
