package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/davemunger/playdeck/internal/httpjar"
	"github.com/davemunger/playdeck/internal/notify"
	"github.com/davemunger/playdeck/internal/session"
	"github.com/davemunger/playdeck/internal/tui"
	"github.com/davemunger/playdeck/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// dataDir returns ~/.playdeck, creating it on first use.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".playdeck")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}

// resolveAPIURL returns the marketplace base URL: env var > default.
func resolveAPIURL() string {
	if v := os.Getenv("PLAYDECK_API_URL"); v != "" {
		return v
	}
	return "https://api.playdeck.games"
}

// newLogger writes structured logs to a file. The TUI owns stdout, so
// zap must never touch it.
func newLogger(dir string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "playdeck.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	return cfg.Build()
}

func run() error {
	godotenv.Load() //nolint:errcheck // a .env file is optional

	apiURL := resolveAPIURL()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("playdeck " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		}
	}

	dir, err := dataDir()
	if err != nil {
		return err
	}

	log, err := newLogger(dir)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	jar, err := httpjar.Open(filepath.Join(dir, "cookie"), apiURL)
	if err != nil {
		return fmt.Errorf("open cookie jar: %w", err)
	}

	c := client.New(apiURL, jar)
	store := session.NewStore(c, log)
	notices := notify.New(nil)

	log.Info("starting", zap.String("version", version), zap.String("api_url", apiURL))

	app := tui.NewApp(c, store, notices)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogout drops the saved session cookie without starting the TUI.
func runLogout() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home dir: %w", err)
	}
	path := filepath.Join(home, ".playdeck", "cookie")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove cookie: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ac8f0")).
		Bold(true).
		Render("P L A Y D E C K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("your game marketplace, in the terminal")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"playdeck", "Browse the storefront (interactive TUI)"},
		{"playdeck logout", "Drop the saved session"},
		{"playdeck --version", "Show version"},
		{"playdeck help", "You are here"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Println()
}
