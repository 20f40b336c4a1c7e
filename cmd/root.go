package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/bookshelf/internal/config"
	errs "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/tui"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	runUI            = tui.Run
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// CLI represents the complete command structure for the bookshelf application
type CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Enable debug logging"`

	// Gateway flags, empty values keep the configured setting
	Gateway string  `help:"Data source: mock, sqlite or http"`
	Seed    string  `help:"JSON or YAML file to seed the mock gateway with" type:"path"`
	DB      string  `help:"Path to the SQLite database file" type:"path"`
	BaseURL string  `name:"base-url" help:"Base URL of the HTTP catalog service"`
	Token   string  `help:"Bearer token for the HTTP catalog service"`
	Latency string  `help:"Simulated latency of the mock gateway (e.g. 500ms)"`
	RPS     float64 `name:"rps" help:"Limit gateway calls per second (0 keeps the configured limit)"`

	Browse BrowseCmd `cmd:"" default:"withargs" help:"Browse the catalog in the terminal UI"`
	List   ListCmd   `cmd:"" help:"Print the catalog, filtered and sorted"`
	Show   ShowCmd   `cmd:"" help:"Print one book"`
	Add    AddCmd    `cmd:"" help:"Add a book"`
	Edit   EditCmd   `cmd:"" help:"Edit a book"`
	Delete DeleteCmd `cmd:"" help:"Delete a book"`
	Toggle ToggleCmd `cmd:"" help:"Flip the availability of a book"`
	Export ExportCmd `cmd:"" help:"Export the catalog as JSON, YAML or markdown notes"`
	Import ImportCmd `cmd:"" help:"Import books from other services"`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("bookshelf"),
		kong.Description("Manage a catalog of books from the terminal."),
		kong.UsageOnError(),
	}
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli, kongOptions()...)

	if cli.Verbose {
		initLogging(slog.LevelDebug)
	}
	updateGlobalConfig(&cli)

	err := ctx.Run()
	if errs.IsStopProcessingError(err) {
		slog.Info("Stopped", "reason", err)
		return
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// BOOKSHELF_* variables may also come from a .env file; real env wins.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}
	viper.SetEnvPrefix("BOOKSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.Gateway != "" {
		viper.Set(config.KeyGatewayKind, cli.Gateway)
	}
	if cli.Seed != "" {
		viper.Set(config.KeyGatewaySeed, cli.Seed)
	}
	if cli.DB != "" {
		viper.Set(config.KeySQLiteDBFile, cli.DB)
	}
	if cli.BaseURL != "" {
		viper.Set(config.KeyHTTPBaseURL, cli.BaseURL)
	}
	if cli.Token != "" {
		viper.Set(config.KeyHTTPToken, cli.Token)
	}
	if cli.Latency != "" {
		viper.Set(config.KeyGatewayLatency, cli.Latency)
	}
	if cli.RPS > 0 {
		viper.Set(config.KeyGatewayRPS, cli.RPS)
	}
}

func initLogging(level slog.Level) {
	setLogOutput(os.Stdout, level)
}

func setLogOutput(w io.Writer, level slog.Level) {
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
