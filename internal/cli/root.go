package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/martijn/quill/internal/core/service"
	"github.com/martijn/quill/internal/core/session"
	"github.com/martijn/quill/internal/infrastructure/database"
	"github.com/martijn/quill/internal/logging"
	"github.com/martijn/quill/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - a small multi-user blog",
	Long: `Quill is a small multi-user blog.

Registered users can log in, write posts and edit or delete their own posts.
Everyone can read the post listing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/quill/config.yml)")
}

// initServices initializes all services
func initServices(ctx context.Context) (*Services, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup("quill", Version, cfg.LogFormat, level, nil)

	// Initialize database
	db, err := database.Open(database.Options{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DatabaseMaxOpenConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Create missing tables; existing data is left alone
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare database: %w", err)
	}

	codec, err := session.NewCodec(cfg.SessionSecret, cfg.SessionAlgorithm, cfg.SessionLifetime)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize services
	credentials := service.NewCredentialService(service.NewBcryptHasher(cfg.BcryptCost), logger)
	posts := service.NewPostService()

	return &Services{
		DB:          db,
		Credentials: credentials,
		Posts:       posts,
		Codec:       codec,
		Logger:      logger,
	}, nil
}

// Services holds all initialized services
type Services struct {
	DB          *database.DB
	Credentials *service.CredentialService
	Posts       *service.PostService
	Codec       *session.Codec
	Logger      *slog.Logger
}

// Close closes all resources
func (s *Services) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}
