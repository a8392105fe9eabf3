package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ymorita/solventory/internal/auth"
	"github.com/ymorita/solventory/internal/config"
	"github.com/ymorita/solventory/internal/db"
	"github.com/ymorita/solventory/internal/labelscan"
	"github.com/ymorita/solventory/internal/labelscan/claude"
	"github.com/ymorita/solventory/internal/labelscan/ollama"
	"github.com/ymorita/solventory/internal/logging"
	"github.com/ymorita/solventory/internal/metrics"
	"github.com/ymorita/solventory/internal/sdsstore/local"
	"github.com/ymorita/solventory/internal/service"
	"github.com/ymorita/solventory/internal/store"
	"github.com/ymorita/solventory/internal/web"
)

// NewServeCommand creates the command that runs the HTTP server.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the inventory HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer cleanup()

	d, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer d.Close()

	blobs, err := local.NewLocalBlobStore(cfg.SDSPath)
	if err != nil {
		return fmt.Errorf("failed to set up document storage: %w", err)
	}

	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}
	if scanner == nil {
		logger.Info("label scanning disabled")
	}

	inventory := store.NewInventoryStore(d)
	logs := store.NewLogStore(d)
	rooms := store.NewRoomStore(d)
	solvents := store.NewSolventStore(d)

	m := metrics.New()
	server := web.NewServer(web.Dependencies{
		Adjustments: service.NewAdjustmentService(inventory, logs, m, logger),
		Lookup:      service.NewLookupService(inventory, logs, rooms, solvents),
		Catalog:     service.NewCatalogService(rooms, solvents, inventory),
		Sessions:    auth.NewManager(cfg.Users, cfg.SessionTTL),
		SDSMeta:     store.NewSDSStore(d),
		SDSBlobs:    blobs,
		Scanner:     scanner,
		Metrics:     m,
		Logger:      logger,
	})

	return server.ListenAndServe(cfg.ListenAddr)
}

// newScanner selects the label scan backend. A nil scanner means the feature
// is off.
func newScanner(cfg *config.Config) (labelscan.Scanner, error) {
	switch cfg.LabelBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("label backend claude needs CLAUDE_API_KEY")
		}
		return claude.NewClaudeScanner(cfg.ClaudeAPIKey, cfg.ClaudeModel), nil
	case "ollama":
		return ollama.NewOllamaScanner(cfg.OllamaHost, cfg.OllamaModel), nil
	case "off", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown label backend %q", cfg.LabelBackend)
}
