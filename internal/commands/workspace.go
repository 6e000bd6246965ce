package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/safespend-dev/safespend/internal/config"
	"github.com/safespend-dev/safespend/internal/ledger"
	"github.com/safespend-dev/safespend/internal/logger"
	"github.com/safespend-dev/safespend/internal/model"
)

// workspace is an initialized data directory with its config loaded.
type workspace struct {
	root   string
	cfg    *config.Config
	ledger *ledger.Service
	log    zerolog.Logger
	money  money
}

func openWorkspace(repoDir string) (*workspace, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(config.Path(root))
	if err != nil {
		return nil, fmt.Errorf("%w (run `safespend init` first?)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}
	if err := config.LoadEnv(root); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	return &workspace{
		root:   root,
		cfg:    cfg,
		ledger: ledger.NewService(root, cfg.Currency.MinorUnits),
		log:    log.With().Str("workspace", root).Logger(),
		money:  newMoney(cfg),
	}, nil
}

func (w *workspace) context(ctx context.Context) context.Context {
	return logger.WithContext(ctx, w.log)
}

// parseToday reads a --today flag value; empty means the local date now.
func parseToday(s string) (time.Time, error) {
	if s == "" {
		return model.Day(time.Now()), nil
	}
	t, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--today: %w", err)
	}
	return t, nil
}
