package app

import (
	"context"
	"fmt"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/assist/assist"
	"yashubustudio/assist/internal/logging"
)

const fyneAppID = "studio.yashubu.assist"

// Run loads configuration, starts the initial data load and shows the desktop UI.
func Run(configPath string) error {
	if err := assist.LoadEnvFile(""); err != nil {
		return err
	}
	cfg, err := assist.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyColumnCandidates()

	u := newUIState(configPath)
	logger, err := logging.New(false, u.logBuf)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc := assist.NewService(cfg, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u.ctx = ctx
	a := fyneapp.NewWithID(fyneAppID)
	u.build(a, svc, logger)
	u.startWatcher()
	defer u.stopWatcher()

	go u.load()
	u.w.ShowAndRun()
	return nil
}
