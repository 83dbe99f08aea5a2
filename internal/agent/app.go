// Package agent wires configuration, the local store, object storage and the
// backend client into a runnable sync engine.
package agent

import (
	"context"
	"fmt"

	"github.com/openfield/fieldsync/internal/agent/config"
	"github.com/openfield/fieldsync/internal/archive"
	"github.com/openfield/fieldsync/internal/backend"
	"github.com/openfield/fieldsync/internal/engine"
	"github.com/openfield/fieldsync/internal/filex"
	"github.com/openfield/fieldsync/internal/logging"
	"github.com/openfield/fieldsync/internal/netx"
	"github.com/openfield/fieldsync/internal/objstore"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  objstore.ObjectStore
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(cfg.LogFile)

	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	if _, err := filex.EnsureDir(cfg.MediaDir); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}

	store, err := objstore.NewS3Store(ctx, objstore.Config{
		Region:         cfg.S3Region,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		BaseEndpoint:   cfg.S3BaseEndpoint,
		ForcePathStyle: cfg.S3ForcePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init: %w", err)
	}

	return &App{config: cfg, logger: logger, store: store}, nil
}

// RunPass executes one full export + reconcile + upload pass. The database
// handle is scoped to the pass: acquired at entry and closed on every exit
// path. Callers must not run two passes concurrently.
func (a *App) RunPass(ctx context.Context) error {
	cfg := a.config

	db, repos, err := OpenDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	defer db.Close()

	events := NewLogEvents(a.logger)

	builder := archive.NewBuilder(cfg.DataDir, cfg.DeviceID, cfg.SigningKey, a.logger)
	tracker := engine.NewTracker(repos.Records, builder.Path, events, a.logger)

	client := backend.NewClient(cfg.ServerBase, backend.DeviceParams{
		PhoneNumber: cfg.PhoneNumber,
		IMEI:        cfg.IMEI,
		DeviceID:    cfg.DeviceID,
		OSVersion:   cfg.OSVersion,
	})

	uploader := engine.NewUploader(a.store, client, repos.Queue, events, a.logger, cfg.UploadRetries)
	reconciler := engine.NewReconciler(client, repos.Queue, repos.Records, cfg.MediaDir, events, a.logger)

	online := func(ctx context.Context) bool {
		return netx.IsReachable(ctx, cfg.ServerBase, cfg.ProbeTimeout)
	}

	orch := engine.NewOrchestrator(tracker, builder, repos.Records, repos.Queue,
		uploader, reconciler, online, events, a.logger)

	a.logger.Info(ctx, "starting sync pass")
	orch.RunPass(ctx)
	a.logger.Info(ctx, "sync pass finished")

	return nil
}
