package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	log "github.com/sirupsen/logrus"

	"workload-board/config"
	"workload-board/logging"
	"workload-board/storage"
)

type tableCreator interface {
	CreateTable(ctx context.Context, options *aztables.CreateTableOptions) (aztables.CreateTableResponse, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(logging.Options{Debug: cfg.Debug, Format: cfg.LogFormat, File: cfg.LogFile})
	logger.WithField("backend", cfg.Backend).Info("storage init starting")

	if err := prepare(context.Background(), cfg, logger); err != nil {
		logger.Fatalf("storage init: %v", err)
	}
	logger.Info("storage init complete")
}

// prepare creates whatever the configured backend needs before the server
// starts: the Azure table or the SQLite schema.
func prepare(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	switch cfg.Backend {
	case config.BackendTables:
		svc, err := aztables.NewServiceClientFromConnectionString(cfg.StorageConn, nil)
		if err != nil {
			return err
		}
		return createTable(ctx, svc.NewClient(cfg.BoardTable), logger)
	case config.BackendSQLite:
		kv, err := storage.OpenSQLite(cfg.SQLitePath, cfg.Namespace)
		if err != nil {
			return err
		}
		logger.WithField("path", cfg.SQLitePath).Info("sqlite schema ready")
		return kv.Close()
	case config.BackendMemory, config.BackendRedis:
		logger.Debug("nothing to prepare")
		return nil
	}
	return fmt.Errorf("unknown backend %q", cfg.Backend)
}

func createTable(ctx context.Context, c tableCreator, logger *log.Logger) error {
	_, err := c.CreateTable(ctx, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return err
		}
		logger.Debug("table already exists")
		return nil
	}
	logger.Info("table created")
	return nil
}
