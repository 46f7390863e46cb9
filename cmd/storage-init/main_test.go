package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/sirupsen/logrus/hooks/test"

	"workload-board/config"
)

type fakeCreator struct {
	err   error
	calls int
}

func (f *fakeCreator) CreateTable(context.Context, *aztables.CreateTableOptions) (aztables.CreateTableResponse, error) {
	f.calls++
	return aztables.CreateTableResponse{}, f.err
}

func TestCreateTable(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	if err := createTable(ctx, &fakeCreator{}, logger); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists := &fakeCreator{err: &azcore.ResponseError{ErrorCode: string(aztables.TableAlreadyExists), StatusCode: 409}}
	if err := createTable(ctx, exists, logger); err != nil {
		t.Fatalf("existing table should be accepted: %v", err)
	}

	boom := errors.New("boom")
	if err := createTable(ctx, &fakeCreator{err: boom}, logger); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestPrepareSQLite(t *testing.T) {
	logger, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "board.db")
	cfg := config.Config{Backend: config.BackendSQLite, SQLitePath: path, Namespace: "default"}

	if err := prepare(context.Background(), cfg, logger); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
	if err := prepare(context.Background(), cfg, logger); err != nil {
		t.Fatalf("prepare must be repeatable: %v", err)
	}
}

func TestPrepareUnknownBackend(t *testing.T) {
	logger, _ := test.NewNullLogger()
	if err := prepare(context.Background(), config.Config{Backend: "mongo"}, logger); err == nil {
		t.Fatalf("expected error")
	}
}
