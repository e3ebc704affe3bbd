//go:build integration

package mysqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/plexsphere/logsync/internal/logstore"
	"github.com/plexsphere/logsync/internal/logstore/mysqlstore"
)

func TestStoreDrainOrderIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test disabled in short mode")
	}

	ctx := context.Background()
	container, db := startMySQLContainer(t, ctx)
	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(ctx)
	})

	store, err := mysqlstore.New[logstore.ExceptionEntry](db, "logsync_exceptions")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))

	require.NoError(t, store.Append(ctx,
		logstore.ExceptionEntry{ID: "e1", ClassName: "A"},
		logstore.ExceptionEntry{ID: "e2", ClassName: "B"},
		logstore.ExceptionEntry{ID: "e3", ClassName: "C"},
	))

	entries, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "e1", entries[0].ID)
	require.Equal(t, "e3", entries[2].ID)

	require.NoError(t, store.RemoveOldest(ctx))

	entries, err = store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "e2", entries[0].ID)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, store.RemoveOldest(ctx))
	require.NoError(t, store.RemoveOldest(ctx))
	require.ErrorIs(t, store.RemoveOldest(ctx), logstore.ErrEmpty)
}

func TestStoreMissingSchemaIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test disabled in short mode")
	}

	ctx := context.Background()
	container, db := startMySQLContainer(t, ctx)
	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(ctx)
	})

	store, err := mysqlstore.New[logstore.EventEntry](db, "logsync_missing")
	require.NoError(t, err)

	_, err = store.ListPending(ctx)
	require.ErrorIs(t, err, mysqlstore.ErrSchemaMissing)
}

func startMySQLContainer(t *testing.T, ctx context.Context) (testcontainers.Container, *sql.DB) {
	t.Helper()
	port := nat.Port("3306/tcp")
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0.36",
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_DATABASE":      "logsync",
		},
		WaitingFor: wait.ForSQL(port, "mysql", func(host string, port nat.Port) string {
			return fmt.Sprintf("root:secret@tcp(%s:%s)/logsync", host, port.Port())
		}).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("start mysql container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("resolve host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("resolve port: %v", err)
	}

	db, err := mysqlstore.Open(fmt.Sprintf("root:secret@tcp(%s:%s)/logsync", host, mappedPort.Port()))
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("open db: %v", err)
	}
	return container, db
}
