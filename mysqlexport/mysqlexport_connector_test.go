package mysqlexport

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/wsl-format/wsl/wsldb"
)

type testMySQLContainer struct {
	container *mysql.MySQLContainer
	dsn       string
	db        *sql.DB
}

func setupMySQL(t *testing.T) *testMySQLContainer {
	t.Helper()
	ctx := context.Background()

	container, err := mysql.Run(ctx, "mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("root"),
		mysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err, "failed to open direct DB connection")
	require.NoError(t, db.PingContext(ctx), "failed to ping database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close DB connection: %v", err)
		}
	})

	return &testMySQLContainer{container: container, dsn: dsn, db: db}
}

func TestExporterConnectIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := setupMySQL(t)
	ctx := context.Background()

	t.Run("successful connection", func(t *testing.T) {
		exp := NewExporter(Options{DSN: tc.dsn})
		require.NoError(t, exp.Connect(ctx))
		require.NoError(t, exp.Close())
	})

	t.Run("invalid DSN fails", func(t *testing.T) {
		exp := NewExporter(Options{DSN: "invalid:user@tcp(127.0.0.1:1)/nope"})
		assert.Error(t, exp.Connect(ctx))
		assert.NoError(t, exp.Close())
	})
}

func TestExporterExportIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tc := setupMySQL(t)
	ctx := context.Background()

	sch := mustCompile(t, "DOMAIN P Atom\nDOMAIN A Integer\nTABLE Person P A\n")
	db := &wsldb.Database{
		Schema: sch,
		Tables: map[string][]wsldb.Row{
			"Person": {{"alice", uint64(30)}, {"bob", uint64(42)}},
		},
	}

	exp := NewExporter(Options{DSN: tc.dsn})
	require.NoError(t, exp.Connect(ctx))
	require.NoError(t, exp.Export(ctx, db))
	require.NoError(t, exp.Close())

	var count int
	require.NoError(t, tc.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM `Person`").Scan(&count))
	assert.Equal(t, 2, count)
}
