package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	statements := []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE, last_name TEXT)`,
		`CREATE INDEX name_idx ON users (last_name)`,
		`CREATE INDEX name_copy ON users (last_name)`,
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL)`,
		`CREATE INDEX orders_user ON orders (user_id)`,
	}
	for _, statement := range statements {
		_, err := conn.Exec(statement)
		require.NoError(t, err)
	}
	return "sqlite://" + path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLI(&cli{}, args...)
	return out, err
}

func runCLI(c *cli, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := c.rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := c.execute(cmd)
	return out.String(), errOut.String(), err
}

func TestIndexesCommand(t *testing.T) {
	url := newDatabase(t)

	out, err := run(t, "indexes", "--url", url, "--table", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "TABLE orders")
	assert.Contains(t, out, "orders_user: INDEX BTREE (user_id)")
	assert.NotContains(t, out, "TABLE users")

	out, err = run(t, "indexes", "--url", url, "--exclude", "orders", "--kinds", "primary", "-f", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Indexes"))
	assert.Contains(t, out, "- **PRIMARY:** PRIMARY")
	assert.NotContains(t, out, "name_idx:")

	_, err = run(t, "indexes", "--url", url, "--kinds", "clustered")
	assert.Error(t, err)
}

func TestDuplicatesCommand(t *testing.T) {
	url := newDatabase(t)

	out, err := run(t, "duplicates", "--url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "users: The indexes")
	assert.Contains(t, out, "seem to be equal and one of them could possibly be removed.")

	out, err = run(t, "duplicates", "--url", url, "-t", "orders")
	require.NoError(t, err)
	assert.Equal(t, "No duplicate indexes found.\n", out)
}

func TestReportCommand(t *testing.T) {
	url := newDatabase(t)
	dir := filepath.Join(t.TempDir(), "report")

	out, err := run(t, "report", "--url", url, "--output-dir", dir, "-f", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 tables")

	for _, name := range []string{"_overview.md", "users.md", "orders.md"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	_, err = run(t, "report", "--url", url)
	assert.Error(t, err)

	_, err = run(t, "report", "--url", url, "--output-dir", dir, "--output", filepath.Join(dir, "x.txt"))
	assert.Error(t, err)
}

func TestOutputFile(t *testing.T) {
	url := newDatabase(t)
	path := filepath.Join(t.TempDir(), "indexes.txt")

	out, err := run(t, "indexes", "--url", url, "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "TABLE users")
}

func TestEngineCommandsNeedMySQL(t *testing.T) {
	url := newDatabase(t)

	_, err := run(t, "engines", "--url", url)
	assert.ErrorContains(t, err, "only available for MySQL")

	_, err = run(t, "engine", "InnoDB", "--url", url)
	assert.ErrorContains(t, err, "only available for MySQL")

	_, err = run(t, "disk-usage", "--url", url, "--table", "users")
	assert.ErrorContains(t, err, "only available for MySQL")

	_, err = run(t, "disk-usage", "--url", url)
	assert.Error(t, err)
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	url := newDatabase(t)
	configPath := filepath.Join(t.TempDir(), "dbmeta.yaml")
	config := "url: " + url + "\nformat: markdown\nlog_level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	out, err := run(t, "indexes", "--config", configPath, "-t", "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "## orders")

	out, err = run(t, "indexes", "--config", configPath, "-t", "orders", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "TABLE orders")

	_, err = run(t, "indexes", "--config", configPath, "--format", "html")
	assert.Error(t, err)
}

func TestMissingURL(t *testing.T) {
	_, err := run(t, "indexes")
	assert.ErrorContains(t, err, "--url must be specified")
}

func TestFailedCommandFlushesLogger(t *testing.T) {
	c := &cli{}
	_, errOut, err := runCLI(c, "engines", "--url", newDatabase(t))
	require.Error(t, err)
	assert.Nil(t, c.cleanup)
	assert.Contains(t, errOut, "command failed")
	assert.Contains(t, errOut, "dbmeta engines")

	c = &cli{}
	_, _, err = runCLI(c, "indexes", "--url", newDatabase(t), "-t", "orders")
	require.NoError(t, err)
	assert.Nil(t, c.cleanup)
}

func TestParseTableList(t *testing.T) {
	tests := []struct {
		name       string
		tablesStr  string
		wantTables []string
	}{
		{
			name:       "single table",
			tablesStr:  "users",
			wantTables: []string{"users"},
		},
		{
			name:       "multiple tables",
			tablesStr:  "users,posts,comments",
			wantTables: []string{"users", "posts", "comments"},
		},
		{
			name:       "tables with spaces",
			tablesStr:  "users, posts, comments",
			wantTables: []string{"users", "posts", "comments"},
		},
		{
			name:       "empty string",
			tablesStr:  "",
			wantTables: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTables := parseTableList(tt.tablesStr)

			if len(gotTables) != len(tt.wantTables) {
				t.Errorf("parseTableList() returned %d tables, want %d", len(gotTables), len(tt.wantTables))
				return
			}

			for i, table := range gotTables {
				if table != tt.wantTables[i] {
					t.Errorf("parseTableList() table[%d] = %s, want %s", i, table, tt.wantTables[i])
				}
			}
		})
	}
}
