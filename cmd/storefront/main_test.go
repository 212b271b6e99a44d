package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestCartCommands(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_SQLITE_PATH", filepath.Join(t.TempDir(), "storefront.db"))
	t.Setenv("LOG_LEVEL", "error")

	out := run(t, "cart", "add", "p-1", "2", "--name", "Bun", "--price", "20")
	assert.Contains(t, out, "Bun")

	out = run(t, "cart", "add", "p-1", "--name", "Bun", "--price", "20")
	assert.Contains(t, out, "60.00")

	out = run(t, "cart", "update", "p-1", "0")
	assert.Contains(t, out, "Your cart is empty")

	out = run(t, "--namespace", "other", "cart", "list")
	assert.Contains(t, out, "Your cart is empty")
}

func TestWhoamiLoggedOut(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	out := run(t, "whoami")
	assert.Contains(t, out, "Not logged in")
}

func TestInquire(t *testing.T) {
	var rows atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("COURSE_SHEET_URL", srv.URL)

	out := run(t, "inquire", "--name", "Meera", "--phone", "9876543210", "--email", "meera@example.com", "--age", "24", "-m", "Weekend batches?")
	assert.Contains(t, out, "We will call 9876543210 soon")
	assert.Equal(t, int32(1), rows.Load())
}
