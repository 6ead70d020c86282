package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophjournal/internal/client/api"
	"github.com/iudanet/gophjournal/internal/client/iocli"
	"github.com/iudanet/gophjournal/internal/client/storage/boltdb"
)

func newTestCli(t *testing.T, serverURL string, passphrases Passphrases) (*Cli, *iocli.IOMock) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cli_test.db")
	store, err := boltdb.New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	mockIO := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {},
		PrintfFunc:  func(format string, a ...any) {},
		ReadInputFunc: func(prompt string) (string, error) {
			return "", nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return "", nil
		},
		WriteFunc: func(p []byte) (int, error) {
			return len(p), nil
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mockIO, api.NewClient(serverURL), store, logger, passphrases, time.Minute), mockIO
}

// TestGetPassphrase_FromEnvVar проверяет чтение passphrase из переменной окружения
func TestGetPassphrase_FromEnvVar(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{
		FromFile: "",
		FromArgs: "from args should lose",
	})
	t.Setenv(EnvPassphrase, "passphrase from env")

	passphrase, err := c.getPassphrase()
	require.NoError(t, err)
	assert.Equal(t, "passphrase from env", passphrase)
}

// TestGetPassphrase_FromFile проверяет чтение passphrase из файла
func TestGetPassphrase_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passphrase.txt")
	require.NoError(t, os.WriteFile(path, []byte("passphrase from file\n"), 0o600))

	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{
		FromFile: path,
		FromArgs: "from args should lose",
	})

	passphrase, err := c.getPassphrase()
	require.NoError(t, err)
	assert.Equal(t, "passphrase from file", passphrase)
}

// TestGetPassphrase_FromArgs проверяет чтение passphrase из CLI параметра
func TestGetPassphrase_FromArgs(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{
		FromArgs: "passphrase from args",
	})

	passphrase, err := c.getPassphrase()
	require.NoError(t, err)
	assert.Equal(t, "passphrase from args", passphrase)
}

// TestGetPassphrase_InteractiveFallback проверяет интерактивный запрос,
// когда остальные источники пусты
func TestGetPassphrase_InteractiveFallback(t *testing.T) {
	c, mockIO := newTestCli(t, "http://localhost:8080", Passphrases{})
	mockIO.ReadPasswordFunc = func(prompt string) (string, error) {
		return "typed passphrase", nil
	}

	passphrase, err := c.getPassphrase()
	require.NoError(t, err)
	assert.Equal(t, "typed passphrase", passphrase)
	assert.Len(t, mockIO.ReadPasswordCalls(), 1)
}

func TestGetPassphrase_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passphrase.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{FromFile: path})

	_, err := c.getPassphrase()
	require.Error(t, err)
}

func TestRun_UnknownCommand(t *testing.T) {
	c, _ := newTestCli(t, "http://localhost:8080", Passphrases{})

	err := c.Run(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
