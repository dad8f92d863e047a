package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	SecretKey     string `json:"secret_key"`
	RequestPerDay int    `json:"request_per_day"`
	Nested        struct {
		Dir string `json:"dir"`
	} `json:"nested"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("a", "config.local.json5"), LocalPath(filepath.Join("a", "config.json5")))
	require.Equal(t, "config.local", LocalPath("config"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		// comments and trailing commas are allowed
		secret_key: "base",
		request_per_day: 5000,
		nested: { dir: "cache" },
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ secret_key: "local" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.SecretKey)
	require.Equal(t, 5000, cfg.RequestPerDay)
	require.Equal(t, "cache", cfg.Nested.Dir)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{ secret_key: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	err := os.MkdirAll(nested, 0755)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "a", "config.json5"), `{ secret_key: "found" }`)

	cfg, path, err := ReadRecursively[testConfig](nested, "config.json5")
	require.NoError(t, err)
	require.Equal(t, "found", cfg.SecretKey)
	require.Equal(t, filepath.Join(root, "a", "config.json5"), path)

	_, _, err = ReadRecursively[testConfig](nested, "missing.json5")
	require.True(t, os.IsNotExist(err))
}
