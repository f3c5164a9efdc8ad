package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestDecodePartial(t *testing.T) {
	cfg, err := config.Decode(strings.NewReader(`
table:
  capacity: 16
dag:
  max_capacity: 128
`))
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Table.Capacity)
	assert.Equal(t, 128, cfg.DAG.MaxCapacity)
	assert.Equal(t, config.Default().DAG.InitialCapacity, cfg.DAG.InitialCapacity)
	assert.Equal(t, config.Default().Trace, cfg.Trace)
}

func TestDecodeUnknownField(t *testing.T) {
	_, err := config.Decode(strings.NewReader("table:\n  slots: 4\n"))
	assert.Error(t, err)
}

func TestDecodeInvalid(t *testing.T) {
	for _, doc := range []string{
		"table:\n  capacity: 1\n",
		"table:\n  capacity: 70000\n",
		"dag:\n  initial_capacity: 64\n  max_capacity: 8\n",
		"trace:\n  buffer: -1\n",
		"demo:\n  yields: -3\n",
	} {
		_, err := config.Decode(strings.NewReader(doc))
		assert.True(t, errors.Is(err, config.ErrInvalid), doc)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exosched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("demo:\n  yields: 25\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Demo.Yields)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
