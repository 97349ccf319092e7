package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/iridium/vm"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.False(cfg.Verbose)
	assert.Equal(vm.DEFAULT_HEAP_LIMIT, cfg.HeapLimit)
	assert.Empty(cfg.Equates)
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Parse(`
verbose = true
heap_limit = 4096

[equates]
BASE = "0x100"
`)
	assert.NoError(err)
	assert.True(cfg.Verbose)
	assert.Equal(4096, cfg.HeapLimit)
	assert.Equal(map[string]string{"BASE": "0x100"}, cfg.Equates)

	cfg, err = Parse(`verbose = true`)
	assert.NoError(err)
	assert.Equal(vm.DEFAULT_HEAP_LIMIT, cfg.HeapLimit)

	_, err = Parse(`heap_limit = -1`)
	assert.ErrorIs(err, ErrHeapLimit)

	_, err = Parse("heap_limt = 1\nverbos = true")
	var unknown ErrUnknownKey
	if assert.ErrorAs(err, &unknown) {
		assert.ElementsMatch([]string{"heap_limt", "verbos"}, []string(unknown))
	}

	_, err = Parse(`verbose = "yes"`)
	assert.Error(err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "iridium.toml")
	err := os.WriteFile(path, []byte("heap_limit = 16\n[equates]\nSIZE = \"4\"\n"), 0o644)
	assert.NoError(err)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(16, cfg.HeapLimit)
	assert.Equal("4", cfg.Equates["SIZE"])

	machine, err := vm.New(cfg.Options()...)
	assert.NoError(err)
	assert.Equal(16, machine.HeapLimit)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(err)
}
