// Package config loads the optional iridium configuration file.
//
// The file is TOML:
//
//	verbose = true
//	heap_limit = 65536
//
//	[equates]
//	STACK_BASE = "0x100"
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/iridium/translate"
	"github.com/ezrec/iridium/vm"
)

var f = translate.From

var (
	ErrHeapLimit = errors.New(f("heap_limit must not be negative"))
)

// ErrUnknownKey lists configuration keys that are not understood.
type ErrUnknownKey []string

func (err ErrUnknownKey) Error() string {
	return f("unknown configuration keys: %v", strings.Join(err, ", "))
}

// Config is the iridium configuration.
type Config struct {
	Verbose   bool              `toml:"verbose"`    // Verbose logging.
	HeapLimit int               `toml:"heap_limit"` // Maximum VM heap size in bytes.
	Equates   map[string]string `toml:"equates"`    // Predefined assembler equates.
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		HeapLimit: vm.DEFAULT_HEAP_LIMIT,
		Equates:   map[string]string{},
	}
}

// Load reads a configuration file. Values not in the file keep their
// defaults.
func Load(path string) (cfg Config, err error) {
	cfg = Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	err = cfg.check(md)
	return
}

// Parse reads a configuration from TOML text.
func Parse(text string) (cfg Config, err error) {
	cfg = Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return
	}

	err = cfg.check(md)
	return
}

func (cfg *Config) check(md toml.MetaData) (err error) {
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make(ErrUnknownKey, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		err = keys
		return
	}

	if cfg.HeapLimit < 0 {
		err = ErrHeapLimit
		return
	}

	if cfg.Equates == nil {
		cfg.Equates = map[string]string{}
	}

	return
}

// Options returns the VM options for the configuration.
func (cfg Config) Options() []vm.Option {
	return []vm.Option{
		vm.HeapLimit(cfg.HeapLimit),
		vm.Verbose(cfg.Verbose),
	}
}
