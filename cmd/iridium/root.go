package main

import (
	"maps"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ezrec/iridium/asm"
	"github.com/ezrec/iridium/config"
	"github.com/ezrec/iridium/emulator"
	"github.com/ezrec/iridium/isa"
	"github.com/ezrec/iridium/repl"
	"github.com/ezrec/iridium/translate"
	"github.com/ezrec/iridium/vm"
)

var (
	configPath string
	verbose    bool
	debug      bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "iridium [file]",
	Short: "Assembler and virtual machine for iridium programs",
	Long: `Iridium runs a program for the iridium register machine.

The file may be assembly source, or a binary image made by 'iridium asm'.
With no file, iridium starts an interactive shell, where each line of
assembly is executed as it is entered.
`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: setup,
	RunE:              run,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	flags.BoolVar(&debug, "debug", false, "Show error stack traces")
}

// setup loads the configuration, and installs the logger.
func setup(cmd *cobra.Command, args []string) (err error) {
	cfg = config.Default()
	if len(configPath) != 0 {
		cfg, err = config.Load(configPath)
		if err != nil {
			return
		}
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
	}
	if err != nil {
		return
	}
	atexit.Register(func() { _ = logger.Sync() })

	asm.SetLogger(logger)
	vm.SetLogger(logger)

	logger.Debug("setup",
		zap.Stringer("language", translate.Language()),
		zap.String("config", configPath),
		zap.Int("heap_limit", cfg.HeapLimit),
	)

	return
}

// newEmulator creates an emulator for the configuration.
func newEmulator() (emu *emulator.Emulator, err error) {
	emu, err = emulator.NewEmulator(cfg.Options()...)
	if err != nil {
		return
	}

	emu.Verbose = cfg.Verbose
	maps.Copy(emu.Equates, cfg.Equates)

	return
}

// load assembles a source file, or loads a binary image, into emu.
func load(emu *emulator.Emulator, path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.WithStack(err)
		return
	}

	if isa.HasMagic(data) {
		err = emu.Load(data)
	} else {
		err = emu.Assemble(string(data))
	}
	if err != nil {
		err = errors.Wrap(err, path)
		return
	}

	logger.Debug("loaded", zap.String("path", path), zap.Int("bytes", len(emu.VM.Program)))
	return
}

func run(cmd *cobra.Command, args []string) (err error) {
	emu, err := newEmulator()
	if err != nil {
		return
	}

	if len(args) == 0 {
		sh := repl.NewShell(emu)
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return repl.RunTerminal(sh)
		}
		return repl.RunLines(sh, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	err = load(emu, args[0])
	if err != nil {
		return
	}

	emu.VM.Output = cmd.OutOrStdout()
	err = emu.Run()
	if err != nil {
		err = errors.Wrap(err, args[0])
	}

	return
}
