package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/omm"
	"github.com/arloliu/omm/codec"
	"github.com/arloliu/omm/dictionary"
)

// app is the state shared by all subcommands, set up in PersistentPreRunE.
type app struct {
	cfgFile     string
	dictPath    string
	compression string
	logLevel    string

	cfg  config
	log  *zap.Logger
	dict *dictionary.Dictionary
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "rwfdump",
		Short: "Decode, encode and inspect RWF container payloads",
		Long: `rwfdump works with RWF-encoded container payloads: it renders them as
text, builds them from YAML descriptions, packs them into compressed frames
and looks up fields in a YAML field dictionary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "TOML config file")
	root.PersistentFlags().StringVar(&a.dictPath, "dict", "", "YAML field dictionary (overrides config)")
	root.PersistentFlags().StringVar(&a.compression, "compression", "", "frame compression: none, zstd, s2, lz4 (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	root.AddCommand(
		newDecodeCmd(a),
		newEncodeCmd(a),
		newDictCmd(a),
		newFrameCmd(a),
		newVersionCmd(),
	)

	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	if a.dictPath != "" {
		cfg.Dictionary = a.dictPath
	}
	if a.compression != "" {
		ct, err := parseCompression(a.compression)
		if err != nil {
			return err
		}
		cfg.Compression = ct
	}
	if a.logLevel != "" {
		lvl, err := zapcore.ParseLevel(a.logLevel)
		if err != nil {
			return fmt.Errorf("parse --log-level: %w", err)
		}
		cfg.LogLevel = lvl
	}
	a.cfg = cfg

	a.log, err = newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	if cfg.Dictionary != "" {
		a.dict, err = dictionary.LoadFile(cfg.Dictionary)
		if err != nil {
			return fmt.Errorf("load dictionary %s: %w", cfg.Dictionary, err)
		}
		a.log.Debug("dictionary loaded",
			zap.String("path", cfg.Dictionary),
			zap.String("version", a.dict.Version),
			zap.Int("fields", a.dict.Len()))
	}

	return nil
}

// registry returns a fresh registry bound to the loaded dictionary.
func (a *app) registry() (*codec.Registry, error) {
	opts := []codec.RegistryOption{codec.WithLogger(a.log)}
	if a.dict != nil {
		opts = append(opts, codec.WithDictionary(a.dict))
	}

	return codec.NewRegistry(opts...)
}

// fieldDictionary returns the loaded dictionary, or an untyped nil so that
// FieldList decoding reports NoDictionary.
func (a *app) fieldDictionary() codec.FieldDictionary {
	if a.dict == nil {
		return nil
	}

	return a.dict
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show rwfdump and wire versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "rwfdump version %s\n", omm.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "wire version %d.%d\n", omm.WireMajorVersion, omm.WireMinorVersion)

			return nil
		},
	}
}
