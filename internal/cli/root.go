// Package cli wires the geosimplify commands.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"geosimplify/internal/config"
)

const (
	configFlag              = "config"
	toleranceFlag           = "tolerance"
	highQualityFlag         = "high-quality"
	workersFlag             = "workers"
	maxRepairIterationsFlag = "max-repair-iterations"
	continueOnErrorFlag     = "continue-on-error"
	formatFlag              = "format"
	outputFlag              = "output"
	logLevelFlag            = "log-level"
)

// NewRootCmd builds the command tree. Input, output and logs go through the
// given streams.
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "geosimplify",
		Short:         "Simplify GeoJSON LineString and Polygon features",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringP(configFlag, "c", "", "path to a YAML config file")
	pf.Float64P(toleranceFlag, "t", config.Default().Tolerance, "simplification tolerance in coordinate units")
	pf.Bool(highQualityFlag, false, "skip the radial-distance pre-pass")
	pf.Int(maxRepairIterationsFlag, config.Default().MaxRepairIterations, "bound on tolerance relaxation steps per polygon ring")
	pf.String(logLevelFlag, config.Default().LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(newSimplifyCmd(), newViewCmd())
	return root
}

// loadConfig reads --config when given and overlays every flag the user set.
func loadConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path, _ := flags.GetString(configFlag); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case toleranceFlag:
			cfg.Tolerance, err = flags.GetFloat64(f.Name)
		case highQualityFlag:
			cfg.HighQuality, err = flags.GetBool(f.Name)
		case workersFlag:
			cfg.Workers, err = flags.GetInt(f.Name)
		case maxRepairIterationsFlag:
			cfg.MaxRepairIterations, err = flags.GetInt(f.Name)
		case continueOnErrorFlag:
			cfg.ContinueOnError, err = flags.GetBool(f.Name)
		case formatFlag:
			cfg.Format, err = flags.GetString(f.Name)
		case logLevelFlag:
			cfg.LogLevel, err = flags.GetString(f.Name)
		}
	})
	if err != nil {
		return config.Config{}, errors.Wrap(err, "flags")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "config")
	}
	return cfg, nil
}

// newLogger returns a console logger on w at the configured level.
func newLogger(cfg config.Config, w io.Writer) (*zap.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "name",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("geosimplify"), nil
}
