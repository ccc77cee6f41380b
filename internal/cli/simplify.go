package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"geosimplify/internal/config"
	"geosimplify/internal/geom"
	"geosimplify/internal/simplify"
)

func newSimplifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplify [file|-]",
		Short: "Simplify features from a file or stdin",
		Long: `Reads GeoJSON, WKT, KML or CSV from a file, or GeoJSON/WKT from stdin when the
file is absent or "-", and writes the simplified features as GeoJSON or WKT.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSimplify,
	}
	f := cmd.Flags()
	f.Int(workersFlag, config.Default().Workers, "features simplified concurrently")
	f.Bool(continueOnErrorFlag, false, "drop features that fail instead of aborting")
	f.String(formatFlag, config.FormatGeoJSON, "output format (geojson, wkt)")
	f.StringP(outputFlag, "o", "", "output file (default stdout)")
	return cmd
}

func runSimplify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	name := "-"
	if len(args) == 1 {
		name = args[0]
	}
	features, err := readFeatures(cmd.InOrStdin(), name)
	if err != nil {
		logger.Error("read input", zap.String("input", name), zap.Error(err))
		return err
	}
	logger.Debug("decoded input", zap.String("input", name), zap.Int("features", len(features)))

	start := time.Now()
	s := simplify.New(simplify.WithMaxRepairIterations(cfg.MaxRepairIterations))
	out, st, err := s.SimplifyAll(cmd.Context(), features, cfg.Options())
	if err != nil {
		if !cfg.ContinueOnError || out == nil {
			logger.Error("simplify", zap.Error(err))
			return err
		}
		for _, e := range multierr.Errors(err) {
			logger.Warn("feature dropped", zap.Error(e))
		}
	}
	logger.Info("simplified",
		zap.Int("features", st.Features),
		zap.Int("dropped", len(features)-len(out)),
		zap.Int("coords_in", st.InputCoords),
		zap.Int("coords_out", st.OutputCoords),
		zap.Int("repair_iterations", st.RepairIterations),
		zap.Duration("took", time.Since(start)),
	)

	data, err := encode(out, cfg.Format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data)
}

// readFeatures decodes stdin by content and files by extension.
func readFeatures(stdin io.Reader, name string) ([]geom.Feature, error) {
	if name != "-" {
		return geom.Load(name)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "read stdin")
	}
	return geom.Decode(data)
}

func encode(features []geom.Feature, format string) ([]byte, error) {
	switch format {
	case config.FormatWKT:
		var buf bytes.Buffer
		for i, f := range features {
			s, err := geom.FormatWKT(f.Geometry)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	default:
		data, err := geom.EncodeGeoJSON(features)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	path, _ := cmd.Flags().GetString(outputFlag)
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}

// Execute runs the command tree against the process streams.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}
