package overlap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ausgeo/ausgeo-cli/internal/asgs"
)

// MappingOptions configures a relationship-table build.
type MappingOptions struct {
	DataDir    string       // directory containing the Boundaries subdirectory
	OutputPath string       // defaults to <DataDir>/Relationships/<src>_to_<tgt>.csv
	SourceType asgs.GeoType // defaults to SAL
	TargetType asgs.GeoType // defaults to SUA
}

// TableFile returns the conventional relationship-table filename for a
// (source, target) geography pair.
func TableFile(src, tgt asgs.GeoType) string {
	return fmt.Sprintf("%s_to_%s.csv", src, tgt)
}

// CreateMapping builds the relationship table for a geography pair and writes
// it to disk, returning the output path. If the output file already exists
// the build is skipped entirely; deleting the file is how a rebuild is
// requested. Missing boundary files are fatal.
func CreateMapping(ctx context.Context, opts MappingOptions) (string, error) {
	if opts.SourceType == "" {
		opts.SourceType = asgs.SAL
	}
	if opts.TargetType == "" {
		opts.TargetType = asgs.SUA
	}

	out := opts.OutputPath
	if out == "" {
		out = filepath.Join(opts.DataDir, "Relationships", TableFile(opts.SourceType, opts.TargetType))
	}

	log := zap.L().With(
		zap.String("component", "overlap.mapping"),
		zap.String("source", string(opts.SourceType)),
		zap.String("target", string(opts.TargetType)),
	)

	if _, err := os.Stat(out); err == nil {
		log.Info("relationship table already exists, skipping build", zap.String("path", out))
		return out, nil
	}

	srcDS, ok := asgs.DatasetByType(opts.SourceType)
	if !ok {
		return "", eris.Errorf("overlap: no boundary dataset for geography type %q", opts.SourceType)
	}
	tgtDS, ok := asgs.DatasetByType(opts.TargetType)
	if !ok {
		return "", eris.Errorf("overlap: no boundary dataset for geography type %q", opts.TargetType)
	}

	start := time.Now()

	var sources, targets []asgs.Region
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sources, err = asgs.ReadShapefile(filepath.Join(opts.DataDir, srcDS.ShapefilePath), srcDS)
		return err
	})
	g.Go(func() error {
		var err error
		targets, err = asgs.ReadShapefile(filepath.Join(opts.DataDir, tgtDS.ShapefilePath), tgtDS)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	log.Info("boundary files loaded",
		zap.Int("sources", len(sources)),
		zap.Int("targets", len(targets)),
		zap.Duration("elapsed", time.Since(start)),
	)

	records := Build(sources, targets)

	if err := WriteTable(out, records); err != nil {
		return "", err
	}

	log.Info("relationship table written",
		zap.String("path", out),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return out, nil
}
