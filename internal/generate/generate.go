// Package generate runs the load, enrich, render and write pipeline for one
// test-vector family.
package generate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/remiblancher/vecgen/internal/audit"
	"github.com/remiblancher/vecgen/internal/loader"
	"github.com/remiblancher/vecgen/internal/render"
	"github.com/remiblancher/vecgen/internal/vector"
)

// EmbeddedPrefix marks a template resolved to the copy built into the binary.
const EmbeddedPrefix = "embedded:"

// Config describes one generator run. Paths left empty fall back to the
// family defaults, resolved against BaseDir.
type Config struct {
	Family   *vector.Family
	Input    string
	Format   loader.Format // empty: chosen from the input extension
	Template string
	Output   string

	// BaseDir is where default template and output names are resolved.
	// Empty means the directory of the running executable.
	BaseDir string

	Logger *zap.Logger
}

// Result summarizes a successful run.
type Result struct {
	RunID    string
	Family   string
	Records  int
	Input    string
	Template string
	Output   string
	Digest   string // hash-prefixed SHA-256 of the written header
}

// Paths is the resolved set of files for a run. Nothing is opened while
// resolving.
type Paths struct {
	Input    string
	Template string // file path, or EmbeddedPrefix + name
	Output   string
}

// Resolve validates cfg and computes the files the run will touch.
func Resolve(cfg Config) (Paths, error) {
	if cfg.Family == nil {
		return Paths{}, errors.New("no family selected")
	}
	if cfg.Input == "" {
		return Paths{}, errors.New("input file is required")
	}

	p := Paths{Input: cfg.Input, Template: cfg.Template, Output: cfg.Output}
	if p.Template != "" && p.Output != "" {
		return p, nil
	}

	base := cfg.BaseDir
	if base == "" {
		dir, err := executableDir()
		if err != nil {
			return Paths{}, fmt.Errorf("failed to locate executable: %w", err)
		}
		base = dir
	}

	if p.Template == "" {
		if cfg.Family.DefaultTemplate == "" {
			return Paths{}, fmt.Errorf("family %s has no default template; use --template", cfg.Family.Name)
		}
		p.Template = filepath.Join(base, cfg.Family.DefaultTemplate)
		if _, err := os.Stat(p.Template); err != nil && render.HasDefault(cfg.Family.DefaultTemplate) {
			p.Template = EmbeddedPrefix + cfg.Family.DefaultTemplate
		}
	}
	if p.Output == "" {
		if cfg.Family.DefaultOutput == "" {
			return Paths{}, fmt.Errorf("family %s has no default output; pass an output file", cfg.Family.Name)
		}
		p.Output = filepath.Join(base, cfg.Family.DefaultOutput)
	}
	return p, nil
}

// Run executes the pipeline. The output file is either fully written or
// left untouched.
func Run(cfg Config) (*Result, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	paths, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID), zap.String("family", cfg.Family.Name))
	log.Debug("resolved paths",
		zap.String("input", paths.Input),
		zap.String("template", paths.Template),
		zap.String("output", paths.Output))

	res, err := run(cfg, paths, runID, log)
	if err != nil {
		ctx := audit.Context{
			RunID:    runID,
			Family:   cfg.Family.Name,
			Input:    paths.Input,
			Template: paths.Template,
			Reason:   err.Error(),
		}
		if auditErr := audit.LogHeaderGenerated(paths.Output, "", ctx, false); auditErr != nil {
			return nil, errors.Join(err, auditErr)
		}
		return nil, err
	}

	ctx := audit.Context{
		RunID:    runID,
		Family:   res.Family,
		Input:    res.Input,
		Template: res.Template,
		Records:  res.Records,
	}
	if err := audit.LogHeaderGenerated(res.Output, res.Digest, ctx, true); err != nil {
		return nil, err
	}

	log.Info("generated header",
		zap.String("output", res.Output),
		zap.Int("records", res.Records),
		zap.String("digest", res.Digest))
	return res, nil
}

func run(cfg Config, paths Paths, runID string, log *zap.Logger) (*Result, error) {
	records, inputDigest, err := loadInput(paths.Input, cfg.Format)
	if err != nil {
		return nil, err
	}
	loaded := audit.Context{RunID: runID, Family: cfg.Family.Name, Input: paths.Input, Records: len(records)}
	if err := audit.LogVectorsLoaded(paths.Input, inputDigest, loaded, true); err != nil {
		return nil, err
	}
	log.Debug("loaded test vectors", zap.Int("records", len(records)), zap.String("digest", inputDigest))

	if err := cfg.Family.EnrichAll(records); err != nil {
		return nil, err
	}
	for i, r := range records {
		log.Debug("encoded record", zap.Int("index", i), zap.String("test_case_id", r.ID()))
	}

	tmpl, err := openTemplate(paths.Template)
	if err != nil {
		return nil, err
	}

	out, err := tmpl.RenderBytes(records)
	if err != nil {
		return nil, err
	}

	if err := WriteFileAtomic(paths.Output, out, 0644); err != nil {
		return nil, &FileError{Op: "write output", Path: paths.Output, Err: err}
	}

	return &Result{
		RunID:    runID,
		Family:   cfg.Family.Name,
		Records:  len(records),
		Input:    paths.Input,
		Template: paths.Template,
		Output:   paths.Output,
		Digest:   audit.Digest(out),
	}, nil
}

// loadInput parses the input document and hashes it in the same pass.
func loadInput(path string, format loader.Format) ([]vector.Record, string, error) {
	if format == "" {
		format = loader.FormatFor(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", &FileError{Op: "read input", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	records, err := loader.Load(io.TeeReader(f, h), format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return records, audit.HashPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func openTemplate(path string) (*render.Renderer, error) {
	if name, ok := strings.CutPrefix(path, EmbeddedPrefix); ok {
		return render.Default(name)
	}
	r, err := render.NewFromFile(path)
	if err != nil {
		return nil, &FileError{Op: "read template", Path: path, Err: err}
	}
	return r, nil
}

// LoadAndEnrich loads a document and enriches it without rendering.
func LoadAndEnrich(family *vector.Family, input string, format loader.Format) ([]vector.Record, error) {
	records, err := loader.LoadFile(input, format)
	if err != nil {
		return nil, err
	}
	if err := family.EnrichAll(records); err != nil {
		return nil, err
	}
	return records, nil
}
