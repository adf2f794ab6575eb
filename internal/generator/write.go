package generator

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/verustcode/buildtime/pkg/errors"
)

// Result reports what Generate did.
type Result struct {
	Path    string
	Changed bool
	Values  []Value
}

// Generate renders plan and writes it to plan.Output. The file is replaced
// atomically and left untouched when its content would not change; on any error
// nothing is written.
func (g *Generator) Generate(plan Plan) (*Result, error) {
	if plan.Output == "" {
		return nil, errors.ErrValidation("output path is required")
	}

	values, err := g.Values(plan)
	if err != nil {
		return nil, err
	}
	src, err := source(plan, values)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: plan.Output, Values: values}

	existing, err := os.ReadFile(plan.Output)
	if err == nil && bytes.Equal(existing, src) {
		g.log.Info("Generated file is up to date", zap.String("path", plan.Output))
		return res, nil
	}
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeWriteOutput, "failed to read existing output", err)
	}

	if err := writeFileAtomic(plan.Output, src); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteOutput, "failed to write "+plan.Output, err)
	}
	res.Changed = true

	g.log.Info("Wrote generated file",
		zap.String("path", plan.Output),
		zap.String("package", plan.Package),
		zap.Int("constants", len(values)))
	return res, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".buildtime-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
