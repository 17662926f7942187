package prompts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/model"
	"gopkg.in/yaml.v3"
)

const libraryFileVersion = 1

// libraryFile is the shareable YAML form of a library.
type libraryFile struct {
	Prompts []model.PromptEntry `yaml:"prompts"`
	Version int                 `yaml:"version"`
}

// ExportYAML writes the library as YAML.
func (l *Library) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(&libraryFile{Version: libraryFileVersion, Prompts: l.All()}); err != nil {
		return fmt.Errorf("exporting prompts: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("exporting prompts: %w", err)
	}
	return nil
}

// ImportYAML reads prompts exported by ExportYAML. With replace the library
// becomes exactly the file contents; otherwise the prompts are appended.
// It returns the number of prompts read.
func (l *Library) ImportYAML(ctx context.Context, r io.Reader, replace bool) (int, error) {
	var lf libraryFile
	if err := yaml.NewDecoder(r).Decode(&lf); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: importing prompts: parsing YAML: %v", common.ErrInvalidArgument, err)
	}
	if lf.Version > libraryFileVersion {
		return 0, fmt.Errorf("%w: importing prompts: unsupported version %d", common.ErrInvalidArgument, lf.Version)
	}

	if replace {
		if err := l.Replace(ctx, lf.Prompts); err != nil {
			return 0, err
		}
		return len(lf.Prompts), nil
	}

	for i, e := range lf.Prompts {
		if err := l.Add(ctx, e.Text, e.Tags); err != nil {
			return i, fmt.Errorf("importing prompt %d: %w", i, err)
		}
	}
	return len(lf.Prompts), nil
}
