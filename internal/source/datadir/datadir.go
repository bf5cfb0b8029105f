// Package datadir reads catalog data from a directory of JSON or YAML files:
// one file per category, apps.json, and presets.json.
package datadir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/tweakctl/internal/core/catalog"
	"github.com/colonyops/tweakctl/internal/core/item"
	"github.com/colonyops/tweakctl/internal/core/logging"
	"github.com/colonyops/tweakctl/internal/core/validate"
)

const (
	appsFile    = "apps"
	presetsFile = "presets"
)

// extensions are tried in order.
var extensions = []string{".json", ".yaml", ".yml"}

var utf8BOM = []byte("\xef\xbb\xbf")

// InstalledProbe lists the package names installed on the host.
type InstalledProbe interface {
	Installed(ctx context.Context) ([]string, error)
}

// FileSource implements catalog.Source over a directory.
type FileSource struct {
	dir    string
	probe  InstalledProbe
	logger zerolog.Logger
}

var _ catalog.Source = (*FileSource)(nil)

// Option configures a FileSource.
type Option func(*FileSource)

// WithProbe sets the probe used to mark apps as installed. Without one,
// IsInstalled is left unset.
func WithProbe(p InstalledProbe) Option {
	return func(s *FileSource) { s.probe = p }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *FileSource) { s.logger = l }
}

// New creates a FileSource rooted at dir.
func New(dir string, opts ...Option) *FileSource {
	s := &FileSource{
		dir:    dir,
		logger: logging.Component("datadir"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the data directory.
func (s *FileSource) Dir() string { return s.dir }

// itemRecord accepts both spellings of the rollback field found in catalog
// files.
type itemRecord struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	Category        string `json:"category" yaml:"category"`
	Safe            bool   `json:"safe" yaml:"safe"`
	Command         string `json:"command" yaml:"command"`
	RollbackCommand string `json:"rollbackCommand" yaml:"rollbackCommand"`
	RollbackSnake   string `json:"rollback_command" yaml:"rollback_command"`
}

func (r itemRecord) toItem() item.Item {
	rollback := r.RollbackCommand
	if rollback == "" {
		rollback = r.RollbackSnake
	}
	return item.Item{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Category:       item.Category(r.Category),
		Safe:           r.Safe,
		Action:         r.Command,
		RollbackAction: rollback,
	}
}

type presetsDocument struct {
	Presets []item.Preset `json:"presets" yaml:"presets"`
}

// FetchCatalog reads <dir>/<category>.{json,yaml,yml}.
func (s *FileSource) FetchCatalog(ctx context.Context, category item.Category) ([]item.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []itemRecord
	if err := s.decode(string(category), &records); err != nil {
		return nil, err
	}

	items := make([]item.Item, len(records))
	for i, r := range records {
		items[i] = r.toItem()
	}
	return items, nil
}

// FetchApps reads <dir>/apps.{json,yaml,yml} and, when a probe is set, marks
// each app installed or not. A probe failure leaves IsInstalled unset.
func (s *FileSource) FetchApps(ctx context.Context) ([]catalog.AppRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var apps []catalog.AppRecord
	if err := s.decode(appsFile, &apps); err != nil {
		return nil, err
	}

	if s.probe == nil {
		return apps, nil
	}

	installed, err := s.probe.Installed(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("installed app probe failed")
		return apps, nil
	}

	for i := range apps {
		ok := matchesInstalled(apps[i].Package, installed)
		apps[i].IsInstalled = &ok
	}
	return apps, nil
}

// FetchPresets reads <dir>/presets.{json,yaml,yml} with a root "presets" key.
func (s *FileSource) FetchPresets(ctx context.Context) ([]item.Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc presetsDocument
	if err := s.decode(presetsFile, &doc); err != nil {
		return nil, err
	}
	if err := validatePresets(doc.Presets); err != nil {
		return nil, fmt.Errorf("invalid presets: %w", err)
	}
	return doc.Presets, nil
}

func (s *FileSource) decode(name string, dest any) error {
	path, err := s.find(name)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := unmarshal(path, data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	s.logger.Debug().Str("path", path).Msg("catalog file decoded")
	return nil
}

// unmarshal decodes JSON files with encoding/json, which accepts escapes
// such as \/ that YAML rejects, and everything else with yaml.v3.
func unmarshal(path string, data []byte, dest any) error {
	if filepath.Ext(path) == ".json" {
		return json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), dest)
	}
	return yaml.Unmarshal(data, dest)
}

func (s *FileSource) find(name string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}
	return "", fmt.Errorf("failed to read file: %s not found in %s", name+".json", s.dir)
}

func validatePresets(presets []item.Preset) error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(presets))

	for i, p := range presets {
		field := fmt.Sprintf("presets[%d]", i)
		if err := validate.ID(p.ID); err != nil {
			errs = errs.Append(field+".id", err)
			continue
		}
		if seen[p.ID] {
			errs = errs.Append(field+".id", fmt.Errorf("duplicate preset id %q", p.ID))
		}
		seen[p.ID] = true
		if err := validate.Required(p.Name); err != nil {
			errs = errs.Append(field+".name", err)
		}
	}

	return errs.ToError()
}

// matchesInstalled reports whether pkg, which may be a glob such as
// "Microsoft.Bing*", names any installed package. Matching ignores case.
func matchesInstalled(pkg string, installed []string) bool {
	pattern := strings.ToLower(strings.TrimSpace(pkg))
	if pattern == "" {
		return false
	}
	for _, name := range installed {
		ok, err := doublestar.Match(pattern, strings.ToLower(name))
		if err != nil {
			return false
		}
		if ok {
			return true
		}
	}
	return false
}
