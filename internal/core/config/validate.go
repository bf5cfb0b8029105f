package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/tweakctl/internal/core/catalog"
	"github.com/colonyops/tweakctl/internal/core/styles"
	"github.com/colonyops/tweakctl/pkg/tmpl"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, required),
		criterio.Run("catalog_dir", c.CatalogDir, isDirectoryOrNotExist),
		criterio.Run("storage.backend", c.Storage.Backend, isBackend),
		criterio.Run("theme", c.Theme, isTheme),
		criterio.Run("apps.remove_template", c.Apps.RemoveTemplate, isRemoveTemplate),
		c.validateRunner(),
	)
}

func (c *Config) validateRunner() error {
	var errs criterio.FieldErrorsBuilder
	if c.Runner.Timeout < 0 {
		errs = errs.Append("runner.timeout", fmt.Errorf("must not be negative, got %s", c.Runner.Timeout))
	}
	for i, arg := range c.Runner.Shell {
		if arg == "" {
			errs = errs.Append(fmt.Sprintf("runner.shell[%d]", i), errors.New("must not be empty"))
		}
	}
	return errs.ToError()
}

func required(s string) error {
	if s == "" {
		return errors.New("is required")
	}
	return nil
}

func isBackend(s string) error {
	switch s {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("must be %q or %q, got %q", BackendJSON, BackendSQLite, s)
	}
}

func isTheme(s string) error {
	if _, ok := styles.GetPalette(s); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", s, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

// isRemoveTemplate renders the template against a sample app so both
// syntax errors and unknown fields are caught at load time.
func isRemoveTemplate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := tmpl.Render(s, catalog.AppRecord{ID: "sample", Package: "Sample.Package"}); err != nil {
		return fmt.Errorf("template error: %w", err)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
