package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Guideword holds the CLI flag overriding the built-in guideword catalog
type Guideword struct {
	path string
}

func (x *Guideword) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "guideword-file",
			Usage:       "TOML file replacing the built-in guideword catalog",
			Category:    "Guideword",
			Destination: &x.path,
			Sources:     cli.EnvVars("RISKSCOPE_GUIDEWORD_FILE"),
		},
	}
}

// Path returns the configured file path
func (x *Guideword) Path() string {
	return x.path
}

// Configure loads the catalog from the file, or returns the built-in catalog
func (x *Guideword) Configure() (*model.GuidewordCatalog, error) {
	if x.path == "" {
		return model.DefaultGuidewordCatalog(), nil
	}
	return LoadGuidewordCatalog(x.path)
}

type guidewordFile struct {
	Guidewords []guidewordEntry `toml:"guideword"`
}

type guidewordEntry struct {
	Category    string `toml:"category"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Example     string `toml:"example"`
}

// LoadGuidewordCatalog reads a [[guideword]] TOML file and validates every entry
func LoadGuidewordCatalog(path string) (*model.GuidewordCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "guideword file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read guideword file", goerr.V(ConfigPathKey, path))
	}

	var file guidewordFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse guideword file",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}
	if len(file.Guidewords) == 0 {
		return nil, goerr.Wrap(ErrInvalidConfig, "guideword file has no [[guideword]] entries", goerr.V(ConfigPathKey, path))
	}

	entries := make([]model.Guideword, 0, len(file.Guidewords))
	for _, e := range file.Guidewords {
		entries = append(entries, model.Guideword{
			Category:    types.GuidewordCategory(e.Category),
			Name:        e.Name,
			Description: e.Description,
			Example:     e.Example,
		})
	}

	catalog, err := model.NewGuidewordCatalog(entries)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid guideword file", goerr.V(ConfigPathKey, path))
	}
	return catalog, nil
}
