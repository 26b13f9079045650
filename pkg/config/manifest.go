package config

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/A2-ai/spackle/pkg/errors"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/A2-ai/spackle/pkg/needs"
	"github.com/A2-ai/spackle/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

var log = logging.GetLogger("config")

// DefaultManifestName is the manifest file looked up in a project directory
const DefaultManifestName = "spackle.toml"

// manifestFile mirrors spackle.toml before validation
type manifestFile struct {
	Name   string    `toml:"name"`
	Ignore []string  `toml:"ignore"`
	Slots  []rawSlot `toml:"slots"`
	Hooks  []rawHook `toml:"hooks"`
}

type rawSlot struct {
	Key         string      `toml:"key"`
	Type        string      `toml:"type"`
	Name        string      `toml:"name"`
	Description string      `toml:"description"`
	Default     interface{} `toml:"default"`
	Needs       []string    `toml:"needs"`
}

type rawHook struct {
	Key         string       `toml:"key"`
	Command     []string     `toml:"command"`
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	Optional    *rawOptional `toml:"optional"`
	Needs       []string     `toml:"needs"`
	If          string       `toml:"if"`
}

type rawOptional struct {
	Default bool `toml:"default"`
}

// Load reads a project from path. A directory is read through its manifest
// file; a regular file is read as a single-file project.
func Load(path string, settings Settings) (*types.Project, error) {
	project, _, err := LoadGraph(path, settings)
	return project, err
}

// LoadGraph is Load that also returns the needs graph built while
// validating the project
func LoadGraph(path string, settings Settings) (*types.Project, *needs.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrManifestNotFound, "cannot open project %s", path)
	}
	if info.IsDir() {
		return loadProject(path, settings.ManifestName)
	}
	return loadProjectFile(path)
}

// LoadProject reads and validates <dir>/<manifestName>
func LoadProject(dir, manifestName string) (*types.Project, error) {
	project, _, err := loadProject(dir, manifestName)
	return project, err
}

func loadProject(dir, manifestName string) (*types.Project, *needs.Graph, error) {
	if manifestName == "" {
		manifestName = DefaultManifestName
	}
	configPath := filepath.Join(dir, manifestName)
	logger := log.With().Str("configPath", configPath).Logger()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, nil, errors.Wrapf(err, errors.ErrManifestNotFound, "no %s in %s", manifestName, dir)
		}
		return nil, nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", configPath)
	}

	project, err := ParseManifest(data)
	if err != nil {
		return nil, nil, err
	}
	project.Dir = dir
	project.ConfigPath = configPath

	graph, err := ValidateGraph(project)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug().
		Int("slots", len(project.Slots)).
		Int("hooks", len(project.Hooks)).
		Int("ignore", len(project.Ignore)).
		Msg("Manifest loaded")
	return project, graph, nil
}

// ParseManifest decodes manifest text. Slot types and defaults are checked
// here since the typed model cannot hold them otherwise; the remaining
// structural checks are left to Validate.
func ParseManifest(data []byte) (*types.Project, error) {
	var raw manifestFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		e := errors.Wrap(err, errors.ErrManifestParse, "failed to parse manifest")
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			e.WithDetail("row", row).WithDetail("column", col)
		}
		return nil, e
	}

	project := &types.Project{
		Name:   raw.Name,
		Ignore: raw.Ignore,
		Slots:  make([]types.Slot, 0, len(raw.Slots)),
		Hooks:  make([]types.Hook, 0, len(raw.Hooks)),
	}

	for _, rs := range raw.Slots {
		st, ok := types.ParseSlotType(rs.Type)
		if !ok {
			return nil, errors.Newf(errors.ErrManifestUnknownType,
				"slot %q has unknown type %q (want String, Number or Boolean)", rs.Key, rs.Type).
				WithDetail("key", rs.Key)
		}
		slot := types.Slot{
			Key:         rs.Key,
			Type:        st,
			Name:        rs.Name,
			Description: rs.Description,
			Needs:       rs.Needs,
		}
		if rs.Default != nil {
			def, err := types.SlotValueFromLiteral(st, rs.Default)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrManifestInvalidDefault,
					"default of slot %q does not match its type", rs.Key).
					WithDetail("key", rs.Key)
			}
			slot.Default = &def
		}
		project.Slots = append(project.Slots, slot)
	}

	for _, rh := range raw.Hooks {
		h := types.Hook{
			Key:         rh.Key,
			Command:     rh.Command,
			Name:        rh.Name,
			Description: rh.Description,
			Needs:       rh.Needs,
			If:          rh.If,
		}
		if rh.Optional != nil {
			h.Optional = &types.HookOptional{Default: rh.Optional.Default}
		}
		project.Hooks = append(project.Hooks, h)
	}

	return project, nil
}
