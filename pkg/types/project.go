package types

import "path/filepath"

// Universal slot names injected into every template context
const (
	ProjectNameKey = "_project_name"
	OutputNameKey  = "_output_name"
)

// Project is a parsed template directory
type Project struct {
	// Dir is the template root
	Dir string `json:"dir" yaml:"dir"`

	// ConfigPath is the manifest location
	ConfigPath string `json:"config_path" yaml:"config_path"`

	// Name is the declared project name, may be empty
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Slots  []Slot   `json:"slots" yaml:"slots"`
	Hooks  []Hook   `json:"hooks" yaml:"hooks"`

	// SingleFile is set for a frontmatter project loaded from one file.
	// Body then holds the template text following the manifest block.
	SingleFile bool   `json:"single_file,omitempty" yaml:"single_file,omitempty"`
	Body       string `json:"-" yaml:"-"`
}

// Slot returns the slot declared with key
func (p *Project) Slot(key string) (Slot, bool) {
	for _, s := range p.Slots {
		if s.Key == key {
			return s, true
		}
	}
	return Slot{}, false
}

// Hook returns the hook declared with key
func (p *Project) Hook(key string) (Hook, bool) {
	for _, h := range p.Hooks {
		if h.Key == key {
			return h, true
		}
	}
	return Hook{}, false
}

// ProjectName resolves _project_name for an output directory
func (p *Project) ProjectName(outDir string) string {
	if p.Name != "" {
		return p.Name
	}
	return OutputName(outDir)
}

// OutputName is the base name of the output path
func OutputName(outDir string) string {
	return filepath.Base(filepath.Clean(outDir))
}

// Universals returns the universal slots for a fill into outDir
func (p *Project) Universals(outDir string) map[string]interface{} {
	return map[string]interface{}{
		ProjectNameKey: p.ProjectName(outDir),
		OutputNameKey:  OutputName(outDir),
	}
}
