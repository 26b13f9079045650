// Package spackle is the entry point for embedders: Info describes a
// project, Check validates it and Fill generates an output from it.
package spackle

import (
	"github.com/A2-ai/spackle/pkg/config"
	"github.com/A2-ai/spackle/pkg/needs"
	"github.com/A2-ai/spackle/pkg/types"
)

// InfoResult describes a project without any user values
type InfoResult struct {
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	ConfigPath string       `json:"config_path" yaml:"config_path"`
	SingleFile bool         `json:"single_file,omitempty" yaml:"single_file,omitempty"`
	Slots      []types.Slot `json:"slots" yaml:"slots"`
	Hooks      []types.Hook `json:"hooks" yaml:"hooks"`

	// HookOrder lists hook keys in execution order
	HookOrder []string `json:"hook_order" yaml:"hook_order"`
}

// Info loads the project at path, a directory or a single-file project.
// It fails only on manifest errors.
func Info(path string, opts ...Option) (*InfoResult, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	project, graph, err := load(path, o)
	if err != nil {
		return nil, err
	}

	info := &InfoResult{
		Name:       project.Name,
		ConfigPath: project.ConfigPath,
		SingleFile: project.SingleFile,
		Slots:      project.Slots,
		Hooks:      project.Hooks,
		HookOrder:  make([]string, 0, len(project.Hooks)),
	}
	if info.Slots == nil {
		info.Slots = []types.Slot{}
	}
	if info.Hooks == nil {
		info.Hooks = []types.Hook{}
	}
	for _, h := range graph.HookOrder() {
		info.HookOrder = append(info.HookOrder, h.Key)
	}
	return info, nil
}

func load(path string, o *options) (*types.Project, *needs.Graph, error) {
	return config.LoadGraph(path, o.settings)
}
