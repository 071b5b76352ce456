package sigbind

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/lexer"
	"github.com/funvibe/sigbind/internal/parser"
	"github.com/funvibe/sigbind/internal/pipeline"
	"github.com/funvibe/sigbind/internal/types"
)

// Manifest is a YAML declaration file: a namespace's methods (signature
// text plus hook and body names) and optional user constraint definitions.
// Hook and body callables themselves are registered in code; the manifest
// only names them.
type Manifest struct {
	Namespace   string                `yaml:"namespace"`
	Constraints []types.ConstraintDef `yaml:"constraints,omitempty"`
	Methods     []ManifestMethod      `yaml:"methods"`
}

type ManifestMethod struct {
	Name      string `yaml:"name"`
	Signature string `yaml:"signature"`
	Method    bool   `yaml:"method,omitempty"`
	BuildArgs string `yaml:"build_args,omitempty"`
	CheckArgs string `yaml:"check_args,omitempty"`
	Body      string `yaml:"body,omitempty"`
}

// LoadManifest parses manifest YAML.
func LoadManifest(data []byte) (*Manifest, error) {
	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if mf.Namespace == "" {
		return nil, fmt.Errorf("manifest: namespace is required")
	}
	for i, m := range mf.Methods {
		if m.Name == "" {
			return nil, fmt.Errorf("manifest: method %d has no name", i)
		}
	}
	return &mf, nil
}

// LoadManifestFile reads and parses a manifest from disk.
func LoadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadManifest(data)
}

// Types builds a constraint registry from the builtins plus the manifest's
// own definitions.
func (mf *Manifest) Types() (*TypeRegistry, error) {
	reg := types.DefaultRegistry()
	if len(mf.Constraints) == 0 {
		return reg, nil
	}
	raw, err := yaml.Marshal(struct {
		Constraints []types.ConstraintDef `yaml:"constraints"`
	}{mf.Constraints})
	if err != nil {
		return nil, err
	}
	if err := reg.LoadYAML(raw); err != nil {
		return nil, err
	}
	return reg, nil
}

// Check runs every method declaration through the lex/parse/validate
// pipeline and returns the collected diagnostics, keyed in order of the
// manifest's methods. An empty result means the manifest is clean.
func (mf *Manifest) Check() (map[string][]*diagnostics.Error, error) {
	reg, err := mf.Types()
	if err != nil {
		return nil, err
	}
	pl := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&types.ValidateProcessor{Registry: reg},
	)

	out := make(map[string][]*diagnostics.Error)
	for _, m := range mf.Methods {
		ctx := pl.Run(&pipeline.Context{Name: m.Name, Source: m.Signature, Method: m.Method})
		if len(ctx.Errors) > 0 {
			out[m.Name] = ctx.Errors
		}
	}
	return out, nil
}

// Declare declares every manifest method into ns. Methods with a body name
// are declared by-name; the caller registers the named bodies and hooks,
// then finalizes the namespace.
func (mf *Manifest) Declare(ns *Namespace) error {
	for _, m := range mf.Methods {
		err := ns.Declare(Declaration{
			Name:      m.Name,
			Signature: m.Signature,
			Method:    m.Method,
			BuildArgs: m.BuildArgs,
			CheckArgs: m.CheckArgs,
			BodyName:  m.Body,
		})
		if err != nil {
			return fmt.Errorf("method %q: %w", m.Name, err)
		}
	}
	return nil
}
