// Package envconfig loads a cel.Env's declarations from a YAML
// document, the same "environment as data" shape cel-go's own
// common/env.Config exposes for policy-authoring tools that want to
// declare variables and structs without writing Go.
//
// Only declarations are covered, and only from YAML to an Env; nothing
// exports an Env back to a Config. A Config can describe variables,
// constants, and struct types, but not function bindings — an
// overload's implementation is a Go closure, which has no YAML
// representation, so Function still has to be wired with
// cel.Function from Go. A Config is therefore additive: apply it with
// ToEnvOptions and pass the result to cel.NewEnv or Env.Extend
// alongside any cel.Function options the embedder needs.
package envconfig

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	celpkg "github.com/taichimaeda/cel-ts-sub000/cel"
	"github.com/taichimaeda/cel-ts-sub000/common/decls"
	"github.com/taichimaeda/cel-ts-sub000/common/values"
)

// Config is the YAML-serializable declaration set for an Env.
type Config struct {
	Container   string             `yaml:"container,omitempty"`
	StructTypes []StructTypeConfig `yaml:"structTypes,omitempty"`
	Variables   []VariableConfig   `yaml:"variables,omitempty"`
	Constants   []ConstantConfig   `yaml:"constants,omitempty"`
}

// StructTypeConfig declares one ad hoc nominal struct type.
type StructTypeConfig struct {
	Name   string        `yaml:"name"`
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig declares one field of a StructTypeConfig.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// VariableConfig declares one named input.
type VariableConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ConstantConfig declares one named value folded into the AST at
// type-check time.
type ConstantConfig struct {
	Name  string      `yaml:"name"`
	Type  string      `yaml:"type"`
	Value interface{} `yaml:"value"`
}

// Load decodes a Config from r.
func Load(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("envconfig: decoding config: %w", err)
	}
	return &cfg, nil
}

// ToEnvOptions converts every declaration in cfg into a cel.EnvOption,
// in the order struct types, then variables, then constants, so a
// variable or constant typed as one of cfg's own struct types resolves
// against a type that option list will have already declared by the
// time the checker sees it.
func (cfg *Config) ToEnvOptions() ([]celpkg.EnvOption, error) {
	opts := make([]celpkg.EnvOption, 0, len(cfg.StructTypes)+len(cfg.Variables)+len(cfg.Constants)+1)
	if cfg.Container != "" {
		opts = append(opts, celpkg.Container(cfg.Container))
	}
	for _, st := range cfg.StructTypes {
		fields := make([]decls.Field, len(st.Fields))
		for i, f := range st.Fields {
			t, err := parseType(f.Type)
			if err != nil {
				return nil, fmt.Errorf("envconfig: struct %s field %s: %w", st.Name, f.Name, err)
			}
			fields[i] = decls.Field{Name: f.Name, Type: t}
		}
		opts = append(opts, celpkg.StructType(st.Name, fields...))
	}
	for _, v := range cfg.Variables {
		t, err := parseType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("envconfig: variable %s: %w", v.Name, err)
		}
		opts = append(opts, celpkg.Variable(v.Name, t))
	}
	for _, c := range cfg.Constants {
		t, err := parseType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("envconfig: constant %s: %w", c.Name, err)
		}
		val := nativeToValue(c.Value)
		if errVal, ok := val.(*values.ErrorValue); ok {
			return nil, fmt.Errorf("envconfig: constant %s: %s", c.Name, errVal.Message)
		}
		opts = append(opts, celpkg.Constant(c.Name, t, val))
	}
	return opts, nil
}
