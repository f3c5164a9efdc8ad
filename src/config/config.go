// Package config loads the scheduler's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Table TableConfig `yaml:"table"`
	DAG   DAGConfig   `yaml:"dag"`
	Trace TraceConfig `yaml:"trace"`
	Demo  DemoConfig  `yaml:"demo"`
}

type TableConfig struct {
	Capacity int `yaml:"capacity"`
}

type DAGConfig struct {
	InitialCapacity int `yaml:"initial_capacity"`
	// 0 grows the ready heap without bound.
	MaxCapacity int `yaml:"max_capacity"`
}

type TraceConfig struct {
	Addr   string `yaml:"addr"`
	Buffer int    `yaml:"buffer"`
}

type DemoConfig struct {
	Yields int `yaml:"yields"`
}

var ErrInvalid = errors.New("config: invalid")

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Table: TableConfig{Capacity: capability.DefaultCapacity},
		DAG:   DAGConfig{InitialCapacity: 64},
		Trace: TraceConfig{Addr: "localhost:4243", Buffer: 1024},
		Demo:  DemoConfig{Yields: 10},
	}
}

// Load reads a YAML file. Fields left out keep their default values.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from reader, rejecting unknown fields.
func Decode(reader io.Reader) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, err
	}
	cfg.fill(Default())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fill(def Config) {
	if c.Table.Capacity == 0 {
		c.Table.Capacity = def.Table.Capacity
	}
	if c.DAG.InitialCapacity == 0 {
		c.DAG.InitialCapacity = def.DAG.InitialCapacity
	}
	if c.Trace.Addr == "" {
		c.Trace.Addr = def.Trace.Addr
	}
	if c.Trace.Buffer == 0 {
		c.Trace.Buffer = def.Trace.Buffer
	}
	if c.Demo.Yields == 0 {
		c.Demo.Yields = def.Demo.Yields
	}
}

func (c Config) Validate() error {
	switch {
	case c.Table.Capacity < 2 || c.Table.Capacity > capability.MaxSlots:
		return fmt.Errorf("%w: table.capacity %d not in [2, %d]", ErrInvalid, c.Table.Capacity, capability.MaxSlots)
	case c.DAG.InitialCapacity < 0:
		return fmt.Errorf("%w: dag.initial_capacity %d", ErrInvalid, c.DAG.InitialCapacity)
	case c.DAG.MaxCapacity < 0:
		return fmt.Errorf("%w: dag.max_capacity %d", ErrInvalid, c.DAG.MaxCapacity)
	case c.DAG.MaxCapacity > 0 && c.DAG.MaxCapacity < c.DAG.InitialCapacity:
		return fmt.Errorf("%w: dag.max_capacity %d below initial_capacity %d", ErrInvalid, c.DAG.MaxCapacity, c.DAG.InitialCapacity)
	case c.Trace.Buffer < 1:
		return fmt.Errorf("%w: trace.buffer %d", ErrInvalid, c.Trace.Buffer)
	case c.Demo.Yields < 0:
		return fmt.Errorf("%w: demo.yields %d", ErrInvalid, c.Demo.Yields)
	}
	return nil
}
