package main

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type Config struct {
	Verbosity string `yaml:"verbosity"`
	MaxDepth  int    `yaml:"max_depth"`
	Hints     bool   `yaml:"hints"`
}

const DefaultConfig = "sprs.yaml"

// LoadConfig reads name. A missing file gives the zero Config if optional is set.
func LoadConfig(name string, optional bool) (c Config, err error) {
	f, err := os.Open(name)
	if optional && os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrap(err, "open")
	}

	defer f.Close()

	d := yaml.NewDecoder(f)
	d.KnownFields(true)

	err = d.Decode(&c)
	if err == io.EOF {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrap(err, "decode %v", name)
	}

	if c.MaxDepth < 0 {
		return c, errors.New("max_depth: negative value %d", c.MaxDepth)
	}

	return c, nil
}
