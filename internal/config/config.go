package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"

	"github.com/fleetledger/fleetledger/internal/actors"
	"github.com/fleetledger/fleetledger/internal/distance"
	"github.com/fleetledger/fleetledger/internal/model"
)

// FileName is the workspace configuration file.
const FileName = "fleetledger.yaml"

// Config represents the top-level fleetledger.yaml configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Actors    []ActorConfig   `yaml:"actors"`
	Distance  DistanceConfig  `yaml:"distance"`
	Data      DataConfig      `yaml:"data"`
	Git       GitConfig       `yaml:"git"`
}

// WorkspaceConfig identifies the fleet.
type WorkspaceConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217 code
}

// ActorConfig is one known operator.
type ActorConfig struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// DistanceConfig controls odometer anomaly imputation.
type DistanceConfig struct {
	Policy string `yaml:"policy"` // "fleet" or "vehicle"
}

// DataConfig names the stream snapshots, relative to the workspace.
type DataConfig struct {
	Dir         string `yaml:"dir"`
	Collections string `yaml:"collections"`
	Expenses    string `yaml:"expenses"`
	Investments string `yaml:"investments"`
	Bank        string `yaml:"bank"`
	ExportDir   string `yaml:"export_dir"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a fleetledger.yaml file from disk. Unset data paths fall back to
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	cfg.Actors = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name string) *Config {
	cfg := &Config{
		Workspace: WorkspaceConfig{
			Name:     name,
			Currency: money.INR,
		},
		Distance: DistanceConfig{Policy: string(distance.PolicyFleet)},
		Data: DataConfig{
			Dir:         "data",
			Collections: "collections.csv",
			Expenses:    "expenses.csv",
			Investments: "investments.csv",
			Bank:        "bank.csv",
			ExportDir:   "exports",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Fleetledger",
			AuthorEmail: "fleetledger@localhost",
		},
	}
	for _, d := range actors.DefaultActors() {
		cfg.Actors = append(cfg.Actors, ActorConfig{ID: string(d.ID), Name: d.Name, Aliases: d.Aliases})
	}
	return cfg
}

// Validate checks the fields a run depends on.
func (c *Config) Validate() error {
	var errs []string
	if len(c.Actors) == 0 {
		errs = append(errs, "at least one actor is required")
	}
	if _, err := c.Registry(); err != nil && len(c.Actors) > 0 {
		errs = append(errs, err.Error())
	}
	if _, err := distance.ParsePolicy(c.Distance.Policy); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Workspace.Currency != "" && money.GetCurrency(strings.ToUpper(c.Workspace.Currency)) == nil {
		errs = append(errs, fmt.Sprintf("unknown currency %q", c.Workspace.Currency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Registry builds the actor registry from the configured actors.
func (c *Config) Registry() (*actors.Registry, error) {
	defs := make([]model.ActorDef, len(c.Actors))
	for i, a := range c.Actors {
		defs[i] = model.ActorDef{ID: model.Actor(a.ID), Name: a.Name, Aliases: a.Aliases}
	}
	return actors.NewRegistry(defs)
}

// Policy returns the configured distance policy.
func (c *Config) Policy() distance.Policy {
	p, err := distance.ParsePolicy(c.Distance.Policy)
	if err != nil {
		return distance.PolicyFleet
	}
	return p
}
