package model

import (
	"io"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	_ "embed"
)

const (
	LogStderr  = "stderr"
	LogStdout  = "stdout"
	LogDiscard = "discard"
)

// DefaultHeartbeatInterval applies when the heartbeat is enabled but no
// cron expression or duration is configured.
const DefaultHeartbeatInterval = 30 * time.Second

//go:embed config.cue
var cueSource []byte

var (
	cueCtx *cue.Context
	schema cue.Value
)

func init() {
	if len(cueSource) == 0 {
		panic("variable cueSource is empty")
	}
	cueCtx = cuecontext.New()
	compiled := cueCtx.CompileBytes(cueSource)
	if compiled.Err() != nil {
		panic(compiled.Err())
	}

	if err := compiled.Validate(); err != nil {
		panic(err)
	}

	schema = compiled.LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		panic(schema.Err())
	}
	if err := schema.Validate(); err != nil {
		panic(err)
	}
}

type Config struct {
	Version   int       `json:"version"` // fixed 0 for now
	Node      Node      `json:"node"`
	Engine    Engine    `json:"engine"`
	Metrics   Metrics   `json:"metrics"`
	Heartbeat Heartbeat `json:"heartbeat"`
	Service   Service   `json:"service"`
}

// Node identity.
type Node struct {
	Name  string  `json:"name"`
	RunID *string `json:"run_id,omitempty"` // generated when absent
}

// Engine sizing.
type Engine struct {
	BlockingWorkers int `json:"blocking_workers"`
}

// Metrics endpoint settings.
type Metrics struct {
	Enabled bool   `json:"enabled"`
	Listen  string `json:"listen"`
}

// Heartbeat schedule: cron expression or compact duration, not both.
type Heartbeat struct {
	Enabled  bool    `json:"enabled"`
	Cron     *string `json:"cron,omitempty"`
	Duration *string `json:"duration,omitempty"`
}

// Service holds process-level knobs.
type Service struct {
	Verbose bool   `json:"verbose"`
	Log     string `json:"log"` // "stderr"|"stdout"|"discard"|path
}

// LoadConfig validates YAML from r against the CUE schema and decodes it.
// Schema defaults fill every field the YAML leaves out.
func LoadConfig(r io.Reader) (*Config, error) {
	yamlFile, err := yaml.Extract("config.yaml", r)
	if err != nil {
		return nil, err
	}
	yamlValue := cueCtx.BuildFile(yamlFile)

	unified := schema.Unify(yamlValue)
	if err := unified.Validate(
		cue.All(),          // all constraints
		cue.Concrete(true), // no incomplete values
	); err != nil {
		return nil, err
	}

	var out Config
	if err := unified.Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DefaultConfig is the configuration a node runs with when no file exists:
// schema defaults only.
func DefaultConfig() (*Config, error) {
	var out Config
	unified := schema.Unify(cueCtx.CompileString("{}"))
	if err := unified.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
