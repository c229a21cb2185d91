package motorengine

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

// yamlMotorDoc mirrors the subset of rawDocument exercised here; built
// directly (rather than reusing rawDocument) so the yaml struct tags can
// be varied independently from the mapstructure ones viper decodes from.
type yamlMotorDoc struct {
	Header struct {
		Version uint32 `yaml:"version"`
		Units   string `yaml:"units"`
	} `yaml:"header"`
	Motors []struct {
		Type   string `yaml:"type"`
		Name   string `yaml:"name"`
		NSteps int    `yaml:"nSteps"`
	} `yaml:"motors"`
}

// TestLoadConfigFromYAMLFile writes a motor document fixture with
// yaml.v3 and confirms LoadConfig reads it back through viper's
// extension-sniffed YAML decoder (§4.7 on-disk document).
func TestLoadConfigFromYAMLFile(t *testing.T) {
	var doc yamlMotorDoc
	doc.Header.Version = schemaVersion
	doc.Header.Units = "A"
	doc.Motors = append(doc.Motors, struct {
		Type   string `yaml:"type"`
		Name   string `yaml:"name"`
		NSteps int    `yaml:"nSteps"`
	}{Type: "blank", Name: "warmup", NSteps: 10})

	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "motors.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	graph, _, _, units, err := LoadConfig(path, NopLogger())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if units != SystemA {
		t.Errorf("expected units A, got %v", units)
	}
	if _, ok := graph.Motor("warmup"); !ok {
		t.Error("expected motor \"warmup\" in graph")
	}
}
