package motorengine

import (
	"fmt"

	"github.com/spf13/viper"
)

// schemaVersion is the only header.version accepted by this build. A
// mismatch is a ConfigError at load time (§4.7, §7).
const schemaVersion = 1

// rawDocument mirrors the on-disk schema of §4.7 for mapstructure
// decoding via viper, the way config.go's smdConfig() reads conf.toml —
// generalized from flat viper.Get* calls to a single viper.Unmarshal
// since this document is nested.
type rawDocument struct {
	Header struct {
		Version uint32 `mapstructure:"version"`
		Units   string `mapstructure:"units"`
	} `mapstructure:"header"`
	Anchors     []rawAnchor     `mapstructure:"anchors"`
	Thermostats []rawThermostat `mapstructure:"thermostats"`
	NvtConfig   map[string]interface{} `mapstructure:"nvtConfig"`
	Motors      []rawMotor      `mapstructure:"motors"`
}

type rawAnchor struct {
	Selection []uint32 `mapstructure:"selection"`
}

type rawThermostat struct {
	Type      string   `mapstructure:"type"`
	Selection []uint32 `mapstructure:"selection"`
	Name      string   `mapstructure:"name"`
	StartTemp float64  `mapstructure:"startTemp"`
	EndTemp   float64  `mapstructure:"endTemp"`
	Damp      float64  `mapstructure:"damp"`
	Seed      int64    `mapstructure:"seed"`
}

type rawMotor struct {
	Type         string   `mapstructure:"type"`
	Name         string   `mapstructure:"name"`
	Dependencies []string `mapstructure:"dependencies"`
	Selection    []uint32 `mapstructure:"selection"`

	// blank
	NSteps uint64 `mapstructure:"nSteps"`

	// move
	Vx, Vy, Vz             float64
	CheckX, CheckY, CheckZ bool
	Dx, Dy, Dz             float64

	// force
	Fx, Fy, Fz float64

	// torque
	Tx, Ty, Tz     float64
	RequestedAngle float64 `mapstructure:"requestedAngle"`

	// rotate
	Px, Py, Pz float64
	Ax, Ay, Az float64
	Period     float64
}

// LoadConfig reads the document at path and returns a validated motor
// graph plus the ancillary engine inputs (§4.7). Any schema violation is
// a *ConfigError.
func LoadConfig(path string, logger Logger) (*MotorGraph, []AnchorConfig, []ThermostatConfig, UnitSystem, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, nil, 0, &ConfigError{Reason: fmt.Sprintf("cannot read %s: %v", path, err)}
	}

	var doc rawDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, nil, nil, 0, &ConfigError{Reason: fmt.Sprintf("cannot decode document: %v", err)}
	}

	return buildFromDocument(doc, logger)
}

// LoadConfigFromMap is used by tests to build a graph directly from an
// in-memory document, bypassing the file system.
func LoadConfigFromMap(data map[string]interface{}, logger Logger) (*MotorGraph, []AnchorConfig, []ThermostatConfig, UnitSystem, error) {
	v := viper.New()
	if err := v.MergeConfigMap(data); err != nil {
		return nil, nil, nil, 0, &ConfigError{Reason: fmt.Sprintf("cannot merge document: %v", err)}
	}
	var doc rawDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, nil, nil, 0, &ConfigError{Reason: fmt.Sprintf("cannot decode document: %v", err)}
	}
	return buildFromDocument(doc, logger)
}

func buildFromDocument(doc rawDocument, logger Logger) (*MotorGraph, []AnchorConfig, []ThermostatConfig, UnitSystem, error) {
	if doc.Header.Version != schemaVersion {
		return nil, nil, nil, 0, &ConfigError{Reason: fmt.Sprintf("unsupported schema version %d (want %d)", doc.Header.Version, schemaVersion)}
	}
	units, err := UnitSystemFromString(doc.Header.Units)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	var anchors []AnchorConfig
	for _, a := range doc.Anchors {
		anchors = append(anchors, AnchorConfig{Selection: a.Selection})
	}

	var thermostats []ThermostatConfig
	for _, t := range doc.Thermostats {
		thermostats = append(thermostats, ThermostatConfig{
			Type: t.Type, Selection: t.Selection, Name: t.Name,
			StartTemp: t.StartTemp, EndTemp: t.EndTemp, Damp: t.Damp, Seed: t.Seed,
		})
	}

	motors := make([]Motor, 0, len(doc.Motors))
	seen := make(map[string]bool, len(doc.Motors))
	for _, rm := range doc.Motors {
		if rm.Name == "" {
			return nil, nil, nil, 0, &ConfigError{Reason: "motor missing required field \"name\""}
		}
		if seen[rm.Name] {
			return nil, nil, nil, 0, &ConfigError{Reason: fmt.Sprintf("duplicate motor name %q", rm.Name)}
		}
		seen[rm.Name] = true
		m, err := buildMotor(rm, units)
		if err != nil {
			return nil, nil, nil, 0, err
		}
		motors = append(motors, m)
	}

	graph, err := NewMotorGraph(motors)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	return graph, anchors, thermostats, units, nil
}

func buildMotor(rm rawMotor, units UnitSystem) (Motor, error) {
	switch rm.Type {
	case "blank":
		if rm.NSteps < 1 {
			return nil, &ConfigError{Reason: fmt.Sprintf("motor %q: nSteps must be >= 1", rm.Name)}
		}
		return NewBlankMotor(rm.Name, rm.Dependencies, rm.NSteps), nil

	case "move":
		return NewMoveMotor(rm.Name, rm.Dependencies, rm.Selection,
			Velocity(rm.Vx, units), Velocity(rm.Vy, units), Velocity(rm.Vz, units),
			rm.CheckX, rm.CheckY, rm.CheckZ,
			Distance(rm.Dx, units), Distance(rm.Dy, units), Distance(rm.Dz, units)), nil

	case "force":
		return NewForceMotor(rm.Name, rm.Dependencies, rm.Selection,
			Force(rm.Fx, units), Force(rm.Fy, units), Force(rm.Fz, units),
			rm.CheckX, rm.CheckY, rm.CheckZ,
			Distance(rm.Dx, units), Distance(rm.Dy, units), Distance(rm.Dz, units)), nil

	case "torque":
		if rm.RequestedAngle <= 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("motor %q: requestedAngle must be > 0", rm.Name)}
		}
		return NewTorqueMotor(rm.Name, rm.Dependencies, rm.Selection,
			Torque(rm.Tx, units), Torque(rm.Ty, units), Torque(rm.Tz, units), rm.RequestedAngle), nil

	case "rotate":
		if rm.Period <= 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("motor %q: period must be > 0", rm.Name)}
		}
		if rm.RequestedAngle <= 0 {
			return nil, &ConfigError{Reason: fmt.Sprintf("motor %q: requestedAngle must be > 0", rm.Name)}
		}
		return NewRotateMotor(rm.Name, rm.Dependencies, rm.Selection,
			Distance(rm.Px, units), Distance(rm.Py, units), Distance(rm.Pz, units),
			rm.Ax, rm.Ay, rm.Az, TimeQty(rm.Period, units), rm.RequestedAngle), nil

	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("motor %q: unknown type %q", rm.Name, rm.Type)}
	}
}
