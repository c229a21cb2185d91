package motorengine

import "fmt"

// UnitSystem tags every physical quantity with the unit convention it is
// expressed in. A and B mirror the two real-vs-metal conventions of a
// LAMMPS-style engine; C mirrors a Gromacs-style engine.
type UnitSystem uint8

const (
	// SystemA is the first LAMMPS-style convention (distance: Angstrom, time: fs).
	SystemA UnitSystem = iota + 1
	// SystemB is the second LAMMPS-style convention (distance: nm, time: ps).
	SystemB
	// SystemC is the Gromacs-style convention (distance: nm, time: ps, force: kJ/mol/nm).
	SystemC
)

func (u UnitSystem) String() string {
	switch u {
	case SystemA:
		return "A"
	case SystemB:
		return "B"
	case SystemC:
		return "C"
	default:
		return "unknown"
	}
}

// UnitSystemFromString parses the three closed tags accepted by the config
// schema (§4.7). Unknown tags are a ConfigError at load time.
func UnitSystemFromString(s string) (UnitSystem, error) {
	switch s {
	case "A":
		return SystemA, nil
	case "B":
		return SystemB, nil
	case "C":
		return SystemC, nil
	default:
		return 0, &ConfigError{Reason: fmt.Sprintf("unknown unit system %q", s)}
	}
}

// quantityKind is the closed set of physical kinds carrying a unit tag.
type quantityKind uint8

const (
	kindDistance quantityKind = iota
	kindVelocity
	kindForce
	kindTorque
	kindTime
)

func (k quantityKind) String() string {
	switch k {
	case kindDistance:
		return "distance"
	case kindVelocity:
		return "velocity"
	case kindForce:
		return "force"
	case kindTorque:
		return "torque"
	case kindTime:
		return "time"
	default:
		return "unknown"
	}
}

type conversionKey struct {
	kind quantityKind
	from UnitSystem
	to   UnitSystem
}

// conversionTable is a square table per kind, populated at init() the way
// celestial.go populates its flat var-tables of named constants: literal
// entries, no generated code. Distance is fully defined between all three
// systems, per §4.1; velocity/force/torque/time are only partially defined,
// and an absent cell is the signal that a conversion is unsupported.
var conversionTable = map[conversionKey]float64{}

func setConversion(kind quantityKind, from, to UnitSystem, factor float64) {
	conversionTable[conversionKey{kind, from, to}] = factor
	if factor != 0 {
		conversionTable[conversionKey{kind, to, from}] = 1 / factor
	}
}

func init() {
	for _, u := range []UnitSystem{SystemA, SystemB, SystemC} {
		conversionTable[conversionKey{kindDistance, u, u}] = 1
		conversionTable[conversionKey{kindVelocity, u, u}] = 1
		conversionTable[conversionKey{kindForce, u, u}] = 1
		conversionTable[conversionKey{kindTorque, u, u}] = 1
		conversionTable[conversionKey{kindTime, u, u}] = 1
	}

	// Distance: fully defined between all three systems (§4.1).
	setConversion(kindDistance, SystemA, SystemB, 0.1)  // Angstrom -> nm
	setConversion(kindDistance, SystemA, SystemC, 0.1)  // Angstrom -> nm (Gromacs)
	setConversion(kindDistance, SystemB, SystemC, 1.0)  // nm -> nm

	// Velocity: partially defined. A (Angstrom/fs) -> B (nm/ps) is the
	// distance factor over the time factor, 0.1 / 0.001 = 100; B<->C and
	// A<->C are not populated.
	setConversion(kindVelocity, SystemA, SystemB, 100)

	// Force: A<->B populated (real kcal/mol-Angstrom -> metal eV/Angstrom
	// share a fixed ratio); B<->C and A<->C left unsupported.
	setConversion(kindForce, SystemA, SystemB, 0.0433641)

	// Torque shares the force conversion factor scaled by distance, but
	// only A<->B is populated; B<->C/A<->C are unsupported.
	setConversion(kindTorque, SystemA, SystemB, 0.00433641)

	// Time: A (fs) <-> B (ps).
	setConversion(kindTime, SystemA, SystemB, 0.001)
}

// Quantity is a typed scalar with a unit tag, shared by Distance, Velocity,
// Force, Torque, and Time below.
type Quantity struct {
	Value float64
	Unit  UnitSystem
	kind  quantityKind
}

func newQuantity(kind quantityKind, value float64, unit UnitSystem) Quantity {
	return Quantity{Value: value, Unit: unit, kind: kind}
}

// Distance constructs a distance quantity.
func Distance(value float64, unit UnitSystem) Quantity { return newQuantity(kindDistance, value, unit) }

// Velocity constructs a velocity quantity.
func Velocity(value float64, unit UnitSystem) Quantity { return newQuantity(kindVelocity, value, unit) }

// Force constructs a force quantity.
func Force(value float64, unit UnitSystem) Quantity { return newQuantity(kindForce, value, unit) }

// Torque constructs a torque quantity.
func Torque(value float64, unit UnitSystem) Quantity { return newQuantity(kindTorque, value, unit) }

// TimeQty constructs a time quantity. Named to avoid colliding with the
// stdlib time package in call sites that import both.
func TimeQty(value float64, unit UnitSystem) Quantity { return newQuantity(kindTime, value, unit) }

// ConversionError reports an unsupported (kind, from, to) conversion
// request (§7). It is non-fatal at the call site: the quantity becomes
// zero and the caller must not treat that zero as a measurement.
type ConversionError struct {
	Kind quantityKind
	From UnitSystem
	To   UnitSystem
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("unsupported %s conversion from %s to %s", e.Kind, e.From, e.To)
}

// Convert mutates q in place, updating both Value and Unit. On an
// unsupported (kind, from, to) pair it zeroes q.Value, leaves q.Unit
// unchanged, logs the condition via the supplied logger (nil-safe), and
// returns a *ConversionError so the caller can refuse to propagate the
// zero as a real measurement.
func Convert(q *Quantity, to UnitSystem, logger Logger) error {
	if q.Unit == to {
		return nil
	}
	factor, ok := conversionTable[conversionKey{q.kind, q.Unit, to}]
	if !ok {
		err := &ConversionError{Kind: q.kind, From: q.Unit, To: to}
		if logger != nil {
			logger.Log("level", "error", "message", err.Error())
		}
		q.Value = 0
		return err
	}
	q.Value *= factor
	q.Unit = to
	return nil
}
