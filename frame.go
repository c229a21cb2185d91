package motorengine

import "sort"

// Phase is the simulator-declared lifecycle phase for a frame (§3).
// Motors act only during PRODUCTION.
type Phase uint8

const (
	// Thermalization is the warm-up phase; motors never act during it.
	Thermalization Phase = iota + 1
	// Production is the phase during which motors advance and bias.
	Production
)

func (p Phase) String() string {
	switch p {
	case Thermalization:
		return "THERMALIZATION"
	case Production:
		return "PRODUCTION"
	default:
		return "UNKNOWN"
	}
}

// Thermo is the small set of scalar thermodynamics attached to a frame
// (§3). Custom compute/variable references are carried in Extra.
type Thermo struct {
	Step    int64
	Time    float64
	Etotal  float64
	Pe      float64
	Ke      float64
	Temp    float64
	Dt      float64
	Extra   map[string]float64
}

// RankFrame is the payload delivered by one simulator rank for one cycle
// (§3, §6 simdata). The engine never sees a RankFrame directly — it
// merges all ranks for a cycle into an AtomFrame before any motor work.
type RankFrame struct {
	SimIt       uint64
	IDs         []uint32
	Positions   []float64 // len 3*len(IDs)
	Forces      []float64 // optional, same layout
	Velocities  []float64 // optional, same layout
	Phase       Phase
	Units       UnitSystem
	Thermo      Thermo
}

// AtomFrame is the merged, globally re-sorted view of one cycle across
// all ranks (§3). Invariant (I1): if IDs form a permutation of {1..N},
// then after MergeFrames, IDs[i] == i+1 and Positions[3i:3i+3] is the
// position of atom i+1.
type AtomFrame struct {
	SimIt      uint64
	IDs        []uint32
	Positions  []float64
	Forces     []float64
	Velocities []float64
	Phase      Phase
	Units      UnitSystem
	Thermo     Thermo
}

// MergeFrames concatenates the per-rank chunks of one cycle and re-sorts
// them globally by id (§3, §5: "mandatory to satisfy AtomSet's positional
// assumption"). All chunks must report the same sim_it; any disagreement,
// or an id set that is not a dense permutation of {1..N}, is a FrameError.
func MergeFrames(chunks []RankFrame) (*AtomFrame, error) {
	if len(chunks) == 0 {
		return nil, &FrameError{Reason: "no frame chunks delivered for cycle"}
	}
	simIt := chunks[0].SimIt
	hasForces := len(chunks[0].Forces) > 0
	hasVelocities := len(chunks[0].Velocities) > 0
	total := 0
	for i, c := range chunks {
		if c.SimIt != simIt {
			return nil, &FrameError{Reason: "rank chunks disagree on sim_it"}
		}
		if len(c.Positions) != 3*len(c.IDs) {
			return nil, &FrameError{Reason: "chunk positions length does not match 3*len(ids)"}
		}
		if i > 0 {
			if (len(c.Forces) > 0) != hasForces || (len(c.Velocities) > 0) != hasVelocities {
				return nil, &FrameError{Reason: "rank chunks disagree on optional field presence"}
			}
		}
		total += len(c.IDs)
	}

	type atom struct {
		id       uint32
		pos      [3]float64
		force    [3]float64
		velocity [3]float64
	}
	atoms := make([]atom, 0, total)
	for _, c := range chunks {
		for i, id := range c.IDs {
			a := atom{id: id}
			a.pos[0], a.pos[1], a.pos[2] = c.Positions[3*i], c.Positions[3*i+1], c.Positions[3*i+2]
			if hasForces {
				a.force[0], a.force[1], a.force[2] = c.Forces[3*i], c.Forces[3*i+1], c.Forces[3*i+2]
			}
			if hasVelocities {
				a.velocity[0], a.velocity[1], a.velocity[2] = c.Velocities[3*i], c.Velocities[3*i+1], c.Velocities[3*i+2]
			}
			atoms = append(atoms, a)
		}
	}
	sort.Slice(atoms, func(i, j int) bool { return atoms[i].id < atoms[j].id })

	f := &AtomFrame{
		SimIt:  simIt,
		IDs:    make([]uint32, len(atoms)),
		Positions: make([]float64, 3*len(atoms)),
		Phase:  chunks[0].Phase,
		Units:  chunks[0].Units,
		Thermo: chunks[0].Thermo,
	}
	if hasForces {
		f.Forces = make([]float64, 3*len(atoms))
	}
	if hasVelocities {
		f.Velocities = make([]float64, 3*len(atoms))
	}
	for i, a := range atoms {
		f.IDs[i] = a.id
		f.Positions[3*i], f.Positions[3*i+1], f.Positions[3*i+2] = a.pos[0], a.pos[1], a.pos[2]
		if hasForces {
			f.Forces[3*i], f.Forces[3*i+1], f.Forces[3*i+2] = a.force[0], a.force[1], a.force[2]
		}
		if hasVelocities {
			f.Velocities[3*i], f.Velocities[3*i+1], f.Velocities[3*i+2] = a.velocity[0], a.velocity[1], a.velocity[2]
		}
	}

	// Invariant I1: ids must be a dense permutation of {1..N}.
	for i, id := range f.IDs {
		if id != uint32(i+1) {
			return nil, &FrameError{Reason: "atom ids are not a dense permutation of {1..N}"}
		}
	}

	return f, nil
}
