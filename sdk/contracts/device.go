package contracts

import "fmt"

// Direction selects one of the two independent device universes an id lives
// in. Inputs and outputs are enumerated, opened and tracked separately; the
// same numeric id may exist on both sides and refer to different hardware.
type Direction int

const (
	// DirectionInput identifies devices that produce MIDI messages.
	DirectionInput Direction = iota
	// DirectionOutput identifies devices that consume MIDI messages.
	DirectionOutput
)

// String returns "input" or "output".
func (d Direction) String() string {
	if d == DirectionOutput {
		return "output"
	}
	return "input"
}

// DriverVersion is the major.minor driver revision reported by the OS.
// Backends that do not expose a revision leave it zero.
type DriverVersion struct {
	Major uint8
	Minor uint8
}

func (v DriverVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// DeviceDescriptor describes one enumerated MIDI device. The ID is the
// zero-based index assigned by the OS at enumeration time; it is only valid
// against the enumeration that produced it. All metadata beyond ID and Name
// is optional and backend dependent.
type DeviceDescriptor struct {
	ID             int           // Zero-based device index.
	Name           string        // Device name as reported by the OS.
	Manufacturer   string        // Human-readable manufacturer, where available.
	ManufacturerID int           // Numeric manufacturer id, where available.
	ProductID      int           // Numeric product id, where available.
	Version        DriverVersion // Driver revision, where available.
}

// DeviceHandle is an opaque handle for an open device. Only the platform
// driver may interpret its value; every other component treats it purely as
// an identifier for registry and cache lookups.
type DeviceHandle uintptr
