package labels

import (
	"github.com/beetlebugorg/maplabels/internal/parser"
)

// LabelLift is added to the up-axis component of every accepted position.
const LabelLift = 25.0

// minNameLength is the shortest name, in bytes, that produces a label.
const minNameLength = 2

// stopList names are generic feature descriptions, not proper names. Matching
// is exact and case-sensitive.
var stopList = map[string]bool{
	"public_transport": true,
	"bus_stop":         true,
	"shelter":          true,
	"platform":         true,
}

// RejectReason says why a candidate produced no label.
type RejectReason int

const (
	Accepted RejectReason = iota
	RejectShortName
	RejectStopList
	RejectNumeric
)

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectShortName:
		return "short name"
	case RejectStopList:
		return "stop list"
	case RejectNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Filter reports whether name may be shown as a label. Rules apply in order:
// length, stop list, digits/whitespace only.
func Filter(name string) RejectReason {
	if len(name) < minNameLength {
		return RejectShortName
	}
	if stopList[name] {
		return RejectStopList
	}
	if parser.IsBlankOrNumeric(name) {
		return RejectNumeric
	}
	return Accepted
}

// AssembleStats counts the outcome of one Assemble call.
type AssembleStats struct {
	Candidates  int // correlated pairs considered
	Accepted    int
	ShortName   int
	StopList    int
	Numeric     int
	TableLoaded bool
}

// Rejected returns the total number of rejected candidates.
func (s AssembleStats) Rejected() int {
	return s.ShortName + s.StopList + s.Numeric
}

// Assemble pairs records[i] with positions[i] for every i below
// min(len(records), len(positions)) and returns the accepted pairs in input
// order, each lifted by LabelLift.
//
// When loaded is false the attribute table did not load and nothing is
// produced, whatever records holds.
func Assemble(records []AttributeRecord, positions []Position, loaded bool) ([]LabelData, AssembleStats) {
	stats := AssembleStats{TableLoaded: loaded}
	if !loaded {
		return nil, stats
	}

	n := min(len(records), len(positions))
	stats.Candidates = n

	out := make([]LabelData, 0, n)
	for i := 0; i < n; i++ {
		rec := records[i]
		switch Filter(rec.Name) {
		case RejectShortName:
			stats.ShortName++
			continue
		case RejectStopList:
			stats.StopList++
			continue
		case RejectNumeric:
			stats.Numeric++
			continue
		}

		p := positions[i]
		out = append(out, LabelData{
			Position: NewPosition(p.X(), p.Y(), p.Z()+LabelLift),
			Name:     rec.Name,
			Type:     rec.Type,
			Subtype:  rec.Subtype,
		})
	}
	stats.Accepted = len(out)
	return out, stats
}
