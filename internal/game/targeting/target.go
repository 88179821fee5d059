package targeting

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedTarget is returned for target specifiers that are
	// recognized but have no resolution rule (ANY, N_OTHER).
	ErrUnsupportedTarget = errors.New("unsupported target specifier")
	// ErrUnknownPlayer is returned when the starting player is not seated.
	ErrUnknownPlayer = errors.New("starting player not seated")
)

// TargetType is a symbolic description of which players an effect affects.
type TargetType string

const (
	// TargetAll is every player, starting with the starting player.
	TargetAll TargetType = "ALL"
	// TargetAllOther is every player except the starting player, starting to their left.
	TargetAllOther TargetType = "ALL_OTHER"
	// TargetAny is a single player of the chooser's choice.
	TargetAny TargetType = "ANY"
	// TargetNOther is a fixed number of other players, written "2_OTHER" etc.
	TargetNOther TargetType = "X_OTHER"
)

var nOtherPattern = regexp.MustCompile(`^(\d+)_OTHER$`)

// TargetSpec is a parsed target specifier.
type TargetSpec struct {
	Type TargetType
	// Count is set for N_OTHER specifiers.
	Count int
}

// ParseTarget parses a target specifier string. Unrecognized specifiers yield
// an empty Type.
func ParseTarget(raw string) TargetSpec {
	spec := strings.ToUpper(strings.TrimSpace(raw))
	if m := nOtherPattern.FindStringSubmatch(spec); m != nil {
		count, _ := strconv.Atoi(m[1])
		return TargetSpec{Type: TargetNOther, Count: count}
	}
	switch TargetType(spec) {
	case TargetAll, TargetAllOther, TargetAny:
		return TargetSpec{Type: TargetType(spec)}
	default:
		return TargetSpec{}
	}
}

// ResolveTargets returns the ordered player ids selected by raw, relative to
// start and the seating order. Unrecognized specifiers resolve to no players.
func ResolveTargets(raw string, start string, seating []string) ([]string, error) {
	return Resolve(ParseTarget(raw), start, seating)
}

// Resolve is ResolveTargets for an already parsed spec.
func Resolve(spec TargetSpec, start string, seating []string) ([]string, error) {
	startIdx := -1
	for i, id := range seating {
		if id == start {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, start)
	}

	switch spec.Type {
	case TargetAll:
		return rotate(seating, startIdx), nil
	case TargetAllOther:
		return rotate(seating, startIdx)[1:], nil
	case TargetAny:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, spec.Type)
	case TargetNOther:
		return nil, fmt.Errorf("%w: %d_OTHER", ErrUnsupportedTarget, spec.Count)
	default:
		return []string{}, nil
	}
}

// rotate returns seating starting at index start and wrapping around.
func rotate(seating []string, start int) []string {
	out := make([]string, 0, len(seating))
	for i := 0; i < len(seating); i++ {
		out = append(out, seating[(start+i)%len(seating)])
	}
	return out
}
