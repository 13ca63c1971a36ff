package spot

import "fmt"

// CongestionLevel is the ordinal crowd severity of a tourist spot.
// The numeric value is the severity rank: low=0, normal=1, high=2, veryHigh=3.
type CongestionLevel int

const (
	LevelLow CongestionLevel = iota
	LevelNormal
	LevelHigh
	LevelVeryHigh
)

// NumLevels is the number of congestion levels.
const NumLevels = 4

// Levels holds every congestion level in severity order.
var Levels = [NumLevels]CongestionLevel{LevelLow, LevelNormal, LevelHigh, LevelVeryHigh}

type levelMeta struct {
	name  string
	label string
	color string
}

var levelTable = [NumLevels]levelMeta{
	LevelLow:      {name: "low", label: "여유", color: "hsl(160, 84%, 39%)"},
	LevelNormal:   {name: "normal", label: "보통", color: "hsl(45, 93%, 47%)"},
	LevelHigh:     {name: "high", label: "혼잡", color: "hsl(25, 95%, 53%)"},
	LevelVeryHigh: {name: "veryHigh", label: "매우혼잡", color: "hsl(0, 84%, 60%)"},
}

// Valid reports whether l is one of the four known levels.
func (l CongestionLevel) Valid() bool {
	return l >= LevelLow && l <= LevelVeryHigh
}

// Severity returns the rank used for ordering; lower is less crowded.
func (l CongestionLevel) Severity() int {
	return int(l)
}

func (l CongestionLevel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("CongestionLevel(%d)", int(l))
	}
	return levelTable[l].name
}

// Label returns the dashboard display label.
func (l CongestionLevel) Label() string {
	if !l.Valid() {
		return ""
	}
	return levelTable[l].label
}

// Color returns the dashboard colour for the level.
func (l CongestionLevel) Color() string {
	if !l.Valid() {
		return ""
	}
	return levelTable[l].color
}

// ParseCongestionLevel maps the wire name ("low", "normal", "high", "veryHigh") to a level.
func ParseCongestionLevel(s string) (CongestionLevel, error) {
	for i, m := range levelTable {
		if m.name == s {
			return CongestionLevel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown congestion level %q", s)
}

func (l CongestionLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid congestion level %d", int(l))
	}
	return []byte(levelTable[l].name), nil
}

func (l *CongestionLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseCongestionLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
