package spot

import "fmt"

// Trend is the direction of expected visitors since the previous snapshot.
type Trend int

const (
	TrendStable Trend = iota
	TrendUp
	TrendDown
)

var trendNames = [...]string{
	TrendStable: "stable",
	TrendUp:     "up",
	TrendDown:   "down",
}

func (t Trend) Valid() bool {
	return t >= TrendStable && t <= TrendDown
}

func (t Trend) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Trend(%d)", int(t))
	}
	return trendNames[t]
}

func ParseTrend(s string) (Trend, error) {
	for i, name := range trendNames {
		if name == s {
			return Trend(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trend %q", s)
}

func (t Trend) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid trend %d", int(t))
	}
	return []byte(trendNames[t]), nil
}

func (t *Trend) UnmarshalText(text []byte) error {
	parsed, err := ParseTrend(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
