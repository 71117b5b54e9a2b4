package domain

import (
	"fmt"
	"sort"
	"strings"
)

// RegionMode selects how the region predicate matches.
type RegionMode string

const (
	// RegionSelect matches one observed region value exactly; FilterSpec.All disables it.
	RegionSelect RegionMode = "select"
	// RegionSubstring matches free text case-insensitively; empty input disables it.
	RegionSubstring RegionMode = "substring"
)

// AllRegions is the selector value meaning no region filtering. When a row
// carries the literal region "all", that value selects the row instead and an
// empty selection means all regions.
const AllRegions = "all"

// ParseRegionMode validates a region mode from configuration.
func ParseRegionMode(s string) (RegionMode, error) {
	switch m := RegionMode(strings.ToLower(strings.TrimSpace(s))); m {
	case RegionSelect, RegionSubstring:
		return m, nil
	default:
		return "", fmt.Errorf("unknown region filter mode %q (want %q or %q)", s, RegionSelect, RegionSubstring)
	}
}

// Range is a closed numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bounds are the observed magnitude and year extents of a record set.
// A nil range means no record had a value for that field.
type Bounds struct {
	Magnitude *Range `json:"magnitude,omitempty"`
	Year      *Range `json:"year,omitempty"`

	regions map[string]struct{}
}

// ObserveBounds scans records for the min/max magnitude and year and the
// distinct region values.
func ObserveBounds(records []NormalizedRecord) Bounds {
	b := Bounds{regions: make(map[string]struct{})}
	for i := range records {
		b.regions[records[i].Region] = struct{}{}
		if m := records[i].Magnitude; m != nil {
			b.Magnitude = widen(b.Magnitude, *m)
		}
		if y := records[i].Year; y != nil {
			b.Year = widen(b.Year, float64(*y))
		}
	}
	return b
}

func widen(r *Range, v float64) *Range {
	if r == nil {
		return &Range{Min: v, Max: v}
	}
	r.Min = min(r.Min, v)
	r.Max = max(r.Max, v)
	return r
}

// FilterRequest is the raw user input for a filter. Nil bounds mean "use the
// observed extent".
type FilterRequest struct {
	RegionMode RegionMode
	Region     string
	MagMin     *float64
	MagMax     *float64
	YearMin    *int
	YearMax    *int
	SkipMag    bool
	SkipYear   bool
}

// FilterSpec is a validated filter. Nil ranges are inactive. In select mode
// All turns the region predicate off and an empty Region does the same.
type FilterSpec struct {
	RegionMode RegionMode `json:"region_mode"`
	Region     string     `json:"region,omitempty"`
	All        bool       `json:"all_regions,omitempty"`
	Magnitude  *Range     `json:"magnitude,omitempty"`
	Year       *Range     `json:"year,omitempty"`
}

// NewFilterSpec builds a FilterSpec from a request, clamping each requested
// range to the observed bounds and ordering its ends so Min <= Max. A range
// whose field was never observed stays inactive.
func NewFilterSpec(b Bounds, req FilterRequest) FilterSpec {
	mode := req.RegionMode
	if mode == "" {
		mode = RegionSelect
	}
	spec := FilterSpec{RegionMode: mode, Region: strings.TrimSpace(req.Region)}
	if mode == RegionSelect {
		_, literal := b.regions[AllRegions]
		if spec.Region == "" || (spec.Region == AllRegions && !literal) {
			spec.Region = ""
			spec.All = true
		}
	}

	if b.Magnitude != nil && !req.SkipMag {
		spec.Magnitude = clampRange(*b.Magnitude, req.MagMin, req.MagMax)
	}
	if b.Year != nil && !req.SkipYear {
		spec.Year = clampRange(*b.Year, intPtrToFloat(req.YearMin), intPtrToFloat(req.YearMax))
	}
	return spec
}

func clampRange(observed Range, lo, hi *float64) *Range {
	r := observed
	if lo != nil {
		r.Min = clamp(*lo, observed.Min, observed.Max)
	}
	if hi != nil {
		r.Max = clamp(*hi, observed.Min, observed.Max)
	}
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return &r
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func intPtrToFloat(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

// Apply returns the records satisfying every active predicate of spec.
// The input slice is not modified.
func Apply(records []NormalizedRecord, spec FilterSpec) []NormalizedRecord {
	needle := strings.ToLower(spec.Region)
	out := make([]NormalizedRecord, 0, len(records))
	for i := range records {
		if spec.matches(&records[i], needle) {
			out = append(out, records[i])
		}
	}
	return out
}

func (s FilterSpec) matches(r *NormalizedRecord, needle string) bool {
	switch s.RegionMode {
	case RegionSubstring:
		if needle != "" && !strings.Contains(strings.ToLower(r.Region), needle) {
			return false
		}
	default:
		if !s.All && s.Region != "" && r.Region != s.Region {
			return false
		}
	}
	if s.Magnitude != nil && (r.Magnitude == nil || !s.Magnitude.Contains(*r.Magnitude)) {
		return false
	}
	if s.Year != nil && (r.Year == nil || !s.Year.Contains(float64(*r.Year))) {
		return false
	}
	return true
}

// Regions returns the sorted distinct non-empty region values, the option
// list for a region selector (without the AllRegions sentinel).
func Regions(records []NormalizedRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range records {
		r := records[i].Region
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
