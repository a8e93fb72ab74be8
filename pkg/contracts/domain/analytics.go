package domain

import (
	"encoding/json"
	"fmt"
)

// Totals represents summed metrics over a set of posts
type Totals struct {
	Posts        int64 `json:"posts"`
	Impressions  int64 `json:"impressions"`
	Interactions int64 `json:"interactions"`
	Clicks       int64 `json:"clicks"`
	VideoViews   int64 `json:"video_views"`
}

// Value returns the total for a metric
func (t Totals) Value(m Metric) float64 {
	switch m {
	case MetricPosts:
		return float64(t.Posts)
	case MetricImpressions:
		return float64(t.Impressions)
	case MetricInteractions:
		return float64(t.Interactions)
	case MetricClicks:
		return float64(t.Clicks)
	case MetricVideoViews:
		return float64(t.VideoViews)
	default:
		return 0
	}
}

// Tier classifies a performance delta against its benchmark
type Tier string

const (
	TierStrong    Tier = "strong"
	TierNeutral   Tier = "neutral"
	TierWeak      Tier = "weak"
	TierUndefined Tier = "undefined"
)

// Delta is the signed percentage difference of an actual value to its benchmark.
// Percent is unrounded; rounding only happens in Label.
type Delta struct {
	Percent float64
	Defined bool
	Tier    Tier
}

// UndefinedDelta is the delta of a value without a usable benchmark
func UndefinedDelta() Delta {
	return Delta{Tier: TierUndefined}
}

// Label formats the delta with one decimal and an explicit sign, or "-" when undefined
func (d Delta) Label() string {
	if !d.Defined {
		return "-"
	}
	sign := ""
	if d.Percent >= 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, d.Percent)
}

// MarshalJSON renders the delta with its display label
func (d Delta) MarshalJSON() ([]byte, error) {
	out := struct {
		Percent *float64 `json:"percent"`
		Tier    Tier     `json:"tier"`
		Label   string   `json:"label"`
	}{
		Tier:  d.Tier,
		Label: d.Label(),
	}
	if d.Defined {
		p := d.Percent
		out.Percent = &p
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a delta rendered by MarshalJSON
func (d *Delta) UnmarshalJSON(data []byte) error {
	var in struct {
		Percent *float64 `json:"percent"`
		Tier    Tier     `json:"tier"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = Delta{Tier: in.Tier}
	if in.Percent != nil {
		d.Percent = *in.Percent
		d.Defined = true
	}
	if d.Tier == "" {
		d.Tier = TierUndefined
	}
	return nil
}
