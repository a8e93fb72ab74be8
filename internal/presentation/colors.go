package presentation

import (
	"campaignpulse/pkg/contracts/domain"
)

// Tier colors
const (
	ColorStrong    = "#14ae5c"
	ColorNeutral   = "#f8b500"
	ColorWeak      = "#db4848"
	ColorUndefined = "#8a8f98"
)

// TierColor maps a performance tier to its display color
func TierColor(t domain.Tier) string {
	switch t {
	case domain.TierStrong:
		return ColorStrong
	case domain.TierNeutral:
		return ColorNeutral
	case domain.TierWeak:
		return ColorWeak
	default:
		return ColorUndefined
	}
}

// platformColors holds brand colors for well-known platforms
var platformColors = map[string]string{
	"Instagram": "#e1306c",
	"TikTok":    "#25f4ee",
	"LinkedIn":  "#0a66c2",
	"Facebook":  "#1877f2",
	"YouTube":   "#ff0000",
	"X":         "#14171a",
	"Twitter":   "#1da1f2",
	"Pinterest": "#e60023",
	"Threads":   "#101010",
}

// fallbackPalette is cycled through for platforms without a brand color
var fallbackPalette = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a", "#19d3f3", "#ff6692", "#b6e880",
}

// Palette assigns stable colors to platforms in the order given
type Palette struct {
	assigned map[string]string
	next     int
}

// NewPalette creates a palette and assigns colors to platforms in order
func NewPalette(platforms ...string) *Palette {
	p := &Palette{assigned: make(map[string]string)}
	for _, platform := range platforms {
		p.Color(platform)
	}
	return p
}

// Color returns the color of platform, assigning the next free one on first use
func (p *Palette) Color(platform string) string {
	if c, ok := p.assigned[platform]; ok {
		return c
	}
	c, ok := platformColors[platform]
	if !ok {
		c = fallbackPalette[p.next%len(fallbackPalette)]
		p.next++
	}
	p.assigned[platform] = c
	return c
}
