package model

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// LegendEntry describes how a cluster is presented.
type LegendEntry struct {
	Index       int    `json:"index" mapstructure:"index" yaml:"index" validate:"gte=0"`
	Color       string `json:"color" mapstructure:"color" yaml:"color" validate:"required"`
	Hex         string `json:"hex" mapstructure:"hex" yaml:"hex" validate:"required,hexcolor"`
	Description string `json:"description" mapstructure:"description" yaml:"description"`
}

// Name is the one-based display name of the cluster.
func (e LegendEntry) Name() string {
	return fmt.Sprintf("Cluster %d", e.Index+1)
}

// Title is the capitalised colour name.
func (e LegendEntry) Title() string {
	if e.Color == "" {
		return ""
	}
	return strings.ToUpper(e.Color[:1]) + e.Color[1:]
}

// RGBA parses the hex colour, black if it cannot be parsed.
func (e LegendEntry) RGBA() color.RGBA {
	h := strings.TrimPrefix(e.Hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil || len(h) != 6 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

// Legend maps every cluster to its presentation.
type Legend []LegendEntry

var palette = []LegendEntry{
	{Color: "blue", Hex: "#1f77b4"},
	{Color: "orange", Hex: "#ff7f0e"},
	{Color: "green", Hex: "#2ca02c"},
	{Color: "red", Hex: "#d62728"},
	{Color: "purple", Hex: "#9467bd"},
	{Color: "brown", Hex: "#8c564b"},
	{Color: "pink", Hex: "#e377c2"},
	{Color: "gray", Hex: "#7f7f7f"},
	{Color: "olive", Hex: "#bcbd22"},
	{Color: "cyan", Hex: "#17becf"},
}

// DefaultLegend is the legend of the five development profiles.
func DefaultLegend() Legend {
	descriptions := []string{
		"Strong economic development and high life expectancy",
		"Moderate economic development and medium life expectancy",
		"Weak economic development and low life expectancy",
		"Unique development profiles",
		"Other development profiles",
	}
	legend := make(Legend, len(descriptions))
	for i, d := range descriptions {
		legend[i] = LegendEntry{
			Index:       i,
			Color:       palette[i].Color,
			Hex:         palette[i].Hex,
			Description: d,
		}
	}
	return legend
}

// For returns exactly k entries indexed by cluster.
// Missing entries get a generic description and a colour from the palette.
func (l Legend) For(k int) Legend {
	byIndex := make(map[int]LegendEntry, len(l))
	for _, e := range l {
		byIndex[e.Index] = e
	}
	legend := make(Legend, k)
	for i := 0; i < k; i++ {
		if e, ok := byIndex[i]; ok {
			legend[i] = e
			continue
		}
		p := palette[i%len(palette)]
		legend[i] = LegendEntry{
			Index:       i,
			Color:       p.Color,
			Hex:         p.Hex,
			Description: fmt.Sprintf("Cluster %d development profile", i+1),
		}
	}
	return legend
}

// Entry returns the entry of the given cluster.
// A negative cluster gets a black entry without colour name.
func (l Legend) Entry(cluster int) LegendEntry {
	if cluster < 0 {
		return LegendEntry{Index: cluster, Hex: "#000000"}
	}
	for _, e := range l {
		if e.Index == cluster {
			return e
		}
	}
	return l.For(cluster + 1)[cluster]
}
