package feed

import (
	"time"
)

// Collection types

// Item is one normalized content entry produced by a source adapter.
// PublishedAt stays nil until the reconciler resolves it; the generator
// defaults any still-unset date at emission time.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Content     string
	PublishedAt *time.Time
	Categories  []string

	IsFiltered   bool
	FilterReason string
}

// CollectResult is the outcome of one adapter collection run.
type CollectResult struct {
	Status bool
	Items  []Item
}

// ChannelImage describes the optional channel image block.
type ChannelImage struct {
	URL   string
	Title string
	Link  string
}

// ChannelInfo describes the fixed channel metadata of a source's feed.
type ChannelInfo struct {
	Title       string
	Link        string
	Description string
	Image       *ChannelImage
	Language    string
}

// Configuration types

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled  bool `yaml:"enabled"`
	MaxItems int  `yaml:"max_items"`
	Timeout  int  `yaml:"timeout"` // seconds
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
