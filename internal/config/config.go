package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Debe2025/epg-fetcher/internal/core/domain"
)

// File mirrors the YAML config layout: a channel list plus optional fetch
// defaults.
//
//	channels:
//	  - site: arirang.com
//	    lang: en
//	    xmltv_id: ArirangTV.kr
//	    site_id: CH_K
//	    name: Arirang TV
//	days: 3
//	max_connections: 5
// Pointer fields distinguish "absent" from an explicit zero, so a file can
// set timeout: 0 or reset a delay.
type File struct {
	Channels       []domain.Channel `yaml:"channels"`
	Days           *int             `yaml:"days"`
	Lang           *string          `yaml:"lang"`
	MaxConnections *int             `yaml:"max_connections"`
	TimeoutMS      *int             `yaml:"timeout"`
	DelayMS        *int             `yaml:"delay"`
	Gzip           *bool            `yaml:"gzip"`
}

// Load reads and parses the config file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &f, nil
}

// ApplyTo overlays the file's values onto req. Only fields the file
// actually sets are applied; set fields win even when zero.
func (f *File) ApplyTo(req *domain.FetchRequest) {
	if len(f.Channels) > 0 {
		req.Channels = f.Channels
	}
	if f.Days != nil {
		req.Days = *f.Days
	}
	if f.Lang != nil {
		req.Lang = *f.Lang
	}
	if f.MaxConnections != nil {
		req.MaxConnections = *f.MaxConnections
	}
	if f.TimeoutMS != nil {
		req.TimeoutMS = *f.TimeoutMS
	}
	if f.DelayMS != nil {
		req.DelayMS = *f.DelayMS
	}
	if f.Gzip != nil {
		req.Gzip = *f.Gzip
	}
}
