package domain

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Channel describes a single entry of the channel-list document consumed
// by the grabber: which site to scrape, under which guide identity.
type Channel struct {
	Site    string `xml:"site,attr" yaml:"site"`
	Lang    string `xml:"lang,attr" yaml:"lang"`
	XMLTVID string `xml:"xmltv_id,attr" yaml:"xmltv_id"`
	SiteID  string `xml:"site_id,attr" yaml:"site_id"`
	Name    string `xml:",chardata" yaml:"name"`
}

// channelList is the document root. Element order is preserved as given.
type channelList struct {
	XMLName  xml.Name  `xml:"channels"`
	Channels []Channel `xml:"channel"`
}

// MarshalChannels renders the <channels> document for the given channels.
func MarshalChannels(channels []Channel) ([]byte, error) {
	body, err := xml.MarshalIndent(channelList{Channels: channels}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal channel list: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// WriteChannelsFile serializes channels to a channel-list document at path.
func WriteChannelsFile(path string, channels []Channel) error {
	data, err := MarshalChannels(channels)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write channel list %s: %w", path, err)
	}
	return nil
}

// ParseChannelsFile reads an existing channel-list document.
func ParseChannelsFile(path string) ([]Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel list %s: %w", path, err)
	}
	var list channelList
	if err := xml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse channel list %s: %w", path, err)
	}
	return list.Channels, nil
}
