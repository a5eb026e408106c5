package domain

import (
	"path/filepath"
	"strings"
	"testing"
)

var testChannels = []Channel{
	{Site: "arirang.com", Lang: "en", XMLTVID: "ArirangTV.kr", SiteID: "CH_K", Name: "Arirang TV"},
	{Site: "example.com", Lang: "en", XMLTVID: "Example.tv", SiteID: "123", Name: "Example Channel"},
}

func TestMarshalChannels(t *testing.T) {
	data, err := MarshalChannels(testChannels)
	if err != nil {
		t.Fatalf("MarshalChannels failed: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("Expected XML declaration, got: %s", out[:20])
	}
	for _, want := range []string{
		`<channels>`,
		`site="arirang.com"`,
		`lang="en"`,
		`xmltv_id="ArirangTV.kr"`,
		`site_id="CH_K"`,
		`>Arirang TV</channel>`,
		`site="example.com"`,
		`>Example Channel</channel>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	// Order must be preserved as given
	if strings.Index(out, "arirang.com") > strings.Index(out, "example.com") {
		t.Error("Expected channel order to be preserved")
	}
}

func TestChannelsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.xml")

	if err := WriteChannelsFile(path, testChannels); err != nil {
		t.Fatalf("WriteChannelsFile failed: %v", err)
	}

	got, err := ParseChannelsFile(path)
	if err != nil {
		t.Fatalf("ParseChannelsFile failed: %v", err)
	}
	if len(got) != len(testChannels) {
		t.Fatalf("Expected %d channels, got %d", len(testChannels), len(got))
	}
	for i, want := range testChannels {
		if got[i] != want {
			t.Errorf("Channel %d: expected %+v, got %+v", i, want, got[i])
		}
	}
}

func TestParseChannelsFileMissing(t *testing.T) {
	if _, err := ParseChannelsFile(filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
