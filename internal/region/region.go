// Package region maps region codes and free-form location text to the
// locale parameters used when building localized news feed URLs.
package region

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Region holds the feed-locale parameters for one country or territory.
// Lang/Country/FeedID correspond to the hl/gl/ceid query parameters of
// the Google News search feed.
type Region struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Lang    string `yaml:"hl"`
	Country string `yaml:"gl"`
	FeedID  string `yaml:"ceid"`
}

// defaultRegions is the built-in table. The United States entry doubles
// as the fallback for unrecognized input.
var defaultRegions = []Region{
	{Code: "tw", Name: "Taiwan", Lang: "zh-TW", Country: "TW", FeedID: "TW:zh-Hant"},
	{Code: "hk", Name: "Hong Kong", Lang: "zh-HK", Country: "HK", FeedID: "HK:zh-Hant"},
	{Code: "cn", Name: "China", Lang: "zh-CN", Country: "CN", FeedID: "CN:zh-Hans"},
	{Code: "jp", Name: "Japan", Lang: "ja", Country: "JP", FeedID: "JP:ja"},
	{Code: "kr", Name: "South Korea", Lang: "ko", Country: "KR", FeedID: "KR:ko"},
	{Code: "sg", Name: "Singapore", Lang: "en-SG", Country: "SG", FeedID: "SG:en"},
	{Code: "in", Name: "India", Lang: "en-IN", Country: "IN", FeedID: "IN:en"},
	{Code: "us", Name: "United States", Lang: "en-US", Country: "US", FeedID: "US:en"},
	{Code: "ca", Name: "Canada", Lang: "en-CA", Country: "CA", FeedID: "CA:en"},
	{Code: "mx", Name: "Mexico", Lang: "es-MX", Country: "MX", FeedID: "MX:es"},
	{Code: "br", Name: "Brazil", Lang: "pt-BR", Country: "BR", FeedID: "BR:pt"},
	{Code: "uk", Name: "United Kingdom", Lang: "en-GB", Country: "GB", FeedID: "GB:en"},
	{Code: "de", Name: "Germany", Lang: "de", Country: "DE", FeedID: "DE:de"},
	{Code: "fr", Name: "France", Lang: "fr", Country: "FR", FeedID: "FR:fr"},
	{Code: "it", Name: "Italy", Lang: "it", Country: "IT", FeedID: "IT:it"},
	{Code: "es", Name: "Spain", Lang: "es", Country: "ES", FeedID: "ES:es"},
	{Code: "nl", Name: "Netherlands", Lang: "nl", Country: "NL", FeedID: "NL:nl"},
	{Code: "au", Name: "Australia", Lang: "en-AU", Country: "AU", FeedID: "AU:en"},
	{Code: "nz", Name: "New Zealand", Lang: "en-NZ", Country: "NZ", FeedID: "NZ:en"},
}

const defaultCode = "us"

// Catalog is an immutable region table built once at startup.
type Catalog struct {
	regions []Region
	byCode  map[string]Region
}

// NewCatalog builds a catalog from the built-in region table.
func NewCatalog() *Catalog {
	return newCatalog(defaultRegions)
}

// regionsFile mirrors the YAML override file layout:
//
//	regions:
//	  - code: tw
//	    name: Taiwan
//	    hl: zh-TW
//	    gl: TW
//	    ceid: TW:zh-Hant
type regionsFile struct {
	Regions []Region `yaml:"regions"`
}

// Load reads a region table from a YAML file. An empty path returns the
// built-in table.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg regionsFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.Regions) == 0 {
		return NewCatalog(), nil
	}
	return newCatalog(cfg.Regions), nil
}

func newCatalog(regions []Region) *Catalog {
	byCode := make(map[string]Region, len(regions))
	for _, r := range regions {
		byCode[strings.ToLower(r.Code)] = r
	}
	return &Catalog{regions: regions, byCode: byCode}
}

// Resolve maps a region code, a region name, or free-form location text
// to a catalog entry. Matching order: exact code, exact name, substring
// containment of a known name in the input. Unmatched input
// degrades to the default region rather than failing.
func (c *Catalog) Resolve(input string) Region {
	input = strings.ToLower(strings.TrimSpace(input))

	if r, ok := c.byCode[input]; ok {
		return r
	}
	for _, r := range c.regions {
		if strings.ToLower(r.Name) == input {
			return r
		}
	}
	for _, r := range c.regions {
		if strings.Contains(input, strings.ToLower(r.Name)) {
			return r
		}
	}
	return c.Default()
}

// Default returns the fallback region (United States).
func (c *Catalog) Default() Region {
	if r, ok := c.byCode[defaultCode]; ok {
		return r
	}
	return c.regions[0]
}

// List returns all regions in table order.
func (c *Catalog) List() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	return out
}
