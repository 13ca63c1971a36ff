package catalog

// Site is the static display metadata of a tourist site. Name matches the
// korean name the prediction API keys its results by.
type Site struct {
	Code        string  `yaml:"code"`
	Name        string  `yaml:"name"`
	NameEn      string  `yaml:"name_en"`
	Description string  `yaml:"description"`
	Address     string  `yaml:"address"`
	Lat         float64 `yaml:"lat"`
	Lng         float64 `yaml:"lng"`
	MaxCapacity int     `yaml:"max_capacity"`
}

// SiteCatalog lists the sites in display order.
type SiteCatalog struct {
	Sites []Site `yaml:"sites"`
}

// ByName looks up a site by its korean name.
func (c *SiteCatalog) ByName(name string) (Site, bool) {
	for _, s := range c.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

// ByCode looks up a site by its code.
func (c *SiteCatalog) ByCode(code string) (Site, bool) {
	for _, s := range c.Sites {
		if s.Code == code {
			return s, true
		}
	}
	return Site{}, false
}
