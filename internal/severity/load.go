package severity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Severities []Profile `yaml:"severities"`
}

// Load reads a catalog override file. The file replaces the built-in catalog
// entirely; every profile in it is validated before the catalog is returned,
// so a bad file never yields a partially usable catalog.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse severity catalog %s: %w", path, err)
	}
	if len(f.Severities) == 0 {
		return Catalog{}, fmt.Errorf("severity catalog %s: no severities defined", path)
	}
	for _, p := range f.Severities {
		if err := p.Validate(); err != nil {
			return Catalog{}, err
		}
	}
	return newCatalog(f.Severities), nil
}

// Save writes a catalog to a YAML file, in Names order.
func Save(path string, c Catalog) error {
	f := catalogFile{}
	for _, name := range c.Names() {
		p, _ := c.Get(name)
		f.Severities = append(f.Severities, p)
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
