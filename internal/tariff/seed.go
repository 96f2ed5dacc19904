package tariff

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk layout of a seed catalog.
type CatalogFile struct {
	Tariffs []Tariff `yaml:"tariffs"`
}

// LoadCatalogFile reads and validates a YAML seed catalog. Entries keep
// file order, which becomes catalog order.
func LoadCatalogFile(path string) ([]Tariff, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog bytes.
func ParseCatalog(data []byte) ([]Tariff, error) {
	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range f.Tariffs {
		if err := f.Tariffs[i].Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, f.Tariffs[i].TariffName, err)
		}
	}
	return f.Tariffs, nil
}
