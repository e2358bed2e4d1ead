package billing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan maps a provider price id to a tier and its display attributes.
type Plan struct {
	PriceID   string `yaml:"price_id"`
	Tier      Tier   `yaml:"tier"`
	Name      string `yaml:"name"`
	Interval  string `yaml:"interval"`
	Amount    int64  `yaml:"amount"`
	Currency  string `yaml:"currency"`
	TrialDays int    `yaml:"trial_days"`
}

// Catalog resolves provider price ids to plans. Loaded once at startup;
// read-only afterwards.
type Catalog struct {
	plans   []Plan
	byPrice map[string]Plan
}

// ParseCatalog reads a YAML plan list.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("billing: parse catalog: %w", err)
	}
	if len(doc.Plans) == 0 {
		return nil, fmt.Errorf("billing: catalog defines no plans")
	}

	byPrice := make(map[string]Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		if plan.PriceID == "" || plan.Tier == "" {
			return nil, fmt.Errorf("billing: catalog plan %q missing price_id or tier", plan.Name)
		}
		if _, dup := byPrice[plan.PriceID]; dup {
			return nil, fmt.Errorf("billing: catalog price %q declared twice", plan.PriceID)
		}
		byPrice[plan.PriceID] = plan
	}

	return &Catalog{plans: doc.Plans, byPrice: byPrice}, nil
}

// LoadCatalog reads the plan catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("billing: read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ByPriceID resolves a provider price id, returning ErrUnknownPrice when
// the catalog does not list it.
func (c *Catalog) ByPriceID(priceID string) (Plan, error) {
	plan, ok := c.byPrice[priceID]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPrice, priceID)
	}
	return plan, nil
}

// Plans returns the catalog in declaration order.
func (c *Catalog) Plans() []Plan {
	return c.plans
}
