package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Items   []*Item   `yaml:"items"`
	Lockers []*Locker `yaml:"lockers"`
}

// LoadFixtures parses and validates a catalog document.
func LoadFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func DefaultFixtures() (*Fixtures, error) {
	return LoadFixtures(defaultFixtures)
}

func (f *Fixtures) validate() error {
	if len(f.Lockers) == 0 {
		return ErrNoLockers
	}

	lockers := make(map[string]bool, len(f.Lockers))
	for _, l := range f.Lockers {
		if l.ID == "" || lockers[l.ID] {
			return fmt.Errorf("%w: locker id %q missing or duplicated", ErrInvalidFixture, l.ID)
		}
		lockers[l.ID] = true
	}

	items := make(map[string]bool, len(f.Items))
	for _, it := range f.Items {
		switch {
		case it.ID == "" || items[it.ID]:
			return fmt.Errorf("%w: item id %q missing or duplicated", ErrInvalidFixture, it.ID)
		case it.Price < 0:
			return fmt.Errorf("%w: item %s has negative price", ErrInvalidFixture, it.ID)
		case !it.Condition.Valid():
			return fmt.Errorf("%w: item %s has condition %q", ErrInvalidFixture, it.ID, it.Condition)
		case !it.Availability.Valid():
			return fmt.Errorf("%w: item %s has availability %q", ErrInvalidFixture, it.ID, it.Availability)
		case it.LockerID != "" && !lockers[it.LockerID]:
			return fmt.Errorf("%w: item %s references unknown locker %s", ErrInvalidFixture, it.ID, it.LockerID)
		}
		items[it.ID] = true
	}

	return nil
}
