// Package fixture holds the demo data used to seed a fresh portal.
package fixture

import (
	_ "embed"
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// DemoUser is a fixture user together with the plaintext password used to
// provision its identity. The password must never be persisted.
type DemoUser struct {
	model.User `yaml:",inline"`
	Password   string `yaml:"password"`
}

type Data struct {
	Users        []DemoUser          `yaml:"users"`
	Applications []model.Application `yaml:"applications"`
}

// Load decodes the embedded fixture file.
func Load() (*Data, error) {
	return Parse(fixturesYAML)
}

func Parse(buf []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(buf, &data); err != nil {
		return nil, fmt.Errorf("error parsing fixtures: %w", err)
	}
	return &data, nil
}

// Profiles returns the fixture users with credentials stripped.
func (d *Data) Profiles() []model.User {
	users := make([]model.User, 0, len(d.Users))
	for _, u := range d.Users {
		users = append(users, u.User)
	}
	return users
}
