package services

import "github.com/mitrahse/vendorhr-api/internal/models"

// Actor identifies who performs a change, for history and audit entries
type Actor struct {
	Realm     string
	ID        uint
	Name      string
	Tenant    string
	IP        string
	UserAgent string
}

// SystemActor is used by background jobs and the CLI
func SystemActor(name string) Actor {
	return Actor{Realm: models.RealmSystem, Name: name}
}

// Label returns the name recorded in history entries
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Realm
}
