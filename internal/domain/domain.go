// Package domain holds the core chat data model: messages, sources,
// sessions, and the closed set of knowledge domains.
package domain

import "fmt"

// Domain is the knowledge area a conversation is scoped to. It is a
// client-side context tag only; the store does not enforce it.
type Domain string

const (
	DomainTransformers Domain = "transformers"
	DomainSubstations  Domain = "substations"
	DomainEquipment    Domain = "equipment"
	DomainGeneral      Domain = "general"
)

// Domains returns the closed set of knowledge domains.
func Domains() []Domain {
	return []Domain{DomainTransformers, DomainSubstations, DomainEquipment, DomainGeneral}
}

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainTransformers, DomainSubstations, DomainEquipment, DomainGeneral:
		return true
	}
	return false
}

// ParseDomain converts a string to a Domain, rejecting unknown values.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}
