package models

// PublisherRef is a publisher resolved from a display name to PubPlat's
// internal "fakeid". It is produced by the lookup step and consumed by
// the list/body steps; it is not persisted.
type PublisherRef struct {
	DisplayName string
	InternalID  string
	// ResolvedName is the nickname PubPlat returned alongside the fakeid.
	// It may differ slightly from DisplayName (e.g. trimmed whitespace,
	// different casing) — preserved separately rather than overwriting
	// the user's input.
	ResolvedName string
}
