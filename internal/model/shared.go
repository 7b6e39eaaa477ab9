package model

// SharedResource is infrastructure that many rentals on a node reference and that is
// materialized at most once per node.
type SharedResource interface {
	ResourceName() string
	// Protected reports a default resource, which is never created or destroyed by rentals.
	Protected() bool
	// Digest hashes the attributes that define the resource.
	Digest() string
	// StoredDigest is the digest recorded when the resource was first inserted.
	StoredDigest() string
	Validate() error
}
