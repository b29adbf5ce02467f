package keymap

import "github.com/google/uuid"

// Owner identifies who registered a mapping.
type Owner struct {
	id   uuid.UUID
	name string
}

// Built-in owners. User mappings come from :map and friends, Config
// mappings from the options file.
var (
	System = Owner{name: "system"}
	User   = Owner{name: "user"}
	Config = Owner{id: uuid.NewSHA1(uuid.NameSpaceOID, []byte("modal.config")), name: "config"}
)

// NewOwner returns a fresh owner for an extension. Two calls with the same
// name return different owners.
func NewOwner(name string) Owner {
	return Owner{id: uuid.New(), name: name}
}

// Name returns the name the owner was created with.
func (o Owner) Name() string {
	return o.name
}

// ID returns the owner id. Built-in owners other than Config have the
// nil id.
func (o Owner) ID() uuid.UUID {
	return o.id
}

// String returns a string representation of the owner.
func (o Owner) String() string {
	if o.id == uuid.Nil {
		return o.name
	}
	return o.name + "/" + o.id.String()
}
