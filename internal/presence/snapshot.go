package presence

import "sort"

// Snapshot is an immutable view of the registry taken at one instant.
// Mutations after it was taken are not reflected.
type Snapshot struct {
	identities []Identity
}

func newSnapshot(ids []Identity) Snapshot {
	sort.Slice(ids, func(i, j int) bool { return ids[i].seq < ids[j].seq })
	return Snapshot{identities: ids}
}

// Identities returns a copy of the identities in join order.
func (s Snapshot) Identities() []Identity {
	out := make([]Identity, len(s.identities))
	copy(out, s.identities)
	return out
}

// Except returns the snapshot without the identity for connID.
func (s Snapshot) Except(connID string) Snapshot {
	out := make([]Identity, 0, len(s.identities))
	for _, id := range s.identities {
		if id.ConnID != connID {
			out = append(out, id)
		}
	}
	return Snapshot{identities: out}
}

// Usernames lists the usernames in join order. Never nil.
func (s Snapshot) Usernames() []string {
	names := make([]string, 0, len(s.identities))
	for _, id := range s.identities {
		names = append(names, id.Username)
	}
	return names
}

func (s Snapshot) Len() int { return len(s.identities) }
