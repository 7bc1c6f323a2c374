package idlc

// Resolve looks up a (possibly `::`-qualified) type name starting from
// startingEntity, per spec.md §4.2. A leading `::` forces a root-relative
// search; otherwise the search walks outward from startingEntity through
// each enclosing scope, attempting a full segment-by-segment descent at
// each level, until one succeeds. Inner scopes shadow outer ones; within
// one scope the first matching child in declaration order wins (FindChildClass
// already implements that tie-break).
func Resolve(name string, startingEntity *Entity) (*Entity, bool) {
	segments := SplitNamespaces(name)
	if len(segments) == 0 {
		return nil, false
	}

	scope := startingEntity
	if segments[0] == "" {
		scope = startingEntity.Root()
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return nil, false
	}

	for s := scope; s != nil; s = s.Owner {
		if found, ok := descend(s, segments); ok {
			return found, true
		}
	}
	return nil, false
}

// descend attempts a full segment-by-segment descent from scope, returning
// the final entity only if every segment resolves. A failure at any depth
// abandons the whole attempt from this starting scope (no partial match is
// returned) so the caller can retry from the next outer scope.
func descend(scope *Entity, segments []string) (*Entity, bool) {
	cur := scope
	for _, seg := range segments {
		next := cur.FindChildClass(seg)
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
