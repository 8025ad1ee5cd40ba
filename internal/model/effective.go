package model

// ApplyRestriction shrinks a compatibility set according to one active
// restriction.  MAX_SIZE_REDUCED_TO retains only types whose size
// category equals the given cap; TYPE_PROHIBITED removes the named type;
// NO_USE empties the set.  The input slice is never mutated and relative
// order is preserved, so repeated application is order-independent.
func ApplyRestriction(set []string, r Restriction, typeByID map[string]AircraftType) []string {
	switch r.Kind {
	case NoUse:
		return nil
	case MaxSizeReducedTo:
		out := make([]string, 0, len(set))
		for _, id := range set {
			if t, ok := typeByID[id]; ok && t.SizeCategory == r.Size {
				out = append(out, id)
			}
		}
		return out
	case TypeProhibited:
		out := make([]string, 0, len(set))
		for _, id := range set {
			if id != r.Type {
				out = append(out, id)
			}
		}
		return out
	}
	return set
}

// EffectiveSet is the stand's compatibility with every adjacency rule
// that names it as affected applied, which is the worst-case view used
// by the capacity engine.
func EffectiveSet(s Stand, rules []AdjacencyRule, typeByID map[string]AircraftType) []string {
	set := s.CompatibleTypes
	for _, r := range rules {
		if r.AffectedStand == s.ID {
			set = ApplyRestriction(set, r.Restriction, typeByID)
		}
	}
	return set
}
