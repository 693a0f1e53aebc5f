package decompose

// PartitionID names one part of the final decomposition.
type PartitionID int

// Partitions is the growing partition map: New(parent) allocates a fresh,
// empty id recording provenance; Append is the only way content ever lands
// in it, since a partition's eventual membership is not known until the
// recursion below it settles (a Balanced split, for instance, allocates two
// ids well before either side's own classification is decided).
type Partitions struct {
	members [][]uint32
	parent  []PartitionID
}

// New allocates an empty partition, recording parent for provenance (root
// partitions use parent -1).
func (p *Partitions) New(parent PartitionID) PartitionID {
	id := PartitionID(len(p.members))
	p.members = append(p.members, nil)
	p.parent = append(p.parent, parent)
	return id
}

// Append folds vs into partition id's member set.
func (p *Partitions) Append(id PartitionID, vs []uint32) {
	p.members[id] = append(p.members[id], vs...)
}

// Parts returns every non-empty partition's vertex list, in allocation
// order. A Balanced split's own id never receives content directly — both
// halves recurse into freshly allocated children instead — so it stays
// empty and is filtered out here rather than reported as a spurious part.
func (p *Partitions) Parts() [][]uint32 {
	out := make([][]uint32, 0, len(p.members))
	for _, m := range p.members {
		if len(m) > 0 {
			out = append(out, m)
		}
	}
	return out
}
