package decompose

import (
	"testing"

	"github.com/arborclust/edc/cutmatching"
	"github.com/arborclust/edc/internal/xmath"
)

func defaultParams(phi float64) Params {
	return Params{CutMatching: cutmatching.Params{
		Phi:           phi,
		TConst:        1,
		TFactor:       0,
		MinIterations: 1,
		MinBalance:    0,
	}}
}

func completeGraphEdges(n int) [][2]uint32 {
	var edges [][2]uint32
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]uint32{uint32(i), uint32(j)})
		}
	}
	return edges
}

func TestRun_PartitionsCoverEveryVertexExactlyOnce(t *testing.T) {
	edges := [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 3}}
	d := New(6, edges, defaultParams(0.2), xmath.New(3))
	parts := d.Run()

	seen := map[uint32]bool{}
	count := 0
	for _, part := range parts {
		for _, v := range part {
			if seen[v] {
				t.Errorf("vertex %d appears in more than one partition", v)
			}
			seen[v] = true
			count++
		}
	}
	if count != 6 {
		t.Errorf("partitions cover %d vertices, want 6", count)
	}
}

func TestRun_EmptyPartitionsAreNeverEmitted(t *testing.T) {
	edges := completeGraphEdges(5)
	d := New(5, edges, defaultParams(0.3), xmath.New(11))
	parts := d.Run()

	for i, part := range parts {
		if len(part) == 0 {
			t.Errorf("partition %d is empty", i)
		}
	}
}

func TestRun_SingleVertexGraphIsOnePartition(t *testing.T) {
	d := New(1, nil, defaultParams(0.2), xmath.New(1))
	parts := d.Run()
	total := 0
	for _, part := range parts {
		total += len(part)
	}
	if total != 1 {
		t.Errorf("total vertices across partitions = %d, want 1", total)
	}
}
