package organizer

import (
	"testing"

	"github.com/hy4ri/clickup-tui/internal/api"
)

func TestMerge(t *testing.T) {
	assigned := []api.Task{{ID: "A", Name: "new"}}
	general := []api.Task{{ID: "A", Name: "old"}, {ID: "B"}}

	merged := Merge(assigned, general)

	if len(merged) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged))
	}
	if merged[0].ID != "A" || merged[0].Name != "new" {
		t.Errorf("expected assigned version of A first, got %+v", merged[0])
	}
	if merged[1].ID != "B" {
		t.Errorf("expected B second, got %s", merged[1].ID)
	}
}

func TestMergeAppendsAssignedOnly(t *testing.T) {
	merged := Merge([]api.Task{{ID: "C"}}, []api.Task{{ID: "A"}, {ID: "B"}})

	want := []string{"A", "B", "C"}
	for i, w := range want {
		if merged[i].ID != w {
			t.Errorf("position %d: got %s, want %s", i, merged[i].ID, w)
		}
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
