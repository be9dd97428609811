package conflict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_AddAndPending(t *testing.T) {
	var tr Tracker
	tr.Add(Conflict{ItemID: "z1", Reason: "edited by two reviewers"})
	tr.Add(Conflict{ItemID: "z1", Reason: "second report", Resolution: ResolutionPending})
	tr.Add(Conflict{ItemID: "z2", Reason: "already decided", Resolution: ResolutionExclude})

	require.Len(t, tr.List(), 3)
	require.Equal(t, 2, tr.Pending())
	require.Equal(t, ResolutionPending, tr.List()[0].Resolution)
}

func TestTracker_Resolve(t *testing.T) {
	var tr Tracker
	tr.Add(Conflict{ItemID: "z1", Reason: "a"})
	tr.Add(Conflict{ItemID: "z1", Reason: "b"})
	tr.Add(Conflict{ItemID: "z2", Reason: "c"})

	if n := tr.Resolve("z1", ResolutionInclude); n != 2 {
		t.Errorf("Resolve() = %d, want 2", n)
	}
	require.Equal(t, 1, tr.Pending())
	for _, c := range tr.List() {
		if c.ItemID == "z1" {
			require.Equal(t, ResolutionInclude, c.Resolution)
		}
	}

	if n := tr.Resolve("missing", ResolutionExclude); n != 0 {
		t.Errorf("Resolve(missing) = %d, want 0", n)
	}
}

func TestTracker_ListIsACopy(t *testing.T) {
	var tr Tracker
	tr.Add(Conflict{ItemID: "z1"})
	list := tr.List()
	list[0].Resolution = ResolutionExclude
	require.Equal(t, 1, tr.Pending())
}

func TestTracker_Clear(t *testing.T) {
	var tr Tracker
	tr.Add(Conflict{ItemID: "z1"})
	tr.Clear()
	require.Empty(t, tr.List())
	require.NotNil(t, tr.List())
	require.Equal(t, 0, tr.Pending())
}

func TestResolution_Valid(t *testing.T) {
	for _, r := range []Resolution{ResolutionInclude, ResolutionExclude, ResolutionPending} {
		if !r.Valid() {
			t.Errorf("%q.Valid() = false, want true", r)
		}
	}
	if Resolution("maybe").Valid() {
		t.Error(`"maybe".Valid() = true, want false`)
	}
}
