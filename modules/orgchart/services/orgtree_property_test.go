package services

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
)

// wideChart builds a chart of n employees with ids 1..n; employee i reports
// to i/2.
func wideChart(n int) types.Employee {
	var build func(id int) types.Employee
	build = func(id int) types.Employee {
		e := types.Employee{ID: id, Name: "E"}
		for _, c := range []int{2 * id, 2*id + 1} {
			if c <= n {
				e.Subordinates = append(e.Subordinates, build(c))
			}
		}
		return e
	}
	return build(1)
}

func checkInvariants(t *testing.T, tree *OrgTree, wantLen int) {
	t.Helper()
	seen := make(map[int]bool, wantLen)
	roots := 0
	tree.Walk(func(e types.EmployeeRef, depth int) bool {
		if seen[e.ID] {
			t.Errorf("id %d reachable twice", e.ID)
		}
		seen[e.ID] = true
		if !e.HasSupervisor {
			roots++
			if depth != 0 {
				t.Errorf("id %d without supervisor at depth %d", e.ID, depth)
			}
		}
		return true
	})
	if roots != 1 {
		t.Fatalf("roots=%d", roots)
	}
	if len(seen) != wantLen || tree.Len() != wantLen {
		t.Fatalf("reachable=%d len=%d want %d", len(seen), tree.Len(), wantLen)
	}
	for id := range seen {
		chain, ok := tree.ReportingChain(id)
		if !ok {
			t.Fatalf("no chain for %d", id)
		}
		if len(chain) > 0 && chain[len(chain)-1] != 1 {
			t.Fatalf("chain of %d does not end at root: %v", id, chain)
		}
	}
}

func TestRandomOperationsKeepTree(t *testing.T) {
	const n = 40
	rng := rand.New(rand.NewPCG(7, 11))
	tree, err := NewOrgTree(wideChart(n), Options{})
	if err != nil {
		t.Fatal(err)
	}

	for i := range 2000 {
		switch rng.IntN(4) {
		case 0, 1:
			e := rng.IntN(n + 2)
			s := rng.IntN(n + 2)
			before, hadSup := tree.SupervisorOf(e)
			histLen := len(tree.History())
			redo := tree.RedoHistory()

			err := tree.Move(e, s)
			if err != nil {
				if !IsNotFound(err) && !IsInvalidOperation(err) {
					t.Fatalf("step %d: unexpected error kind: %v", i, err)
				}
				if now, ok := tree.SupervisorOf(e); now != before || ok != hadSup {
					t.Fatalf("step %d: failed move changed supervisor of %d", i, e)
				}
				continue
			}
			if sup, _ := tree.SupervisorOf(e); sup != s {
				t.Fatalf("step %d: supervisor of %d = %d want %d", i, e, sup, s)
			}
			if len(tree.History()) != histLen+1 || len(tree.RedoHistory()) != len(redo) {
				t.Fatalf("step %d: stacks after move: %d/%d", i, len(tree.History()), len(tree.RedoHistory()))
			}

			if rng.IntN(2) == 0 {
				if _, ok, err := tree.Undo(); err != nil || !ok {
					t.Fatalf("step %d: undo ok=%v err=%v", i, ok, err)
				}
				if sup, _ := tree.SupervisorOf(e); sup != before {
					t.Fatalf("step %d: undo left %d under %d want %d", i, e, sup, before)
				}
				if _, ok, err := tree.Redo(); err != nil || !ok {
					t.Fatalf("step %d: redo ok=%v err=%v", i, ok, err)
				}
				if sup, _ := tree.SupervisorOf(e); sup != s {
					t.Fatalf("step %d: redo left %d under %d want %d", i, e, sup, s)
				}
			}
		case 2:
			_, _, err := tree.Undo()
			if err != nil && !IsNotFound(err) && !IsInvalidOperation(err) {
				t.Fatalf("step %d: undo err=%v", i, err)
			}
		case 3:
			_, _, err := tree.Redo()
			if err != nil && !IsNotFound(err) && !IsInvalidOperation(err) {
				t.Fatalf("step %d: redo err=%v", i, err)
			}
		}
		if i%50 == 0 {
			checkInvariants(t, tree, n)
		}
	}
	checkInvariants(t, tree, n)

	// Unwinding the whole history never fails: nothing else touched the chart
	// since those records were pushed in order.
	for tree.CanUndo() {
		if _, _, err := tree.Undo(); err != nil {
			t.Fatalf("unwind: %v", err)
		}
	}
	checkInvariants(t, tree, n)
}

func TestUndoUnwindsToSeedAncestry(t *testing.T) {
	const n = 15
	rng := rand.New(rand.NewPCG(3, 5))
	tree, err := NewOrgTree(wideChart(n), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for range 300 {
		_ = tree.Move(rng.IntN(n)+1, rng.IntN(n)+1)
	}
	for tree.CanUndo() {
		if _, _, err := tree.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	for id := 2; id <= n; id++ {
		if sup, ok := tree.SupervisorOf(id); !ok || sup != id/2 {
			t.Fatalf("supervisor of %d = %d,%v want %d", id, sup, ok, id/2)
		}
	}
	for tree.CanRedo() {
		if _, _, err := tree.Redo(); err != nil {
			t.Fatal(err)
		}
	}
	checkInvariants(t, tree, n)
}

func TestConcurrentCallersKeepTree(t *testing.T) {
	const n = 31
	tree, err := NewOrgTree(wideChart(n), Options{})
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewPCG(uint64(w), 99))
			for range 500 {
				switch rng.IntN(5) {
				case 0, 1:
					_ = tree.Move(rng.IntN(n)+1, rng.IntN(n)+1)
				case 2:
					_, _, _ = tree.Undo()
				case 3:
					_, _, _ = tree.Redo()
				default:
					_ = tree.Root()
				}
			}
		}()
	}
	wg.Wait()
	checkInvariants(t, tree, n)
}
