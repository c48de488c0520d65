package services

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/ports"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"github.com/Devgupta0/Employee-Org-App/pkg/httperr"
)

// Options tunes an OrgTree. The zero value keeps unbounded history.
type Options struct {
	// HistoryLimit caps each of the undo and redo stacks. When a push would
	// exceed it the oldest record of that stack is dropped. 0 means no cap.
	HistoryLimit int
}

type node struct {
	id       int
	name     string
	parent   *node
	children []*node
}

// OrgTree is a rooted employee hierarchy that can be rearranged with Move and
// stepped back and forth with Undo and Redo.
//
// Nodes live in an index keyed by employee id and keep a reference to their
// supervisor, so lookups do not walk the tree. All methods are safe for
// concurrent use; one lock guards the nodes and both stacks.
type OrgTree struct {
	mu          sync.RWMutex
	root        *node
	index       map[int]*node
	history     []types.MoveRecord
	redoHistory []types.MoveRecord
	limit       int
}

func NewOrgTree(root types.Employee, opts Options) (*OrgTree, error) {
	if opts.HistoryLimit < 0 {
		return nil, httperr.NewBadRequest("history_limit_invalid")
	}
	t := &OrgTree{
		index: make(map[int]*node),
		limit: opts.HistoryLimit,
	}
	n, err := t.build(root, nil)
	if err != nil {
		return nil, err
	}
	t.root = n
	return t, nil
}

func (t *OrgTree) build(e types.Employee, parent *node) (*node, error) {
	if _, exists := t.index[e.ID]; exists {
		return nil, httperr.WrapBadRequest(fmt.Errorf("%w: employee_id=%d", ports.ErrDuplicateEmployeeID, e.ID))
	}
	n := &node{id: e.ID, name: e.Name, parent: parent, children: make([]*node, 0, len(e.Subordinates))}
	t.index[e.ID] = n
	for _, sub := range e.Subordinates {
		child, err := t.build(sub, n)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	return n, nil
}

// Move places employeeID as the last subordinate of supervisorID.
//
// The root has no supervisor and can never be moved. Failures leave the chart
// and both stacks untouched.
func (t *OrgTree) Move(employeeID int, supervisorID int) error {
	_, err := t.move(employeeID, supervisorID)
	return err
}

func (t *OrgTree) move(employeeID int, supervisorID int) (types.MoveRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	emp, err := t.locate(employeeID)
	if err != nil {
		return types.MoveRecord{}, err
	}
	if employeeID == supervisorID {
		return types.MoveRecord{}, invalidOperation(ports.ErrSelfSupervision, "employee_id=%d", employeeID)
	}
	sup, err := t.target(emp, supervisorID)
	if err != nil {
		return types.MoveRecord{}, err
	}

	rec := types.MoveRecord{
		EmployeeID:      employeeID,
		OldSupervisorID: emp.parent.id,
		NewSupervisorID: supervisorID,
	}
	t.history = t.push(t.history, rec)
	reattach(emp, sup)
	return rec, nil
}

// Undo reverts the most recent move still on the history stack and returns
// the reparenting it performed. ok is false when there was nothing to undo.
func (t *OrgTree) Undo() (applied types.MoveRecord, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step(&t.history, &t.redoHistory)
}

// Redo reapplies the most recently undone move. ok is false when there was
// nothing to redo.
func (t *OrgTree) Redo() (applied types.MoveRecord, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step(&t.redoHistory, &t.history)
}

// step pops the top record of from, performs its inverse and pushes that
// inverse onto to. The record stays on from when the chart no longer matches
// it.
func (t *OrgTree) step(from *[]types.MoveRecord, to *[]types.MoveRecord) (types.MoveRecord, bool, error) {
	if len(*from) == 0 {
		return types.MoveRecord{}, false, nil
	}
	rec := (*from)[len(*from)-1]
	applied := rec.Inverse()

	emp, err := t.locate(applied.EmployeeID)
	if err != nil {
		return types.MoveRecord{}, false, err
	}
	if emp.parent.id != applied.OldSupervisorID {
		return types.MoveRecord{}, false, notFound(ports.ErrEmployeeNotFound, "employee_id=%d supervisor_id=%d", applied.EmployeeID, applied.OldSupervisorID)
	}
	sup, err := t.target(emp, applied.NewSupervisorID)
	if err != nil {
		return types.MoveRecord{}, false, err
	}

	*from = (*from)[:len(*from)-1]
	*to = t.push(*to, applied)
	reattach(emp, sup)
	return applied, true, nil
}

// locate resolves an employee that has a supervisor.
func (t *OrgTree) locate(employeeID int) (*node, error) {
	n, ok := t.index[employeeID]
	if !ok || n.parent == nil {
		return nil, notFound(ports.ErrEmployeeNotFound, "employee_id=%d", employeeID)
	}
	return n, nil
}

// target resolves supervisorID as a new supervisor for emp.
func (t *OrgTree) target(emp *node, supervisorID int) (*node, error) {
	sup, ok := t.index[supervisorID]
	if !ok {
		return nil, notFound(ports.ErrSupervisorNotFound, "supervisor_id=%d", supervisorID)
	}
	for a := sup; a != nil; a = a.parent {
		if a == emp {
			return nil, invalidOperation(ports.ErrSupervisorIsSubordinate, "employee_id=%d supervisor_id=%d", emp.id, supervisorID)
		}
	}
	return sup, nil
}

func (t *OrgTree) push(stack []types.MoveRecord, rec types.MoveRecord) []types.MoveRecord {
	stack = append(stack, rec)
	if t.limit > 0 && len(stack) > t.limit {
		stack = slices.Delete(stack, 0, len(stack)-t.limit)
	}
	return stack
}

func reattach(n *node, to *node) {
	old := n.parent
	id := n.id
	old.children = slices.DeleteFunc(old.children, func(c *node) bool { return c.id == id })
	to.children = append(to.children, n)
	n.parent = to
}

// Root returns a snapshot of the whole chart.
func (t *OrgTree) Root() types.Employee {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return snapshot(t.root)
}

// Find returns a snapshot of the subtree rooted at id.
func (t *OrgTree) Find(id int) (types.Employee, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.index[id]
	if !ok {
		return types.Employee{}, false
	}
	return snapshot(n), true
}

// SupervisorOf reports the current supervisor of id. It is false for the root
// and for unknown ids.
func (t *OrgTree) SupervisorOf(id int) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.index[id]
	if !ok || n.parent == nil {
		return 0, false
	}
	return n.parent.id, true
}

// ReportingChain lists the supervisors of id from the closest one up to the
// root. The root has an empty chain.
func (t *OrgTree) ReportingChain(id int) ([]int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.index[id]
	if !ok {
		return nil, false
	}
	chain := []int{}
	for a := n.parent; a != nil; a = a.parent {
		chain = append(chain, a.id)
	}
	return chain, true
}

// Walk visits the chart depth-first, supervisors before subordinates, in
// sibling order. Returning false from fn stops the walk. fn runs under the
// read lock and must not call mutating methods.
func (t *OrgTree) Walk(fn func(e types.EmployeeRef, depth int) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	walk(t.root, 0, fn)
}

func walk(n *node, depth int, fn func(types.EmployeeRef, int) bool) bool {
	ref := types.EmployeeRef{ID: n.id, Name: n.name, Subordinates: len(n.children)}
	if n.parent != nil {
		ref.SupervisorID = n.parent.id
		ref.HasSupervisor = true
	}
	if !fn(ref, depth) {
		return false
	}
	for _, c := range n.children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

func (t *OrgTree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.index)
}

func (t *OrgTree) History() []types.MoveRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.history)
}

func (t *OrgTree) RedoHistory() []types.MoveRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.redoHistory)
}

func (t *OrgTree) CanUndo() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.history) > 0
}

func (t *OrgTree) CanRedo() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.redoHistory) > 0
}

func snapshot(n *node) types.Employee {
	e := types.Employee{ID: n.id, Name: n.name, Subordinates: make([]types.Employee, 0, len(n.children))}
	for _, c := range n.children {
		e.Subordinates = append(e.Subordinates, snapshot(c))
	}
	return e
}

// IsNotFound reports whether err names an employee or supervisor the chart
// does not hold.
func IsNotFound(err error) bool {
	return httperr.IsNotFound(err)
}

// IsInvalidOperation reports whether err rejects a move that would break the
// hierarchy.
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ports.ErrSelfSupervision) || errors.Is(err, ports.ErrSupervisorIsSubordinate)
}

func notFound(sentinel error, format string, args ...any) error {
	return httperr.WrapNotFound(fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

func invalidOperation(sentinel error, format string, args ...any) error {
	return httperr.WrapBadRequest(fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}
