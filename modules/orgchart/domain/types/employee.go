package types

// Employee is a node of the organization chart. Values of this type are used
// to seed a chart and as read-only snapshots of it; the live chart never hands
// out its own nodes.
type Employee struct {
	ID           int        `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Subordinates []Employee `json:"subordinates" yaml:"subordinates"`
}

// EmployeeRef is the per-node view handed to traversal callbacks.
type EmployeeRef struct {
	ID            int
	Name          string
	SupervisorID  int
	HasSupervisor bool
	Subordinates  int
}

// MoveRecord is one completed reparenting.
type MoveRecord struct {
	EmployeeID      int `json:"employee_id"`
	OldSupervisorID int `json:"old_supervisor_id"`
	NewSupervisorID int `json:"new_supervisor_id"`
}

// Inverse returns the record that undoes r.
func (r MoveRecord) Inverse() MoveRecord {
	return MoveRecord{
		EmployeeID:      r.EmployeeID,
		OldSupervisorID: r.NewSupervisorID,
		NewSupervisorID: r.OldSupervisorID,
	}
}

type OperationKind string

const (
	OperationMove OperationKind = "MOVE"
	OperationUndo OperationKind = "UNDO"
	OperationRedo OperationKind = "REDO"
)

// MoveResult describes the outcome of a move, undo or redo issued through the
// facade. Applied is false for undo/redo on an empty stack.
type MoveResult struct {
	OperationID string        `json:"operation_id,omitempty"`
	Kind        OperationKind `json:"kind"`
	Applied     bool          `json:"applied"`
	Record      MoveRecord    `json:"record"`
}

// HistoryView is a copy of both command stacks, most recent last.
type HistoryView struct {
	Undo []MoveRecord `json:"undo"`
	Redo []MoveRecord `json:"redo"`
}
