package services

import (
	"context"

	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var newOperationID = func() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

type MoveRequest struct {
	EmployeeID   int
	SupervisorID int
}

// OrgChartFacade is what request handlers talk to. It stamps every applied
// change with a time-ordered operation id and logs the outcome.
type OrgChartFacade struct {
	tree   *OrgTree
	logger *zap.Logger
}

func NewOrgChartFacade(tree *OrgTree, logger *zap.Logger) OrgChartFacade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return OrgChartFacade{tree: tree, logger: logger}
}

func (f OrgChartFacade) Move(ctx context.Context, req MoveRequest) (types.MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return types.MoveResult{}, err
	}
	opID, err := newOperationID()
	if err != nil {
		return types.MoveResult{}, err
	}
	rec, err := f.tree.move(req.EmployeeID, req.SupervisorID)
	if err != nil {
		f.logger.Info("orgchart move rejected",
			zap.String("op_id", opID),
			zap.Int("employee_id", req.EmployeeID),
			zap.Int("supervisor_id", req.SupervisorID),
			zap.Error(err),
		)
		return types.MoveResult{}, err
	}

	res := types.MoveResult{OperationID: opID, Kind: types.OperationMove, Applied: true, Record: rec}
	f.logApplied(res)
	return res, nil
}

func (f OrgChartFacade) Undo(ctx context.Context) (types.MoveResult, error) {
	return f.step(ctx, types.OperationUndo, f.tree.Undo)
}

func (f OrgChartFacade) Redo(ctx context.Context) (types.MoveResult, error) {
	return f.step(ctx, types.OperationRedo, f.tree.Redo)
}

func (f OrgChartFacade) step(ctx context.Context, kind types.OperationKind, fn func() (types.MoveRecord, bool, error)) (types.MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return types.MoveResult{}, err
	}
	opID, err := newOperationID()
	if err != nil {
		return types.MoveResult{}, err
	}
	rec, ok, err := fn()
	if err != nil {
		f.logger.Warn("orgchart history out of sync",
			zap.String("op", string(kind)),
			zap.String("op_id", opID),
			zap.Error(err),
		)
		return types.MoveResult{}, err
	}
	if !ok {
		f.logger.Debug("orgchart nothing to replay", zap.String("op", string(kind)))
		return types.MoveResult{Kind: kind}, nil
	}
	res := types.MoveResult{OperationID: opID, Kind: kind, Applied: true, Record: rec}
	f.logApplied(res)
	return res, nil
}

func (f OrgChartFacade) Tree(ctx context.Context) (types.Employee, error) {
	if err := ctx.Err(); err != nil {
		return types.Employee{}, err
	}
	return f.tree.Root(), nil
}

func (f OrgChartFacade) History(ctx context.Context) (types.HistoryView, error) {
	if err := ctx.Err(); err != nil {
		return types.HistoryView{}, err
	}
	return types.HistoryView{Undo: f.tree.History(), Redo: f.tree.RedoHistory()}, nil
}

// OrgTree exposes the underlying chart for read-only accessors.
func (f OrgChartFacade) OrgTree() *OrgTree { return f.tree }

func (f OrgChartFacade) logApplied(res types.MoveResult) {
	f.logger.Info("orgchart change applied",
		zap.String("op", string(res.Kind)),
		zap.String("op_id", res.OperationID),
		zap.Int("employee_id", res.Record.EmployeeID),
		zap.Int("old_supervisor_id", res.Record.OldSupervisorID),
		zap.Int("new_supervisor_id", res.Record.NewSupervisorID),
	)
}
