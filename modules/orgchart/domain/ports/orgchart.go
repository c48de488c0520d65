package ports

import (
	"context"
	"errors"

	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
)

var (
	ErrEmployeeNotFound        = errors.New("employee_not_found")
	ErrSupervisorNotFound      = errors.New("supervisor_not_found")
	ErrSelfSupervision         = errors.New("self_supervision")
	ErrSupervisorIsSubordinate = errors.New("supervisor_is_subordinate")
	ErrDuplicateEmployeeID     = errors.New("duplicate_employee_id")
)

// SeedSource provides the chart a process starts with.
type SeedSource interface {
	LoadRoot(ctx context.Context) (types.Employee, error)
}
