package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Devgupta0/Employee-Org-App/internal/routing"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/ports"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/services"
	"github.com/Devgupta0/Employee-Org-App/pkg/employeeid"
	"github.com/Devgupta0/Employee-Org-App/pkg/httperr"
)

type orgChartAPI struct {
	facade  services.OrgChartFacade
	metrics *metrics
}

type moveAPIRequest struct {
	EmployeeID   json.Number `json:"employee_id"`
	SupervisorID json.Number `json:"supervisor_id"`
}

type employeeAPIResponse struct {
	Employee       types.Employee `json:"employee"`
	SupervisorID   *int           `json:"supervisor_id,omitempty"`
	ReportingChain []int          `json:"reporting_chain"`
}

func (a orgChartAPI) handleTree(w http.ResponseWriter, r *http.Request) {
	root, err := a.facade.Tree(r.Context())
	if err != nil {
		writeOrgChartAPIError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, root)
}

func (a orgChartAPI) handleEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := employeeid.Parse(routing.PathParam(r, "id"))
	if err != nil {
		writeOrgChartAPIError(w, r, err)
		return
	}
	tree := a.facade.OrgTree()
	emp, ok := tree.Find(id)
	if !ok {
		routing.WriteError(w, r, routing.RouteClassInternalAPI, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "")
		return
	}
	chain, _ := tree.ReportingChain(id)
	resp := employeeAPIResponse{Employee: emp, ReportingChain: chain}
	if sup, ok := tree.SupervisorOf(id); ok {
		resp.SupervisorID = &sup
	}
	routing.WriteJSON(w, http.StatusOK, resp)
}

func (a orgChartAPI) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		routing.WriteError(w, r, routing.RouteClassInternalAPI, http.StatusBadRequest, "bad_json", "")
		return
	}
	employee, supervisor, err := employeeid.ParsePair(req.EmployeeID.String(), req.SupervisorID.String())
	if err != nil {
		writeOrgChartAPIError(w, r, err)
		return
	}
	res, err := a.facade.Move(r.Context(), services.MoveRequest{EmployeeID: employee, SupervisorID: supervisor})
	a.metrics.observe(types.OperationMove, res, err)
	if err != nil {
		writeOrgChartAPIError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, res)
}

func (a orgChartAPI) handleUndo(w http.ResponseWriter, r *http.Request) {
	a.replay(w, r, types.OperationUndo, a.facade.Undo)
}

func (a orgChartAPI) handleRedo(w http.ResponseWriter, r *http.Request) {
	a.replay(w, r, types.OperationRedo, a.facade.Redo)
}

func (a orgChartAPI) replay(w http.ResponseWriter, r *http.Request, kind types.OperationKind, fn func(context.Context) (types.MoveResult, error)) {
	res, err := fn(r.Context())
	a.metrics.observe(kind, res, err)
	if err != nil {
		writeOrgChartAPIError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, res)
}

func (a orgChartAPI) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := a.facade.History(r.Context())
	if err != nil {
		writeOrgChartAPIError(w, r, err)
		return
	}
	routing.WriteJSON(w, http.StatusOK, hist)
}

func writeOrgChartAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := orgChartErrorStatus(err)
	routing.WriteError(w, r, routing.RouteClassInternalAPI, status, code, err.Error())
}

// orgChartErrorStatus maps a facade or parse error to its HTTP status and
// stable error code.
func orgChartErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, employeeid.ErrEmployeeIDInvalid):
		return http.StatusBadRequest, "EMPLOYEE_ID_INVALID"
	case errors.Is(err, ports.ErrEmployeeNotFound):
		return http.StatusNotFound, "EMPLOYEE_NOT_FOUND"
	case errors.Is(err, ports.ErrSupervisorNotFound):
		return http.StatusNotFound, "SUPERVISOR_NOT_FOUND"
	case errors.Is(err, ports.ErrSelfSupervision):
		return http.StatusUnprocessableEntity, "SELF_SUPERVISION"
	case errors.Is(err, ports.ErrSupervisorIsSubordinate):
		return http.StatusUnprocessableEntity, "SUPERVISOR_IS_SUBORDINATE"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request_cancelled"
	case httperr.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case httperr.IsBadRequest(err):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "orgchart_operation_failed"
	}
}
