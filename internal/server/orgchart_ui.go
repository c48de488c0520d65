package server

import (
	"context"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Devgupta0/Employee-Org-App/internal/routing"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/services"
	"github.com/Devgupta0/Employee-Org-App/pkg/employeeid"
)

const chartPath = "/org/chart"

var chartNotices = map[string]string{
	"moved":           "Employee moved.",
	"undone":          "Last move undone.",
	"redone":          "Move redone.",
	"nothing_to_undo": "Nothing to undo.",
	"nothing_to_redo": "Nothing to redo.",
}

type orgChartUI struct {
	facade  services.OrgChartFacade
	metrics *metrics
}

func (u orgChartUI) handleChart(w http.ResponseWriter, r *http.Request) {
	root, err := u.facade.Tree(r.Context())
	if err != nil {
		status, code := orgChartErrorStatus(err)
		routing.WriteError(w, r, routing.RouteClassUI, status, code, "")
		return
	}
	hist, err := u.facade.History(r.Context())
	if err != nil {
		status, code := orgChartErrorStatus(err)
		routing.WriteError(w, r, routing.RouteClassUI, status, code, "")
		return
	}

	q := r.URL.Query()
	var b strings.Builder
	b.WriteString(`<!doctype html><html><head><meta charset="utf-8"><title>Org Chart</title></head><body>`)
	b.WriteString(`<h1>Org Chart</h1>`)
	if code := strings.TrimSpace(q.Get("error")); code != "" {
		b.WriteString(`<div class="alert" role="alert">`)
		b.WriteString(html.EscapeString(routing.ErrorMessage(code, "")))
		b.WriteString(`</div>`)
	}
	if notice, ok := chartNotices[q.Get("notice")]; ok {
		b.WriteString(`<div class="notice" role="status">` + notice + `</div>`)
	}

	b.WriteString(`<ul class="orgchart">`)
	renderEmployee(&b, root)
	b.WriteString(`</ul>`)

	b.WriteString(`<form method="post" action="` + chartPath + `/move">`)
	b.WriteString(`<label>Employee ID <input name="employee_id" inputmode="numeric" required></label> `)
	b.WriteString(`<label>New supervisor ID <input name="supervisor_id" inputmode="numeric" required></label> `)
	b.WriteString(`<button type="submit">Move</button>`)
	b.WriteString(`</form>`)
	renderReplayForm(&b, "undo", "Undo", len(hist.Undo) > 0)
	renderReplayForm(&b, "redo", "Redo", len(hist.Redo) > 0)

	if len(hist.Undo) > 0 {
		b.WriteString(`<h2>History</h2><ol class="history">`)
		for i := len(hist.Undo) - 1; i >= 0; i-- {
			rec := hist.Undo[i]
			b.WriteString(`<li>` + strconv.Itoa(rec.EmployeeID) + `: ` + strconv.Itoa(rec.OldSupervisorID) + ` &rarr; ` + strconv.Itoa(rec.NewSupervisorID) + `</li>`)
		}
		b.WriteString(`</ol>`)
	}
	b.WriteString(`</body></html>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(b.String()))
}

func renderEmployee(b *strings.Builder, e types.Employee) {
	b.WriteString(`<li data-id="` + strconv.Itoa(e.ID) + `">`)
	b.WriteString(`<span class="name">` + html.EscapeString(e.Name) + `</span> <span class="id">#` + strconv.Itoa(e.ID) + `</span>`)
	if len(e.Subordinates) > 0 {
		b.WriteString(`<ul>`)
		for _, sub := range e.Subordinates {
			renderEmployee(b, sub)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</li>`)
}

func renderReplayForm(b *strings.Builder, action string, label string, enabled bool) {
	b.WriteString(`<form method="post" action="` + chartPath + `/` + action + `">`)
	if enabled {
		b.WriteString(`<button type="submit">` + label + `</button>`)
	} else {
		b.WriteString(`<button type="submit" disabled>` + label + `</button>`)
	}
	b.WriteString(`</form>`)
}

func (u orgChartUI) handleMove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectChart(w, r, "error", "EMPLOYEE_ID_INVALID")
		return
	}
	employee, supervisor, err := employeeid.ParsePair(r.PostForm.Get("employee_id"), r.PostForm.Get("supervisor_id"))
	if err != nil {
		redirectChart(w, r, "error", "EMPLOYEE_ID_INVALID")
		return
	}
	res, err := u.facade.Move(r.Context(), services.MoveRequest{EmployeeID: employee, SupervisorID: supervisor})
	u.metrics.observe(types.OperationMove, res, err)
	if err != nil {
		_, code := orgChartErrorStatus(err)
		redirectChart(w, r, "error", code)
		return
	}
	redirectChart(w, r, "notice", "moved")
}

func (u orgChartUI) handleUndo(w http.ResponseWriter, r *http.Request) {
	u.replay(w, r, types.OperationUndo, u.facade.Undo, "undone", "nothing_to_undo")
}

func (u orgChartUI) handleRedo(w http.ResponseWriter, r *http.Request) {
	u.replay(w, r, types.OperationRedo, u.facade.Redo, "redone", "nothing_to_redo")
}

func (u orgChartUI) replay(w http.ResponseWriter, r *http.Request, kind types.OperationKind, fn func(context.Context) (types.MoveResult, error), applied string, empty string) {
	res, err := fn(r.Context())
	u.metrics.observe(kind, res, err)
	switch {
	case err != nil:
		_, code := orgChartErrorStatus(err)
		redirectChart(w, r, "error", code)
	case res.Applied:
		redirectChart(w, r, "notice", applied)
	default:
		redirectChart(w, r, "notice", empty)
	}
}

func redirectChart(w http.ResponseWriter, r *http.Request, key string, value string) {
	http.Redirect(w, r, chartPath+"?"+url.Values{key: {value}}.Encode(), http.StatusSeeOther)
}
