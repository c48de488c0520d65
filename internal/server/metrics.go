package server

import (
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/services"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeApplied  = "applied"
	outcomeNoop     = "noop"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

type metrics struct {
	operations *prometheus.CounterVec
}

// newMetrics registers the org chart collectors on reg. The gauges read the
// live chart at scrape time.
func newMetrics(reg prometheus.Registerer, tree *services.OrgTree) (*metrics, error) {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orgchart_operations_total",
			Help: "Move, undo and redo requests by outcome.",
		}, []string{"op", "outcome"}),
	}
	collectors := []prometheus.Collector{
		m.operations,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "orgchart_history_depth",
			Help:        "Records on each history stack.",
			ConstLabels: prometheus.Labels{"stack": "undo"},
		}, func() float64 { return float64(len(tree.History())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "orgchart_history_depth",
			Help:        "Records on each history stack.",
			ConstLabels: prometheus.Labels{"stack": "redo"},
		}, func() float64 { return float64(len(tree.RedoHistory())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "orgchart_employees",
			Help: "Employees in the chart.",
		}, func() float64 { return float64(tree.Len()) }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(kind types.OperationKind, res types.MoveResult, err error) {
	m.operations.WithLabelValues(string(kind), outcomeOf(res, err)).Inc()
}

func outcomeOf(res types.MoveResult, err error) string {
	switch {
	case err == nil && res.Applied:
		return outcomeApplied
	case err == nil:
		return outcomeNoop
	case services.IsNotFound(err) || services.IsInvalidOperation(err):
		return outcomeRejected
	default:
		return outcomeError
	}
}
