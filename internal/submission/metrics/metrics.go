package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the submission engine.
type Metrics struct {
	InvalidSubmissions *prometheus.CounterVec
	PageMerges         *prometheus.CounterVec
	DataRemoved        *prometheus.CounterVec
	DraftsSaved        prometheus.Counter
	SubmissionsPosted  *prometheus.CounterVec
	CRMDuration        *prometheus.HistogramVec
}

// New registers the submission metrics with reg. Passing a fresh registry
// keeps tests independent of the global one. A nil *Metrics records nothing.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		InvalidSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cites_invalid_submission_total",
			Help: "Requests for pages the submission cannot reach, by page",
		}, []string{"page"}),
		PageMerges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cites_page_merges_total",
			Help: "Answers merged into a submission, by page",
		}, []string{"page"}),
		DataRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cites_data_removed_total",
			Help: "Answer changes that cleared dependent answers, by page",
		}, []string{"page"}),
		DraftsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "cites_drafts_saved_total",
			Help: "Drafts saved on forward navigation",
		}),
		SubmissionsPosted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cites_submissions_posted_total",
			Help: "Submissions sent to the CRM, by permit type",
		}, []string{"permit_type"}),
		CRMDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cites_crm_request_duration_seconds",
			Help:    "Latency of CRM calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation", "outcome"}),
	}
}

func (m *Metrics) IncInvalidSubmission(page string) {
	if m == nil {
		return
	}
	m.InvalidSubmissions.WithLabelValues(page).Inc()
}

func (m *Metrics) IncPageMerge(page string) {
	if m == nil {
		return
	}
	m.PageMerges.WithLabelValues(page).Inc()
}

func (m *Metrics) IncDataRemoved(page string) {
	if m == nil {
		return
	}
	m.DataRemoved.WithLabelValues(page).Inc()
}

func (m *Metrics) IncDraftSaved() {
	if m == nil {
		return
	}
	m.DraftsSaved.Inc()
}

func (m *Metrics) IncSubmissionPosted(permitType string) {
	if m == nil {
		return
	}
	m.SubmissionsPosted.WithLabelValues(permitType).Inc()
}

// ObserveCRM matches the crm client's Observe hook.
func (m *Metrics) ObserveCRM(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CRMDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}
