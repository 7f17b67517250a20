package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ImagesUploaded  prometheus.Counter
	ImagesFailed    prometheus.Counter
	UploadTasks     *prometheus.CounterVec
	OrphansDeleted  prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	PaymentAttempts *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ImagesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendopage_images_uploaded_total",
			Help: "Images successfully uploaded to object storage.",
		}),
		ImagesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendopage_images_failed_total",
			Help: "Images that failed to decode or upload.",
		}),
		UploadTasks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vendopage_upload_tasks_total",
			Help: "Upload task executions by terminal outcome.",
		}, []string{"outcome"}),
		OrphansDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendopage_orphan_listings_deleted_total",
			Help: "Listings removed by the cleanup sweep.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vendopage_http_requests_total",
			Help: "HTTP requests by method and status class.",
		}, []string{"method", "status"}),
		PaymentAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vendopage_payment_attempts_total",
			Help: "Premium subscription payment attempts by result.",
		}, []string{"result"}),
	}
}
