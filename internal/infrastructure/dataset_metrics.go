package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vgsales_dataset_records",
		Help: "Number of cleaned records in the active dataset",
	})
	DatasetReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vgsales_dataset_reloads_total",
		Help: "Dataset load attempts by result",
	}, []string{"result"})
	DatasetLoadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vgsales_dataset_load_seconds",
		Help:    "Time to read and clean the dataset file",
		Buckets: prometheus.DefBuckets,
	})
	DatasetInvalidYears = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vgsales_dataset_invalid_years",
		Help: "Rows whose year was replaced by the median in the last load",
	})
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vgsales_websocket_clients",
		Help: "Connected websocket clients",
	})
)
