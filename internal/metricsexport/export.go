// Package metricsexport ships the client's Prometheus metrics out of short-lived
// processes such as the onecall command, which exit before any scraper could
// reach a /metrics endpoint.
//
// Metrics are gathered from a prometheus.Gatherer and then either written in
// the text exposition format or converted to Google Cloud Monitoring time
// series and ingested through the Monitoring API (Managed Service for
// Prometheus naming).
package metricsexport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/genproto/googleapis/api/distribution"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Gather collects the metric families whose names start with prefix.
// An empty prefix keeps everything.
func Gather(g prometheus.Gatherer, prefix string) ([]*dto.MetricFamily, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	if prefix == "" {
		return families, nil
	}
	kept := families[:0]
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), prefix) {
			kept = append(kept, mf)
		}
	}
	return kept, nil
}

// WriteText writes families in the Prometheus text exposition format.
func WriteText(w io.Writer, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Resource describes the process the metrics come from.
type Resource struct {
	ProjectID string
	Location  string
	Namespace string
	Job       string
	Instance  string
}

func (r Resource) monitored() *monitoredres.MonitoredResource {
	return &monitoredres.MonitoredResource{
		Type: "prometheus_target",
		Labels: map[string]string{
			"project_id": r.ProjectID,
			"location":   r.Location,
			"cluster":    "__gce__",
			"namespace":  r.Namespace,
			"job":        r.Job,
			"instance":   r.Instance,
		},
	}
}

// ToTimeSeries converts families to Cloud Monitoring time series stamped at now.
// Counters, gauges, untyped metrics and histograms are converted; summaries are skipped.
func ToTimeSeries(families []*dto.MetricFamily, resource Resource, now time.Time, logger *slog.Logger) []*monitoringpb.TimeSeries {
	monitored := resource.monitored()
	ts := timestamppb.New(now)

	var timeSeriesList []*monitoringpb.TimeSeries
	for _, mf := range families {
		name := mf.GetName()
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}

			var point *monitoringpb.Point
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				point = createPoint(ts, m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				point = createPoint(ts, m.GetGauge().GetValue())
			case dto.MetricType_UNTYPED:
				point = createPoint(ts, m.GetUntyped().GetValue())
			case dto.MetricType_HISTOGRAM:
				point = createDistributionPoint(ts, m.GetHistogram(), logger)
			case dto.MetricType_SUMMARY:
				logger.Debug("skipping metric with unhandled summary type", "metric", name)
				continue
			default:
				logger.Warn("skipping metric with unhandled type", "metric", name, "type", mf.GetType())
				continue
			}

			timeSeriesList = append(timeSeriesList, &monitoringpb.TimeSeries{
				Metric: &metric.Metric{
					Type:   "prometheus.googleapis.com/" + name,
					Labels: labels,
				},
				Resource: monitored,
				Points:   []*monitoringpb.Point{point},
			})
		}
	}
	return timeSeriesList
}

func createPoint(timestamp *timestamppb.Timestamp, value float64) *monitoringpb.Point {
	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{
			EndTime: timestamp,
		},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DoubleValue{
				DoubleValue: value,
			},
		},
	}
}

// createDistributionPoint turns cumulative Prometheus buckets into per-bucket counts.
// The trailing +Inf bucket only contributes a count, not a bound.
func createDistributionPoint(timestamp *timestamppb.Timestamp, h *dto.Histogram, logger *slog.Logger) *monitoringpb.Point {
	promBuckets := h.GetBucket()
	bounds := make([]float64, 0, len(promBuckets))
	bucketCounts := make([]int64, 0, len(promBuckets)+1)
	var lastCumulativeCount uint64

	for i, b := range promBuckets {
		if !math.IsInf(b.GetUpperBound(), +1) {
			bounds = append(bounds, b.GetUpperBound())
		}
		cumulativeCount := b.GetCumulativeCount()
		bucketCounts = append(bucketCounts, capCount(cumulativeCount-lastCumulativeCount, "bucket", i, logger))
		lastCumulativeCount = cumulativeCount
	}

	sampleCount := h.GetSampleCount()
	if len(bucketCounts) == len(bounds) {
		// client_golang omits the +Inf bucket; add the overflow count explicitly.
		bucketCounts = append(bucketCounts, capCount(sampleCount-lastCumulativeCount, "overflow", len(bounds), logger))
	}

	var mean float64
	if sampleCount > 0 {
		mean = h.GetSampleSum() / float64(sampleCount)
	}

	dist := &distribution.Distribution{
		Count: capCount(sampleCount, "samples", 0, logger),
		Mean:  mean,
		BucketOptions: &distribution.Distribution_BucketOptions{
			Options: &distribution.Distribution_BucketOptions_ExplicitBuckets{
				ExplicitBuckets: &distribution.Distribution_BucketOptions_Explicit{
					Bounds: bounds,
				},
			},
		},
		BucketCounts: bucketCounts,
	}

	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{
			EndTime: timestamp,
		},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DistributionValue{
				DistributionValue: dist,
			},
		},
	}
}

func capCount(v uint64, what string, index int, logger *slog.Logger) int64 {
	if v > math.MaxInt64 {
		logger.Warn("histogram count exceeds MaxInt64, capping value", "what", what, "index", index, "value", v)
		return math.MaxInt64
	}
	return int64(v)
}

// Push writes the time series to Cloud Monitoring using application default credentials.
func Push(ctx context.Context, projectID string, timeSeries []*monitoringpb.TimeSeries) error {
	if len(timeSeries) == 0 {
		return nil
	}
	client, err := monitoring.NewMetricClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + projectID,
		TimeSeries: timeSeries,
	}
	if err := client.CreateTimeSeries(ctx, req); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}
