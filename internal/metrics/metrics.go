// Package metrics exposes prometheus collectors for the GraphQL endpoint. The
// Metrics value doubles as a graphql-go tracer so every operation and every
// resolved field is counted.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blogql"

type Metrics struct {
	registry *prometheus.Registry

	operations       *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	fields           *prometheus.CounterVec
	fieldErrors      *prometheus.CounterVec
	validationErrors prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_operations_total",
			Help:      "GraphQL operations executed, by operation name and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graphql_operation_duration_seconds",
			Help:      "Time spent executing GraphQL operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_field_resolutions_total",
			Help:      "Non-trivial field resolutions, by parent type and field.",
		}, []string{"type", "field"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_field_errors_total",
			Help:      "Field resolutions that returned an error.",
		}, []string{"type", "field"}),
		validationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_validation_errors_total",
			Help:      "Queries rejected by validation.",
		}),
	}

	m.registry.MustRegister(
		m.operations,
		m.duration,
		m.fields,
		m.fieldErrors,
		m.validationErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func operationLabel(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}

func (m *Metrics) TraceQuery(ctx context.Context, queryString string, operationName string, variables map[string]interface{}, varTypes map[string]*introspection.Type) (context.Context, tracer.QueryFinishFunc) {
	op := operationLabel(operationName)
	start := time.Now()
	return ctx, func(errs []*errors.QueryError) {
		status := "ok"
		if len(errs) > 0 {
			status = "error"
		}
		m.operations.WithLabelValues(op, status).Inc()
		m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) TraceField(ctx context.Context, label, typeName, fieldName string, trivial bool, args map[string]interface{}) (context.Context, tracer.FieldFinishFunc) {
	if trivial {
		return ctx, func(*errors.QueryError) {}
	}
	m.fields.WithLabelValues(typeName, fieldName).Inc()
	return ctx, func(err *errors.QueryError) {
		if err != nil {
			m.fieldErrors.WithLabelValues(typeName, fieldName).Inc()
		}
	}
}

func (m *Metrics) TraceValidation(ctx context.Context) tracer.ValidationFinishFunc {
	return func(errs []*errors.QueryError) {
		if len(errs) > 0 {
			m.validationErrors.Inc()
		}
	}
}
