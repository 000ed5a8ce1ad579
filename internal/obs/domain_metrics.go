package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PaymentRequestTotal counts initiation requests per method and outcome.
	PaymentRequestTotal *prometheus.CounterVec
	// SessionsCreatedTotal counts payment sessions created per method.
	SessionsCreatedTotal *prometheus.CounterVec
	// SessionsApprovedTotal counts approval transitions per method.
	SessionsApprovedTotal *prometheus.CounterVec
	// KeyRotationsTotal counts admin API key updates and regenerations.
	KeyRotationsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PaymentRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_request_total",
			Help:      "Count of payment initiation outcomes by method.",
		}, []string{"method", "result"})
		SessionsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_sessions_created_total",
			Help:      "Count of verification sessions created by method.",
		}, []string{"method"})
		SessionsApprovedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_sessions_approved_total",
			Help:      "Count of verification sessions approved by method.",
		}, []string{"method"})
		KeyRotationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_key_rotations_total",
			Help:      "Count of API key updates and regenerations by method.",
		}, []string{"method"})

		for _, c := range []**prometheus.CounterVec{
			&PaymentRequestTotal, &SessionsCreatedTotal, &SessionsApprovedTotal, &KeyRotationsTotal,
		} {
			registerCounterVec(reg, c)
		}
	})
}

func registerCounterVec(reg prometheus.Registerer, vec **prometheus.CounterVec) {
	if err := reg.Register(*vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*vec = existing
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
