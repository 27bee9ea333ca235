package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_reservations_total",
		Help: "Multi-date inventory reservations committed.",
	})

	ReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_releases_total",
		Help: "Multi-date inventory releases committed (cancellations and expiries).",
	})

	ReservationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservation_rejections_total",
		Help: "Reservations rejected before any ledger mutation, by reason.",
	}, []string{"reason"})

	ExpiredHoldsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_holds_expired_total",
		Help: "Holds released by the expiry sweeper.",
	})
)
