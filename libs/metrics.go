package libs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grocery_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grocery_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grocery_orders_placed_total",
		Help: "Orders placed through checkout.",
	})

	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grocery_order_status_changes_total",
		Help: "Order status transitions by target status.",
	}, []string{"status"})

	CouponRedemptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grocery_coupon_redemptions_total",
		Help: "Coupons redeemed at checkout.",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grocery_messages_sent_total",
		Help: "Messages sent between users.",
	})
)
