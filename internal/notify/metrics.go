package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_notifications_created_total",
		Help: "Notification rows created, by type.",
	}, []string{"type"})

	notificationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracker_notification_failures_total",
		Help: "Recipients whose notification row could not be written.",
	})

	emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_emails_total",
		Help: "Notification emails attempted, by result.",
	}, []string{"result"})

	livePushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_live_pushes_total",
		Help: "Live pushes handed to the transport, by event.",
	}, []string{"event"})
)
