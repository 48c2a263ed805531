package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command Metrics
var (
	// CommandsTotal tracks handled commands by name and outcome
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_commands_total",
			Help: "Total commands handled by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	// CallbacksTotal tracks inline button presses by action and outcome
	CallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_callbacks_total",
			Help: "Total callback queries by action and outcome",
		},
		[]string{"action", "outcome"},
	)
)

// Moderation Metrics
var (
	// ActionsTotal tracks successful moderation actions
	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_moderation_actions_total",
			Help: "Total successful moderation actions by action",
		},
		[]string{"action"},
	)

	// TelegramErrors tracks failed Telegram API calls by method
	TelegramErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_telegram_errors_total",
			Help: "Total failed Telegram API calls by method",
		},
		[]string{"method"},
	)
)

// Data Exchange Metrics
var (
	// ExchangeSent tracks outbound exchange messages by action and type
	ExchangeSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_exchange_sent_total",
			Help: "Total exchange messages sent by action and type",
		},
		[]string{"action", "type"},
	)

	// ExchangeReceived tracks inbound exchange messages addressed to this bot
	ExchangeReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_exchange_received_total",
			Help: "Total exchange messages received by action and type",
		},
		[]string{"action", "type"},
	)

	// ExchangeErrors tracks exchange messages that could not be parsed or sent
	ExchangeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "warn_exchange_errors_total",
			Help: "Total exchange messages that failed to parse or send",
		},
	)
)

// State Metrics
var (
	// TrackedUsers is the size of the user table
	TrackedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warn_tracked_users",
			Help: "Number of users in the user table",
		},
	)

	// PendingReports is the number of reports waiting for an admin
	PendingReports = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warn_pending_reports",
			Help: "Number of reports waiting for an admin decision",
		},
	)

	// TimerRuns tracks periodic job executions by job name
	TimerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_timer_runs_total",
			Help: "Total periodic job runs by job",
		},
		[]string{"job"},
	)

	// Panics tracks recovered panics by goroutine name
	Panics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warn_panics_total",
			Help: "Total recovered panics by goroutine",
		},
		[]string{"module"},
	)
)
