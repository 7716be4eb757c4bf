package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(shellCommandsTotal, adminCommandsTotal) }

var (
	shellCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shell_commands_total",
			Help: "Shell commands run, by command and result (ok|error|usage|unknown).",
		},
		[]string{"command", "result"},
	)

	adminCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_commands_total",
			Help: "Admin commands by authorization result.",
		},
		[]string{"command", "result"},
	)
)

func IncShellCommand(command, result string) {
	shellCommandsTotal.WithLabelValues(norm(command), result).Inc()
}

func IncAdminCommand(command, result string) {
	adminCommandsTotal.WithLabelValues(norm(command), result).Inc()
}
