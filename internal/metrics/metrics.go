// Package metrics exposes Prometheus counters for the reward ledger and the
// reset scheduler. Served on /metrics by the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ChoresCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_chores_completed_total",
	Help: "Chores marked complete via the reward engine.",
})

var ChoresUncompleted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_chores_uncompleted_total",
	Help: "Chore completions reversed via the reward engine.",
})

var PrizesRedeemed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_prizes_redeemed_total",
	Help: "Prizes redeemed for Fun Bucks.",
})

var FunBucksEarned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_fun_bucks_earned_total",
	Help: "Total Fun Bucks awarded for chore completions.",
})

var FunBucksSpent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_fun_bucks_spent_total",
	Help: "Total Fun Bucks spent on prize redemptions.",
})

var ChoresReset = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_chores_reset_total",
	Help: "Completed chores reverted to incomplete by the scheduler.",
})

var ResetSweeps = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_reset_sweeps_total",
	Help: "Reset sweeps executed, including the startup sweep.",
})

var ResetSweepErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "chorebucks_reset_sweep_errors_total",
	Help: "Per-chore failures during reset sweeps.",
})
