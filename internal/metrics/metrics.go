package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const namespace = "connectfour"

const (
	ResultAccepted = "accepted"

	OutcomeWonA = "won_a"
	OutcomeWonB = "won_b"
	OutcomeDraw = "draw"
)

// Recorder - game counters. A nil *Recorder records nothing.
type Recorder struct {
	gamesStarted  prometheus.Counter
	moves         *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	resets        prometheus.Counter
}

func New(registerer prometheus.Registerer) (*Recorder, error) {
	recorder := &Recorder{
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Total number of games created",
		}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Total number of drop attempts by result",
		}, []string{"result"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Total number of finished games by outcome",
		}, []string{"outcome"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of game resets",
		}),
	}

	for _, collector := range []prometheus.Collector{
		recorder.gamesStarted,
		recorder.moves,
		recorder.gamesFinished,
		recorder.resets,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	return recorder, nil
}

func (that *Recorder) GameStarted() {
	if that == nil {
		return
	}

	that.gamesStarted.Inc()
}

// Move - counts a drop attempt, and the finished game when the move ended it.
func (that *Recorder) Move(result entity.MoveResult, err error) {
	if that == nil {
		return
	}

	if err != nil {
		that.moves.WithLabelValues(MoveResult(err)).Inc()
		return
	}

	that.moves.WithLabelValues(ResultAccepted).Inc()

	if outcome := Outcome(result.Status); outcome != "" {
		that.gamesFinished.WithLabelValues(outcome).Inc()
	}
}

func (that *Recorder) Reset() {
	if that == nil {
		return
	}

	that.resets.Inc()
}

// MoveResult - label for a rejected drop.
func MoveResult(err error) string {
	if apperror.IsRuleViolation(err) {
		return apperror.Code(err)
	}

	return "error"
}

// Outcome - label for a terminal status, empty while in progress.
func Outcome(status entity.Status) string {
	switch {
	case status.IsWon() && status.Winner == entity.PlayerA:
		return OutcomeWonA
	case status.IsWon() && status.Winner == entity.PlayerB:
		return OutcomeWonB
	case status.IsDraw():
		return OutcomeDraw
	default:
		return ""
	}
}
