package sos

import (
	"context"
	"sync"
	"time"

	"github.com/nurlan2209/undeme/internal/notify"
	"github.com/nurlan2209/undeme/pkg/enums"
	"github.com/nurlan2209/undeme/pkg/logger"
	"github.com/nurlan2209/undeme/pkg/metrics"
)

// RoundResult is the aggregate of one parallel fan-out across all channels.
type RoundResult struct {
	Status       enums.SosStatus
	Outcomes     []notify.Outcome
	DispatchedAt time.Time
}

// Coordinator runs every channel sender concurrently for one alert and
// rolls the outcomes up into a delivery status.
type Coordinator struct {
	senders []notify.Sender
	metrics *metrics.DispatchMetrics
	logg    *logger.Logger
}

// NewCoordinator builds a coordinator over the given senders. The metrics
// receiver may be nil.
func NewCoordinator(senders []notify.Sender, m *metrics.DispatchMetrics, logg *logger.Logger) *Coordinator {
	return &Coordinator{senders: senders, metrics: m, logg: logg}
}

// Dispatch fans the alert out to every channel in parallel and waits for all
// of them. A slow or failing channel never short-circuits the others; each
// sender carries its own timeout. kind labels the round for metrics
// ("trigger" or "retry").
func (c *Coordinator) Dispatch(ctx context.Context, kind string, alert notify.Alert) RoundResult {
	started := time.Now()

	outcomes := make([]notify.Outcome, len(c.senders))
	var wg sync.WaitGroup
	for i, sender := range c.senders {
		wg.Add(1)
		go func(i int, sender notify.Sender) {
			defer wg.Done()
			outcomes[i] = sender.Send(ctx, alert)
		}(i, sender)
	}
	wg.Wait()

	successes := 0
	for _, outcome := range outcomes {
		if outcome.Success {
			successes++
			c.metrics.IncSendSuccess(outcome.Channel.String())
		} else {
			c.metrics.IncSendFailure(outcome.Channel.String())
		}
		if outcome.Error != "" && c.logg != nil {
			sendCtx := c.logg.WithChannel(ctx, outcome.Channel.String())
			c.logg.Warn(c.logg.WithField(sendCtx, "detail", outcome.Error), "channel delivery reported errors")
		}
	}

	status := RollupStatus(successes, len(outcomes))
	c.metrics.ObserveRound(kind, time.Since(started))
	c.metrics.IncRound(status.String())

	return RoundResult{
		Status:       status,
		Outcomes:     outcomes,
		DispatchedAt: time.Now().UTC(),
	}
}

// RollupStatus maps the current round's success count onto a delivery
// status: all channels succeeded means sent, none means failed, anything in
// between is a partial send. Only the current round counts; a retry round
// supersedes whatever earlier rounds produced.
func RollupStatus(successes, total int) enums.SosStatus {
	switch {
	case total > 0 && successes == total:
		return enums.SosStatusSent
	case successes > 0:
		return enums.SosStatusPartiallySent
	default:
		return enums.SosStatusFailed
	}
}
