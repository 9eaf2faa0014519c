package sos

import (
	"context"
	"testing"
	"time"

	"github.com/nurlan2209/undeme/internal/notify"
	"github.com/nurlan2209/undeme/pkg/enums"
	"github.com/nurlan2209/undeme/pkg/logger"
)

type stubSender struct {
	channel enums.Channel
	delay   time.Duration
	outcome notify.Outcome
}

func (s *stubSender) Channel() enums.Channel { return s.channel }

func (s *stubSender) Send(ctx context.Context, alert notify.Alert) notify.Outcome {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.outcome
}

func okSender(channel enums.Channel) *stubSender {
	return &stubSender{channel: channel, outcome: notify.Outcome{Channel: channel, Success: true}}
}

func failSender(channel enums.Channel, detail string) *stubSender {
	return &stubSender{channel: channel, outcome: notify.Outcome{Channel: channel, Success: false, Error: detail}}
}

func testCoordinator(senders ...notify.Sender) *Coordinator {
	return NewCoordinator(senders, nil, logger.New(logger.Options{ServiceName: "test"}))
}

func TestRollupStatus(t *testing.T) {
	cases := []struct {
		successes, total int
		want             enums.SosStatus
	}{
		{2, 2, enums.SosStatusSent},
		{1, 2, enums.SosStatusPartiallySent},
		{0, 2, enums.SosStatusFailed},
		{0, 0, enums.SosStatusFailed},
	}
	for _, tc := range cases {
		if got := RollupStatus(tc.successes, tc.total); got != tc.want {
			t.Errorf("RollupStatus(%d, %d) = %s, want %s", tc.successes, tc.total, got, tc.want)
		}
	}
}

func TestDispatch_AllChannelsSucceed(t *testing.T) {
	coordinator := testCoordinator(okSender(enums.ChannelWebhook), okSender(enums.ChannelMessagingAPI))

	round := coordinator.Dispatch(context.Background(), "trigger", notify.Alert{})
	if round.Status != enums.SosStatusSent {
		t.Fatalf("status = %s, want sent", round.Status)
	}
	if len(round.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(round.Outcomes))
	}
	if round.DispatchedAt.IsZero() {
		t.Fatal("expected dispatchedAt to be set")
	}

	// Both channels must be present; their relative order is not fixed.
	seen := map[enums.Channel]bool{}
	for _, outcome := range round.Outcomes {
		seen[outcome.Channel] = true
	}
	if !seen[enums.ChannelWebhook] || !seen[enums.ChannelMessagingAPI] {
		t.Fatalf("expected both channels in outcomes, got %v", round.Outcomes)
	}
}

func TestDispatch_PartialFailure(t *testing.T) {
	coordinator := testCoordinator(
		okSender(enums.ChannelWebhook),
		failSender(enums.ChannelMessagingAPI, "credentials rejected"),
	)

	round := coordinator.Dispatch(context.Background(), "trigger", notify.Alert{})
	if round.Status != enums.SosStatusPartiallySent {
		t.Fatalf("status = %s, want partially_sent", round.Status)
	}
}

func TestDispatch_AllChannelsFail(t *testing.T) {
	coordinator := testCoordinator(
		failSender(enums.ChannelWebhook, "not configured"),
		failSender(enums.ChannelMessagingAPI, "no contacts"),
	)

	round := coordinator.Dispatch(context.Background(), "trigger", notify.Alert{})
	if round.Status != enums.SosStatusFailed {
		t.Fatalf("status = %s, want failed", round.Status)
	}
	for _, outcome := range round.Outcomes {
		if outcome.Error == "" {
			t.Errorf("expected error detail for channel %s", outcome.Channel)
		}
	}
}

func TestDispatch_WaitsForSlowChannel(t *testing.T) {
	slow := &stubSender{
		channel: enums.ChannelMessagingAPI,
		delay:   150 * time.Millisecond,
		outcome: notify.Outcome{Channel: enums.ChannelMessagingAPI, Success: true},
	}
	coordinator := testCoordinator(okSender(enums.ChannelWebhook), slow)

	started := time.Now()
	round := coordinator.Dispatch(context.Background(), "trigger", notify.Alert{})
	if elapsed := time.Since(started); elapsed < 150*time.Millisecond {
		t.Fatalf("dispatch returned after %s, before the slow channel finished", elapsed)
	}
	if round.Status != enums.SosStatusSent {
		t.Fatalf("status = %s, want sent", round.Status)
	}
}
