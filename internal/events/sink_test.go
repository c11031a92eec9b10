package events

import (
	"context"
	"testing"

	"bomb_royale/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMultiFansOutInOrder(t *testing.T) {
	var first, second Recorder
	m := Multi{&first, nil, &second}

	m.Publish(context.Background(),
		domain.Event{Name: domain.EventJoinGame, Token: "tok"},
		domain.Event{Name: domain.EventQuitGame, Token: "tok"},
	)

	require.Equal(t, []string{"join_game", "quit_game"}, first.Names())
	require.Equal(t, first.Names(), second.Names())
}

func TestMetricsSinkCountsByName(t *testing.T) {
	before := testutil.ToFloat64(EventsTotal.WithLabelValues(domain.EventSendBomb))

	MetricsSink{}.Publish(context.Background(),
		domain.Event{Name: domain.EventSendBomb},
		domain.Event{Name: domain.EventSendBomb},
		domain.Event{Name: domain.EventRecvBomb},
	)

	after := testutil.ToFloat64(EventsTotal.WithLabelValues(domain.EventSendBomb))
	require.Equal(t, before+2, after)
}

func TestChannel(t *testing.T) {
	require.Equal(t, "bomb_royale:game:abc", Channel("abc"))
}
