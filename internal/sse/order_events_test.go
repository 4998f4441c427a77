package sse_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ms-restaurant/internal/logger"
	"ms-restaurant/internal/models"
	"ms-restaurant/internal/sse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitRoutesByTable(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	all := emitter.Subscribe(ctx, 0)
	table2 := emitter.Subscribe(ctx, 2)
	assert.Equal(t, 2, emitter.Subscribers())

	emitter.Emit(models.NewOrderEvent("s", models.EventOrderPlaced, 1))
	emitter.Emit(models.NewOrderEvent("s", models.EventOrderPaid, 2))

	assert.Equal(t, 1, (<-all).TableID)
	assert.Equal(t, 2, (<-all).TableID)
	assert.Equal(t, models.EventOrderPaid, (<-table2).Type)

	select {
	case e := <-table2:
		t.Fatalf("unexpected event for table %d", e.TableID)
	default:
	}
}

func TestEmitDropsWhenClientIsSlow(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := emitter.Subscribe(ctx, 0)

	for i := 0; i < 25; i++ {
		emitter.Emit(models.NewOrderEvent("s", models.EventOrderPlaced, 1))
	}
	assert.Len(t, ch, 10)
}

func TestUnsubscribeOnCancel(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	ch := emitter.Subscribe(ctx, 3)

	cancel()
	require.Eventually(t, func() bool { return emitter.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-ch
	assert.False(t, open)

	// emitting after removal must not panic
	emitter.Emit(models.NewOrderEvent("s", models.EventOrderPlaced, 3))
}

func TestStreamOrderEvents(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()
	h := sse.NewHandler(emitter, logger.Discard())
	server := httptest.NewServer(http.HandlerFunc(h.StreamOrderEvents))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"?table=1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	require.Eventually(t, func() bool { return emitter.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	emitter.Emit(models.NewOrderEvent("s", models.EventOrderCompleted, 1))

	var got []string
	for len(got) < 2 || !strings.HasPrefix(got[len(got)-1], "data: {\"event_id\"") {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.TrimSpace(line) != "" {
			got = append(got, strings.TrimSpace(line))
		}
	}
	assert.Contains(t, got, "event: order.completed")
}

func TestStreamOrderEventsRejectsBadTable(t *testing.T) {
	h := sse.NewHandler(sse.NewOrderEventEmitter(), logger.Discard())
	w := httptest.NewRecorder()
	h.StreamOrderEvents(w, httptest.NewRequest(http.MethodGet, "/api/events?table=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
