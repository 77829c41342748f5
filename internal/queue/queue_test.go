package queue

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/model"
)

func TestNewAllocationEvent(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	a := &model.SeatAllocation{ID: "a1", SeatID: "s1", StudentID: "st1", ShiftID: "sh1", StartDate: start}

	ev := NewAllocationEvent(EventAssigned, "b1", a, start)
	require.Equal(t, "allocation.assigned", ev.Type)
	require.Equal(t, "b1", ev.BranchID)
	require.Equal(t, "2024-03-01T09:00:00Z", ev.StartDate)
	require.Empty(t, ev.EndDate)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "end_date")

	a.EndDate = &end
	ev = NewAllocationEvent(EventReleased, "b1", a, end)
	require.Equal(t, "2024-03-01T11:00:00Z", ev.EndDate)
}

func TestHandleDelivery(t *testing.T) {
	var got AllocationEvent
	h := func(_ context.Context, ev AllocationEvent) error {
		got = ev
		return nil
	}

	require.NoError(t, handleDelivery(context.Background(), []byte(`{"type":"allocation.released","allocation_id":"a1"}`), h))
	require.Equal(t, EventReleased, got.Type)
	require.Equal(t, "a1", got.AllocationID)

	require.Error(t, handleDelivery(context.Background(), []byte(`not json`), h))
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, sleep(ctx, time.Minute))
	require.True(t, sleep(context.Background(), time.Millisecond))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), AllocationEvent{}))
}

func TestRabbitPublisherDialTimeout(t *testing.T) {
	// Accepts connections and never speaks AMQP, like a wedged broker.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	conns := make(chan net.Conn, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns <- conn
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		for {
			select {
			case c := <-conns:
				_ = c.Close()
			default:
				return
			}
		}
	})

	p := NewRabbitPublisher("amqp://guest:guest@" + ln.Addr().String() + "/")
	require.Equal(t, DefaultDialTimeout, p.DialTimeout)
	p.DialTimeout = 200 * time.Millisecond

	a := &model.SeatAllocation{ID: "a1", SeatID: "s1", StudentID: "st1", ShiftID: "sh1", StartDate: time.Now()}
	start := time.Now()
	err = p.Publish(context.Background(), NewAllocationEvent(EventAssigned, "b1", a, start))
	require.ErrorContains(t, err, "rabbitmq dial")
	require.Less(t, time.Since(start), 5*time.Second)
}
