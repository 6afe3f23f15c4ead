package ws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []string
	closed   bool
	failWith error
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, string(data))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub, cancel
}

func TestHub_PublishOnlyReachesOwner(t *testing.T) {
	hub, _ := startHub(t)
	alice, bob := uuid.New(), uuid.New()
	aliceConn, bobConn := &fakeConn{}, &fakeConn{}

	hub.Register(&Client{UserID: alice, Conn: aliceConn})
	hub.Register(&Client{UserID: bob, Conn: bobConn})
	require.Eventually(t, func() bool { return hub.ClientCount(alice) == 1 && hub.ClientCount(bob) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), alice, []byte(`{"type":"low_stock"}`)))
	require.Eventually(t, func() bool { return len(aliceConn.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, bobConn.received())
}

func TestHub_DropsFailingConnection(t *testing.T) {
	hub, _ := startHub(t)
	user := uuid.New()
	broken := &fakeConn{failWith: errors.New("broken pipe")}

	hub.Register(&Client{UserID: user, Conn: broken})
	require.NoError(t, hub.Publish(context.Background(), user, []byte("x")))

	require.Eventually(t, func() bool { return hub.ClientCount(user) == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, broken.isClosed())
}

func TestHub_UnregisterAndShutdown(t *testing.T) {
	hub, cancel := startHub(t)
	user := uuid.New()
	first, second := &fakeConn{}, &fakeConn{}

	hub.Register(&Client{UserID: user, Conn: first})
	hub.Register(&Client{UserID: user, Conn: second})
	hub.Unregister(&Client{UserID: user, Conn: first})
	require.Eventually(t, func() bool { return hub.ClientCount(user) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, first.isClosed())

	cancel()
	require.Eventually(t, second.isClosed, time.Second, 5*time.Millisecond)
}

func TestHub_PublishHonoursContext(t *testing.T) {
	hub := NewHub(zap.NewNop()) // not running, queue fills up
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var err error
	for i := 0; i < 100 && err == nil; i++ {
		err = hub.Publish(ctx, uuid.New(), []byte("x"))
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHub_StoppedHubRejectsWork(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	conn := &fakeConn{}
	client := &Client{UserID: uuid.New(), Conn: conn}
	hub.Register(client)
	hub.Unregister(client)
	assert.True(t, conn.isClosed())

	// Fill the buffer so the stopped signal is the only ready case
	for i := 0; i < cap(hub.send); i++ {
		hub.send <- message{}
	}
	err := hub.Publish(context.Background(), client.UserID, []byte("x"))
	assert.ErrorIs(t, err, ErrHubStopped)
}
