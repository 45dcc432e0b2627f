package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishOrder(t *testing.T) {
	b := New()

	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		b.Subscribe("ping", func(string, any) { got = append(got, i) })
	}
	b.Subscribe("other", func(string, any) { got = append(got, 99) })

	b.Publish("ping", nil)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestPublishPayloadAndTopic(t *testing.T) {
	b := New()

	var gotTopic string
	var gotPayload any
	b.Subscribe("device.attached", func(topic string, payload any) {
		gotTopic = topic
		gotPayload = payload
	})

	b.Publish("device.attached", map[string]string{"type": "WIFI"})

	assert.Equal(t, "device.attached", gotTopic)
	assert.Equal(t, map[string]string{"type": "WIFI"}, gotPayload)
}

func TestNoPersistence(t *testing.T) {
	b := New()
	b.Publish("late", 1)

	called := false
	b.Subscribe("late", func(string, any) { called = true })

	assert.False(t, called, "handler registered after publish must not see it")
}

func TestUnsubscribe(t *testing.T) {
	t.Run("RemovesHandler", func(t *testing.T) {
		b := New()
		calls := 0
		id := b.Subscribe("x", func(string, any) { calls++ })

		b.Publish("x", nil)
		b.Unsubscribe(id)
		b.Publish("x", nil)

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, b.Count("x"))
		assert.Empty(t, b.Topics())
	})

	t.Run("UnknownIDIsNoop", func(t *testing.T) {
		b := New()
		b.Subscribe("x", func(string, any) {})

		b.Unsubscribe(12345)
		b.Unsubscribe(0)

		assert.Equal(t, 1, b.Count("x"))
	})

	t.Run("DuringPublishNotObserved", func(t *testing.T) {
		b := New()

		var second SubscriptionID
		secondCalls := 0
		b.Subscribe("x", func(string, any) { b.Unsubscribe(second) })
		second = b.Subscribe("x", func(string, any) { secondCalls++ })

		b.Publish("x", nil)
		assert.Equal(t, 1, secondCalls, "snapshot must still include the removed handler")

		b.Publish("x", nil)
		assert.Equal(t, 1, secondCalls)
	})

	t.Run("SubscribeDuringPublishNotObserved", func(t *testing.T) {
		b := New()

		lateCalls := 0
		b.Subscribe("x", func(string, any) {
			b.Subscribe("x", func(string, any) { lateCalls++ })
		})

		b.Publish("x", nil)
		assert.Equal(t, 0, lateCalls)
	})
}

func TestPanicIsolation(t *testing.T) {
	var recovered []any
	b := New(WithPanicHandler(func(topic string, id SubscriptionID, r any) {
		assert.Equal(t, "boom", topic)
		recovered = append(recovered, r)
	}))

	after := false
	b.Subscribe("boom", func(string, any) { panic("handler failure") })
	b.Subscribe("boom", func(string, any) { after = true })

	require.NotPanics(t, func() { b.Publish("boom", nil) })
	assert.True(t, after, "remaining handlers must run")
	assert.Equal(t, []any{"handler failure"}, recovered)
}

func TestReentrantPublish(t *testing.T) {
	b := New()

	var order []string
	b.Subscribe("a", func(string, any) {
		order = append(order, "a")
		b.Publish("b", nil)
	})
	b.Subscribe("b", func(string, any) { order = append(order, "b") })

	b.Publish("a", nil)

	assert.Equal(t, []string{"a", "b"}, order)
}

func TestIntrospection(t *testing.T) {
	b := New()
	b.Subscribe("service.connect.success", func(string, any) {})
	b.Subscribe("connect.success", func(string, any) {})
	b.Subscribe("connect.success", func(string, any) {})

	assert.Equal(t, []string{"connect.success", "service.connect.success"}, b.Topics())
	assert.Equal(t, 2, b.Count("connect.success"))
	assert.Equal(t, 0, b.Count("missing"))
	assert.Equal(t, "eventbus{connect.success:2 service.connect.success:1}", b.String())
}

func TestConcurrentUse(t *testing.T) {
	b := New()

	var mu sync.Mutex
	total := 0
	b.Subscribe("n", func(_ string, p any) {
		mu.Lock()
		total += p.(int)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := b.Subscribe("other", func(string, any) {})
			b.Publish("n", 1)
			b.Unsubscribe(id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, total)
	assert.Equal(t, 0, b.Count("other"))
}
