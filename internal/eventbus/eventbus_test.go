package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_PublishSync(t *testing.T) {
	bus := New()

	var got []string
	Subscribe(bus, func(e ReauthRequired) { got = append(got, e.Message) })

	bus.PublishSync(ReauthRequired{Meta: NewMeta(), Message: "log in again"})

	assert.Equal(t, []string{"log in again"}, got)
}

func TestPublish_AsyncDeliversToAll(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	count := 0
	for i := 0; i < 3; i++ {
		Subscribe(bus, func(SessionCleared) {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	bus.Publish(SessionCleared{Meta: NewMeta(), Reason: "logout"})
	bus.Wait()

	assert.Equal(t, 3, count)
}

func TestPublish_OnlyMatchingType(t *testing.T) {
	bus := New()

	refreshed := 0
	Subscribe(bus, func(SessionRefreshed) { refreshed++ })

	bus.PublishSync(SessionCleared{Meta: NewMeta()})
	bus.PublishSync(&SessionRefreshed{Meta: NewMeta()})
	assert.Zero(t, refreshed, "pointer and other types are distinct")

	bus.PublishSync(SessionRefreshed{Meta: NewMeta(), RefreshRotated: true})
	assert.Equal(t, 1, refreshed)
}

func TestSubscriberCount(t *testing.T) {
	bus := New()
	assert.Zero(t, bus.SubscriberCount(SessionEstablished{}))
	assert.Zero(t, bus.SubscriberCount(nil))

	Subscribe(bus, func(SessionEstablished) {})
	Subscribe(bus, func(SessionEstablished) {})
	assert.Equal(t, 2, bus.SubscriberCount(SessionEstablished{}))
}

func TestNewMeta_Unique(t *testing.T) {
	a, b := NewMeta(), NewMeta()
	require.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.At.IsZero())
}
