package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-k8s-lockstep-server/internal/core/domain"
	mock_wss "github.com/JoeShih716/go-k8s-lockstep-server/test/mocks/pkg/wss"
)

func newClient(ctrl *gomock.Controller, id string) *mock_wss.MockClient {
	c := mock_wss.NewMockClient(ctrl)
	c.EXPECT().ID().Return(id).AnyTimes()
	return c
}

func TestManager_BindGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := NewManager()

	sess := NewSession(newClient(ctrl, "conn-1"), "p1", "room-1")
	assert.Nil(t, mgr.Bind(sess))
	assert.Equal(t, int64(1), mgr.Count())

	got, ok := mgr.Get("p1")
	assert.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, "conn-1", got.ConnID())

	_, ok = mgr.Get("nobody")
	assert.False(t, ok)
}

func TestManager_BindReplaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := NewManager()

	old := NewSession(newClient(ctrl, "conn-1"), "p1", "room-1")
	fresh := NewSession(newClient(ctrl, "conn-2"), "p1", "room-1")

	mgr.Bind(old)
	replaced := mgr.Bind(fresh)
	assert.Same(t, old, replaced)
	assert.Equal(t, int64(1), mgr.Count())

	// 舊連線斷線不會把新連線解除綁定
	assert.False(t, mgr.Unbind("p1", "conn-1"))
	got, _ := mgr.Get("p1")
	assert.Same(t, fresh, got)

	assert.True(t, mgr.Unbind("p1", "conn-2"))
	assert.Equal(t, int64(0), mgr.Count())
	assert.False(t, mgr.Unbind("p1", "conn-2"))
}

func TestManager_Send(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := NewManager()

	c := newClient(ctrl, "conn-1")
	c.EXPECT().SendMessage("hi").Return(nil)
	c.EXPECT().Kick("bye").Return(nil)
	mgr.Bind(NewSession(c, "p1", "room-1"))

	sess, _ := mgr.Get("p1")
	assert.NoError(t, sess.Send("hi"))
	assert.NoError(t, sess.Kick("bye"))
}

func TestManager_Concurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	mgr := NewManager()

	const n = 100
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", i)
			mgr.Bind(NewSession(newClient(ctrl, id), domain.PlayerID(fmt.Sprintf("p%d", i)), "room-1"))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int64(n), mgr.Count())

	seen := 0
	mgr.Range(func(*Session) bool {
		seen++
		return true
	})
	assert.Equal(t, n, seen)
}
