package syncx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_OpenOnce(t *testing.T) {
	var g Gate[string]

	require.NoError(t, g.Open("first"))
	assert.ErrorIs(t, g.Open("second"), ErrGateOpen)
	assert.False(t, g.TryOpen("third"))

	v, ok := g.Value()
	assert.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestGate_WaitReturnsImmediatelyWhenOpen(t *testing.T) {
	var g Gate[int]
	require.True(t, g.TryOpen(7))

	v, err := g.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGate_WaitBlocksUntilOpen(t *testing.T) {
	var g Gate[int]
	got := make(chan int, 1)

	go func() {
		v, err := g.Wait(context.Background())
		if err == nil {
			got <- v
		}
	}()

	select {
	case <-got:
		t.Fatal("Wait returned before Open")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, g.Open(3))
	select {
	case v := <-got:
		assert.Equal(t, 3, v)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Open")
	}
}

func TestGate_WaitContextCancelled(t *testing.T) {
	var g Gate[int]
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClosableGate_OpenCloseSequences(t *testing.T) {
	tests := []struct {
		name string
		ops  []string // "o<v>" opens with v, "c" closes
		open bool
		want int
	}{
		{name: "single open", ops: []string{"o1"}, open: true, want: 1},
		{name: "open close", ops: []string{"o1", "c"}, open: false},
		{name: "reopen keeps latest", ops: []string{"o1", "c", "o2"}, open: true, want: 2},
		{name: "double close", ops: []string{"o1", "c", "c"}, open: false},
		{name: "close before open", ops: []string{"c", "o5"}, open: true, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g ClosableGate[int]
			for _, op := range tt.ops {
				if op == "c" {
					g.Close()
					continue
				}
				require.True(t, g.TryOpen(int(op[1]-'0')))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			v, err := g.Wait(ctx)
			if !tt.open {
				assert.ErrorIs(t, err, context.DeadlineExceeded)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestClosableGate_WaitClosed(t *testing.T) {
	var g ClosableGate[int]

	// empty gate counts as closed
	require.NoError(t, g.WaitClosed(context.Background()))

	require.True(t, g.TryOpen(1))
	done := make(chan error, 1)
	go func() { done <- g.WaitClosed(context.Background()) }()

	select {
	case <-done:
		t.Fatal("WaitClosed returned while open")
	case <-time.After(20 * time.Millisecond):
	}

	assert.True(t, g.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitClosed did not return after Close")
	}
	assert.False(t, g.Close())
}

func TestClosableGate_WaitAfterCloseSuspendsUntilReopen(t *testing.T) {
	var g ClosableGate[string]
	require.True(t, g.TryOpen("a"))
	require.True(t, g.Close())

	got := make(chan string, 1)
	go func() {
		v, _ := g.Wait(context.Background())
		got <- v
	}()

	select {
	case <-got:
		t.Fatal("Wait returned after Close")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, g.TryOpen("b"))
	select {
	case v := <-got:
		assert.Equal(t, "b", v)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after reopen")
	}
}
