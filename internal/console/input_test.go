package console

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func getLine(t *testing.T, in *Input) (string, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	line, ok, err := in.GetLine(ctx)
	require.NoError(t, err)
	return line, ok
}

func TestInput_EnableThenStartRuns(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	in := NewInput(r, false, nil)
	assert.Equal(t, StateDisabledUnstarted, in.State())

	assert.Equal(t, StateEnabledUnstarted, in.Enable())
	assert.False(t, in.readerAlive())

	assert.Equal(t, StateRunning, in.Start())
	assert.True(t, in.readerAlive())

	_, err = w.WriteString("hello\n")
	require.NoError(t, err)
	line, ok := getLine(t, in)
	assert.True(t, ok)
	assert.Equal(t, "hello", line)

	old := in.current.Get().run
	assert.Equal(t, StateDisabledStarted, in.Disable())
	assert.False(t, in.readerAlive())
	assert.Eventually(t, func() bool { return !old.alive() }, time.Second, 5*time.Millisecond)
}

func TestInput_DisableInterruptsReader(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	in := NewInput(r, true, nil)
	in.Start()
	old := in.current.Get().run
	require.NotNil(t, old)

	in.Disable()

	// the reader goroutine is interrupted without any input on the pipe
	select {
	case <-old.exited:
	case <-time.After(time.Second):
		t.Fatal("reader was not interrupted")
	}
}

func TestInput_LinesThenEndOfStream(t *testing.T) {
	in := NewInput(strings.NewReader("a\nb\n"), true, nil)
	in.Start()

	line, ok := getLine(t, in)
	assert.True(t, ok)
	assert.Equal(t, "a", line)

	line, ok = getLine(t, in)
	assert.True(t, ok)
	assert.Equal(t, "b", line)

	_, ok = getLine(t, in)
	assert.False(t, ok)

	// end of stream is sticky
	_, ok = getLine(t, in)
	assert.False(t, ok)

	in.Stop()
}

func TestInput_GetLineWaitsForRunning(t *testing.T) {
	in := NewInput(strings.NewReader("late\n"), false, nil)
	in.Start()

	got := make(chan string, 1)
	go func() {
		line, _, err := in.GetLine(context.Background())
		if err == nil {
			got <- line
		}
	}()

	select {
	case <-got:
		t.Fatal("GetLine returned while disabled")
	case <-time.After(20 * time.Millisecond):
	}

	in.Enable()
	select {
	case line := <-got:
		assert.Equal(t, "late", line)
	case <-time.After(time.Second):
		t.Fatal("GetLine did not return after Enable")
	}
	in.Stop()
}

func TestInput_GetLineContextCancelled(t *testing.T) {
	in := NewInput(strings.NewReader(""), false, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok, err := in.GetLine(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInput_GetLineSurvivesRestart(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	in := NewInput(r, true, nil)
	in.Start()
	first := in.current.Get().run

	got := make(chan string, 1)
	go func() {
		line, _, err := in.GetLine(context.Background())
		if err == nil {
			got <- line
		}
	}()

	// leave and re-enter running while the caller waits
	time.Sleep(10 * time.Millisecond)
	in.Stop()
	<-first.exited
	in.Start()

	_, err = w.WriteString("x\n")
	require.NoError(t, err)

	select {
	case line := <-got:
		assert.Equal(t, "x", line)
	case <-time.After(time.Second):
		t.Fatal("GetLine did not follow the new running period")
	}

	in.Stop()
}

func TestInput_ConcurrentTransitionsSettle(t *testing.T) {
	pr, pw := io.Pipe()
	in := NewInput(pr, false, nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 4 {
			case 0:
				in.Start()
			case 1:
				in.Enable()
			case 2:
				in.Disable()
			case 3:
				in.Stop()
			}
		}()
	}
	wg.Wait()

	in.Enable()
	in.Start()
	assert.Equal(t, StateRunning, in.State())
	in.Stop()
	in.Disable()
	assert.Equal(t, StateDisabledUnstarted, in.State())
	assert.Nil(t, in.current.Get().run)

	// releases readers that were blocked on the pipe
	require.NoError(t, pw.Close())
}
