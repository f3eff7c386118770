package core

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnumerate(t *testing.T) {
	t.Parallel()

	var got []Indexed[string]
	for in := range Enumerate(context.Background(), []string{"a", "b", "c"}) {
		got = append(got, in)
	}
	assert.Equal(t, []Indexed[string]{{0, "a"}, {1, "b"}, {2, "c"}}, got)
}

func TestEnumerateStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := 0
	for range Enumerate(ctx, make([]int, 100)) {
		n++
	}
	assert.LessOrEqual(t, n, 1)
}

func TestLocomotive(t *testing.T) {
	t.Parallel()

	ctx := WithWorkerOptions(context.Background(), 3)
	workers := GetWorkerMaxCount(ctx, 1)
	assert.Equal(t, 3, workers)

	inputCh := Enumerate(ctx, []int{1, 2, 3, 4, 5})
	outCh := make(chan int)
	wg := &sync.WaitGroup{}

	for range workers {
		wg.Add(1)
		go Locomotive(ctx, inputCh, outCh, func(_ context.Context, in Indexed[int]) int {
			return in.Value * 10
		}, CancellationHandlers[Indexed[int], int]{}, wg)
	}
	go func() {
		wg.Wait()
		close(outCh)
	}()

	var got []int
	for v := range outCh {
		got = append(got, v)
	}
	sort.Ints(got)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, got)
}

func TestLocomotiveCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	inputCh := make(chan int)
	outCh := make(chan int, 10)
	wg := &sync.WaitGroup{}

	var mu sync.Mutex
	cancelled := 0
	wg.Add(1)
	go Locomotive(ctx, inputCh, outCh, func(_ context.Context, in int) int { return in },
		CancellationHandlers[int, int]{
			OnCancel: func(context.Context, <-chan int, chan<- int) {
				mu.Lock()
				cancelled++
				mu.Unlock()
			},
		}, wg)

	inputCh <- 1
	assert.Equal(t, 1, <-outCh)

	cancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("locomotive did not stop after cancel")
	}
	assert.Equal(t, 1, cancelled)
}

func TestGetWorkerMaxCountDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, GetWorkerMaxCount(context.Background(), 4))
	assert.Equal(t, 4, GetWorkerMaxCount(WithWorkerOptions(context.Background(), 0), 4))
}
