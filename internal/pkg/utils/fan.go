package utils

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var ErrFanClosed = errors.New("input channel is closed")

// DynamicFanOut replicates every value from the input channel to a set
// of output channels that can be attached and detached at runtime.
// With no outputs attached values are discarded. A slow output blocks
// the whole fan, consumers are expected to drain their channel.
type DynamicFanOut[T any] struct {
	input    <-chan T
	inputCap int

	closed  bool
	mutex   sync.Mutex
	outputs map[int64]chan T
}

func NewDynamicFanOut[T any](input <-chan T) *DynamicFanOut[T] {
	f := DynamicFanOut[T]{
		input:    input,
		inputCap: cap(input),
		outputs:  make(map[int64]chan T),
	}
	go f.run()
	return &f
}

func (f *DynamicFanOut[T]) run() {
	for e := range f.input {
		f.mutex.Lock()
		for _, o := range f.outputs {
			o <- e
		}
		f.mutex.Unlock()
	}
	f.mutex.Lock()
	f.closed = true
	for id, o := range f.outputs {
		close(o)
		delete(f.outputs, id)
	}
	f.mutex.Unlock()
}

// SpawnOutput attaches a fresh output channel, returning its ID for
// DespawnOutput. The channel inherits the input capacity, buffered with
// at least size 1.
func (f *DynamicFanOut[T]) SpawnOutput() (int64, <-chan T, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return 0, nil, ErrFanClosed
	}

	ocap := f.inputCap
	if ocap == 0 {
		ocap = 1
	}

	var id int64
	for id = 0; id < math.MaxInt64; id++ {
		if _, ok := f.outputs[id]; !ok {
			break
		}
	}
	if _, ok := f.outputs[id]; ok {
		return 0, nil, errors.New("no space available")
	}

	newChan := make(chan T, ocap)
	f.outputs[id] = newChan
	return id, newChan, nil
}

// DespawnOutput detaches and closes the output channel with given ID.
func (f *DynamicFanOut[T]) DespawnOutput(id int64) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	c, ok := f.outputs[id]
	if !ok {
		return fmt.Errorf("output id %d not found", id)
	}
	close(c)
	delete(f.outputs, id)

	return nil
}
