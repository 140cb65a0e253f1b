package mocks

import "sync"

// RandomMock returns the queued values in order, modulo n, and then zeros.
type RandomMock struct {
	mu     sync.Mutex
	Values []int
	Asked  []int
}

func (r *RandomMock) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Asked = append(r.Asked, n)
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[0]
	r.Values = r.Values[1:]
	return v % n
}
