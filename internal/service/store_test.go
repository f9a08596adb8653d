package service

import (
	"context"
	"sync"
)

// fakeStore is an in-memory KVStore with per-key failure injection and read
// counters for asserting cache behavior.
type fakeStore struct {
	mu       sync.Mutex
	data     map[string]string
	gets     map[string]int
	sets     map[string]int
	failGets map[string]error
	failSets map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:     make(map[string]string),
		gets:     make(map[string]int),
		sets:     make(map[string]int),
		failGets: make(map[string]error),
		failSets: make(map[string]error),
	}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets[key]++
	if err := f.failGets[key]; err != nil {
		return "", false, err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[key]++
	if err := f.failSets[key]; err != nil {
		return err
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) getCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[key]
}

func (f *fakeStore) setCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}

func (f *fakeStore) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeStore) put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}
