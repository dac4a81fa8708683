package kv

import "maps"

// Memory is an in-process [Storage] for tests. Quota, when positive, limits
// the total number of bytes across all values; a Set that would exceed it
// fails with [ErrQuotaExceeded] and leaves the previous value in place.
type Memory struct {
	data map[string]string

	Quota int

	// FailSet, when non-nil, is returned by every Set.
	FailSet error

	Writes int
}

// NewMemory returns an empty [Memory].
func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	err := ValidateKey(key)
	if err != nil {
		return "", false, err
	}

	v, ok := m.data[key]

	return v, ok, nil
}

// Set stores value unless FailSet is set or Quota would be exceeded.
func (m *Memory) Set(key, value string) error {
	err := ValidateKey(key)
	if err != nil {
		return err
	}

	if m.FailSet != nil {
		return m.FailSet
	}

	if m.Quota > 0 && m.sizeWith(key, value) > m.Quota {
		return ErrQuotaExceeded
	}

	m.data[key] = value
	m.Writes++

	return nil
}

// Remove deletes key if present.
func (m *Memory) Remove(key string) error {
	err := ValidateKey(key)
	if err != nil {
		return err
	}

	delete(m.data, key)

	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Snapshot returns a copy of all stored pairs.
func (m *Memory) Snapshot() map[string]string {
	return maps.Clone(m.data)
}

func (m *Memory) sizeWith(key, value string) int {
	total := len(value)

	for k, v := range m.data {
		if k != key {
			total += len(v)
		}
	}

	return total
}

var _ Storage = (*Memory)(nil)
