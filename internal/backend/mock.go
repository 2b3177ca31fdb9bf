package backend

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SelectFunc func(q Query, dst any) error
	InsertFunc func(table string, rows any) error
	UpdateFunc func(table string, patch map[string]any, q Query) error
	RPCFunc    func(name string, params map[string]any, out any) error

	// Call records
	SelectCalls []Query
	InsertCalls []InsertCall
	UpdateCalls []UpdateCall
	RPCCalls    []RPCCall
}

// InsertCall holds the arguments for a call to Insert.
type InsertCall struct {
	Table string
	Rows  any
}

// UpdateCall holds the arguments for a call to Update.
type UpdateCall struct {
	Table string
	Patch map[string]any
	Query Query
}

// RPCCall holds the arguments for a call to RPC.
type RPCCall struct {
	Name   string
	Params map[string]any
}

// NewMock creates a new mock backend client.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SelectCalls = nil
	m.InsertCalls = nil
	m.UpdateCalls = nil
	m.RPCCalls = nil
}

func (m *Mock) Select(ctx context.Context, q Query, dst any) error {
	m.mu.Lock()
	m.SelectCalls = append(m.SelectCalls, q)
	fn := m.SelectFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(q, dst)
	}
	return nil
}

func (m *Mock) Insert(ctx context.Context, table string, rows any) error {
	m.mu.Lock()
	m.InsertCalls = append(m.InsertCalls, InsertCall{Table: table, Rows: rows})
	fn := m.InsertFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(table, rows)
	}
	return nil
}

func (m *Mock) Update(ctx context.Context, table string, patch map[string]any, q Query) error {
	m.mu.Lock()
	m.UpdateCalls = append(m.UpdateCalls, UpdateCall{Table: table, Patch: patch, Query: q})
	fn := m.UpdateFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(table, patch, q)
	}
	return nil
}

func (m *Mock) RPC(ctx context.Context, name string, params map[string]any, out any) error {
	m.mu.Lock()
	m.RPCCalls = append(m.RPCCalls, RPCCall{Name: name, Params: params})
	fn := m.RPCFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(name, params, out)
	}
	return nil
}
