package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, keys ...string) error {
	callArgs := make([]interface{}, 0, 1+len(keys))
	callArgs = append(callArgs, ctx)
	for _, k := range keys {
		callArgs = append(callArgs, k)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)

	ret := m.Called(callArgs...)

	var r0 sql.Result
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(sql.Result)
	}
	return r0, ret.Error(1)
}

// QueryRowContext returns whatever *sql.Row the test registered; a nil row cannot be
// scanned, so only register this when the caller does not reach Scan.
func (m *MockDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)

	ret := m.Called(callArgs...)

	var r0 *sql.Row
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*sql.Row)
	}
	return r0
}
