package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stirlingv/honey-biz/pkg/trm"
)

type MockManager struct{ mock.Mock }

func NewMockManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockManager {
	m := &MockManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockManager) BeginTx(ctx context.Context) (context.Context, trm.Transaction, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(1).(trm.Transaction)
	return args.Get(0).(context.Context), tx, args.Error(2)
}

// Do runs callback directly unless a return error was configured.
func (m *MockManager) Do(ctx context.Context, callback func(ctx context.Context) error) error {
	args := m.Called(ctx, callback)
	if err := args.Error(0); err != nil {
		return err
	}
	return callback(ctx)
}
