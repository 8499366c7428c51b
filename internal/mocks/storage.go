package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/codemap-billing/internal/model"
)

// Storage is a mock type for the model.Storage type.
type Storage struct {
	mock.Mock
}

func (_m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	ret := _m.Called(ctx, key, reader, size, contentType)
	return ret.Error(0)
}

func (_m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	ret := _m.Called(ctx, key)
	var r0 io.ReadCloser
	if rc := ret.Get(0); rc != nil {
		r0 = rc.(io.ReadCloser)
	}
	return r0, ret.Error(1)
}

func (_m *Storage) Stat(ctx context.Context, key string) (model.ObjectInfo, error) {
	ret := _m.Called(ctx, key)
	return ret.Get(0).(model.ObjectInfo), ret.Error(1)
}

// NewStorage creates a new instance of Storage. It also registers a cleanup
// function to assert the mocks expectations.
func NewStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *Storage {
	m := &Storage{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
