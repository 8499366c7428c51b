package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/codemap-billing/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putInfo minioLib.UploadInfo
	putErr  error
	putSize int64
	putOpts minioLib.PutObjectOptions

	getRC  io.ReadCloser
	getErr error

	removeErr error

	statInfo minioLib.ObjectInfo
	statErr  error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, _ string, _ io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	f.putSize = size
	f.putOpts = opts
	return f.putInfo, f.putErr
}
func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	return f.getRC, f.getErr
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, _ string, _ minioLib.RemoveObjectOptions) error {
	return f.removeErr
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(context.Background(), api, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", c.bucket)
	assert.False(t, api.madeBucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(context.Background(), api, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "bucket", c.bucket)
	assert.True(t, api.madeBucket)
}

func TestNewClientWithAPI_Errors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeMinio
	}{
		{name: "bucket exists error", api: &fakeMinio{bucketExistsErr: errors.New("boom")}},
		{name: "make bucket error", api: &fakeMinio{makeBucketErr: errors.New("fail")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClientWithAPI(context.Background(), tt.api, "bucket")
			assert.Nil(t, c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to ensure bucket exists")
		})
	}
}

func TestClient_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader([]byte("data")), 4, "application/zip")
		require.NoError(t, err)
		assert.Equal(t, int64(4), api.putSize)
		assert.Equal(t, "application/zip", api.putOpts.ContentType)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{putErr: errors.New("put-fail")}
		c := &Client{api: api, bucket: "b"}
		err := c.Upload(ctx, "k", bytes.NewReader([]byte("data")), -1, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload object")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{getRC: io.NopCloser(bytes.NewReader([]byte("abc")))}
		c := &Client{api: api, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), data)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{getErr: errors.New("get-fail")}
		c := &Client{api: api, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()

	c := &Client{api: &fakeMinio{}, bucket: "b"}
	assert.NoError(t, c.Delete(ctx, "k"))

	c = &Client{api: &fakeMinio{removeErr: errors.New("remove-fail")}, bucket: "b"}
	err := c.Delete(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete object")
}

func TestClient_Stat(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		api := &fakeMinio{statInfo: minioLib.ObjectInfo{Key: "k", Size: 42, ContentType: "application/zip"}}
		c := &Client{api: api, bucket: "b"}
		info, err := c.Stat(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, model.ObjectInfo{Key: "k", Size: 42, ContentType: "application/zip"}, info)
	})

	t.Run("not found", func(t *testing.T) {
		api := &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}
		c := &Client{api: api, bucket: "b"}
		_, err := c.Stat(ctx, "absent")
		assert.ErrorIs(t, err, model.ErrFileNotFound)
	})

	t.Run("other error", func(t *testing.T) {
		api := &fakeMinio{statErr: errors.New("stat-fail")}
		c := &Client{api: api, bucket: "b"}
		_, err := c.Stat(ctx, "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrFileNotFound)
		assert.Contains(t, err.Error(), "failed to stat object")
	})
}
