// MovieMatch - Group Movie Recommendations with Room Consensus
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviematch

package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviematch/internal/config"
	"github.com/tomtom215/moviematch/internal/recommend"
)

// fakeS3 stores objects in memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failGet error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// exerciseStore runs the shared ArtifactStore contract.
func exerciseStore(t *testing.T, store recommend.ArtifactStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrArtifactNotFound) {
		t.Fatalf("Load() on empty store error = %v, want ErrArtifactNotFound", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Errorf("Delete() on empty store error = %v", err)
	}

	if err := store.Save(ctx, []byte("first")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, []byte("second")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Load() = %q, want second", got)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, recommend.ErrArtifactNotFound) {
		t.Errorf("Load() after Delete error = %v, want ErrArtifactNotFound", err)
	}
}

func TestBadgerArtifactStore(t *testing.T) {
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	defer db.Close()

	exerciseStore(t, NewBadgerArtifactStore(db, "features"))
}

func TestBadgerArtifactStore_KeysAreIndependent(t *testing.T) {
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	a := NewBadgerArtifactStore(db, "a")
	b := NewBadgerArtifactStore(db, "b")
	if err := a.Save(ctx, []byte("A")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := b.Load(ctx); !errors.Is(err, recommend.ErrArtifactNotFound) {
		t.Errorf("Load() error = %v, want ErrArtifactNotFound", err)
	}
}

func TestBadgerArtifactStore_CanceledContext(t *testing.T) {
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewBadgerArtifactStore(db, "features")
	if err := store.Save(ctx, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v, want context.Canceled", err)
	}
}

func TestS3ArtifactStore(t *testing.T) {
	store := NewS3ArtifactStore(newFakeS3(), "bucket", "moviematch", "features")
	if store.Key() != "moviematch/features.bin" {
		t.Errorf("Key() = %q, want moviematch/features.bin", store.Key())
	}
	exerciseStore(t, store)
}

func TestS3ArtifactStore_LoadError(t *testing.T) {
	fake := newFakeS3()
	fake.failGet = errors.New("access denied")
	store := NewS3ArtifactStore(fake, "bucket", "", "features")

	_, err := store.Load(context.Background())
	if err == nil || errors.Is(err, recommend.ErrArtifactNotFound) {
		t.Errorf("Load() error = %v, want a non-not-found error", err)
	}
}

func TestS3ArtifactStore_RoundTripsFeatureSet(t *testing.T) {
	fs := &recommend.FeatureSet{
		Matrix:        [][]float64{{1, 0}, {0.5, 0.5}},
		ItemIDs:       []string{"tt1", "tt2"},
		Categories:    []string{"Action", "Comedy"},
		CategoryIndex: map[string]int{"Action": 0, "Comedy": 1},
	}
	data, err := recommend.EncodeFeatureSet(fs)
	if err != nil {
		t.Fatalf("EncodeFeatureSet() error = %v", err)
	}

	ctx := context.Background()
	store := NewS3ArtifactStore(newFakeS3(), "bucket", "", "features")
	if err := store.Save(ctx, data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := recommend.DecodeFeatureSet(loaded)
	if err != nil {
		t.Fatalf("DecodeFeatureSet() error = %v", err)
	}
	if got.Len() != 2 || got.ItemIDs[1] != "tt2" {
		t.Errorf("decoded ItemIDs = %v, want [tt1 tt2]", got.ItemIDs)
	}
}

func TestNewArtifactStore(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		store, closeFn, err := NewArtifactStore(ctx, config.ArtifactConfig{Backend: BackendNone}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewArtifactStore() error = %v", err)
		}
		if store != nil {
			t.Errorf("store = %T, want nil", store)
		}
		if err := closeFn(); err != nil {
			t.Errorf("close error = %v", err)
		}
	})

	t.Run("badger in memory", func(t *testing.T) {
		store, closeFn, err := NewArtifactStore(ctx, config.ArtifactConfig{Backend: BackendBadger, Key: "features"}, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewArtifactStore() error = %v", err)
		}
		defer func() { _ = closeFn() }()
		if _, ok := store.(*BadgerArtifactStore); !ok {
			t.Errorf("store = %T, want *BadgerArtifactStore", store)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, closeFn, err := NewArtifactStore(ctx, config.ArtifactConfig{Backend: "ftp"}, zerolog.Nop())
		if err == nil {
			t.Error("NewArtifactStore() error = nil, want error")
		}
		if closeFn == nil {
			t.Error("close function must never be nil")
		}
	})
}
