// Copyright (c) 2021 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix. Farm slots, call logs and store props each live
// under their own bucket of the main database.
type Bucket string

var keyPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// prefixed calls fn with the bucket key of key. The key buffer is pooled and
// only valid during fn.
func prefixed[T any](b Bucket, key []byte, fn func([]byte) (T, error)) (T, error) {
	kp := keyPool.Get().(*[]byte)
	defer keyPool.Put(kp)
	*kp = append(append((*kp)[:0], b...), key...)
	return fn(*kp)
}

// span maps a range relative to the bucket onto the source keys.
// An open limit stops at the end of the bucket.
func (b Bucket) span(r Range) Range {
	out := Range{Start: append([]byte(b), r.Start...)}
	if len(r.Limit) == 0 {
		out.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		out.Limit = append([]byte(b), r.Limit...)
	}
	return out
}

// NewGetter reads src through the bucket.
func (b Bucket) NewGetter(src Getter) Getter {
	return &struct {
		GetFunc
		HasFunc
		IsNotFoundFunc
	}{
		func(key []byte) ([]byte, error) {
			return prefixed(b, key, src.Get)
		},
		func(key []byte) (bool, error) {
			return prefixed(b, key, src.Has)
		},
		src.IsNotFound,
	}
}

// NewPutter writes src through the bucket.
func (b Bucket) NewPutter(src Putter) Putter {
	return &struct {
		PutFunc
		DeleteFunc
	}{
		func(key, val []byte) error {
			_, err := prefixed(b, key, func(k []byte) (struct{}, error) {
				return struct{}{}, src.Put(k, val)
			})
			return err
		},
		func(key []byte) error {
			_, err := prefixed(b, key, func(k []byte) (struct{}, error) {
				return struct{}{}, src.Delete(k)
			})
			return err
		},
	}
}

// NewBatch stages writes to src under the bucket.
func (b Bucket) NewBatch(src Batch) Batch {
	return &struct {
		Putter
		LenFunc
		WriteFunc
	}{
		b.NewPutter(src),
		src.Len,
		src.Write,
	}
}

// NewStore scopes every operation of src to the bucket. Iterated keys come
// back without the prefix.
func (b Bucket) NewStore(src Store) Store {
	return &struct {
		Getter
		Putter
		NewBatchFunc
		IterateFunc
	}{
		b.NewGetter(src),
		b.NewPutter(src),
		func() Batch {
			return b.NewBatch(src.NewBatch())
		},
		func(r Range) Iterator {
			iter := src.Iterate(b.span(r))
			return &struct {
				NextFunc
				ReleaseFunc
				ErrorFunc
				KeyFunc
				ValueFunc
			}{
				iter.Next,
				iter.Release,
				iter.Error,
				func() []byte { return iter.Key()[len(b):] },
				iter.Value,
			}
		},
	}
}
