// Copyright (c) 2025, Zenith UI Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"bytes"
	"encoding/gob"
	"fmt"

	bolt "go.etcd.io/bbolt"
	"zenithui.org/zenith/base/geom"
	"zenithui.org/zenith/ipc"
)

// WindowGeometry is the persisted placement of one named window.
type WindowGeometry struct {
	Position geom.Vector2
	Size     geom.Vector2
	State    ipc.WindowState
}

var geometryBucket = []byte("window-geometry")

// GeometryStore persists window placement across runs, keyed by the
// window's persistence name.
type GeometryStore struct {
	db *bolt.DB
}

// OpenGeometryStore opens (creating if needed) the store at path.
func OpenGeometryStore(path string) (*GeometryStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("core: open geometry store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(geometryBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("core: init geometry store: %w", err)
	}
	return &GeometryStore{db: db}, nil
}

// Save stores the geometry under name.
func (s *GeometryStore) Save(name string, g WindowGeometry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(geometryBucket).Put([]byte(name), buf.Bytes())
	})
}

// Load returns the geometry saved under name, if any.
func (s *GeometryStore) Load(name string) (WindowGeometry, bool) {
	var g WindowGeometry
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(geometryBucket).Get([]byte(name))
		if data == nil {
			return nil
		}
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
			return err
		}
		found = true
		return nil
	})
	return g, found
}

// Delete removes the geometry saved under name.
func (s *GeometryStore) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(geometryBucket).Delete([]byte(name))
	})
}

// Close closes the store.
func (s *GeometryStore) Close() error { return s.db.Close() }
