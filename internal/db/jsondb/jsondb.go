// Package jsondb is a file-backed key-value store: the whole cache is kept in
// memory and rewritten to a JSON file after every change and on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// JSONDB keeps string values by key. The zero fileName disables persistence.
type JSONDB struct {
	mu       sync.RWMutex
	fileName string
	Cache    CacheStruct
}

// CacheStruct is the on-disk document.
type CacheStruct struct {
	Values map[string]string
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Values": {}
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cache)
	if err != nil {
		return err
	}

	return nil
}

// New opens fileName, creating it when it does not exist yet.
func New(fileName string) (*JSONDB, error) {
	db := &JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): error while `parseJSONFile()` calling: %w", err)
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): error while `initDBFile()` calling: %w", err)
		}
		err = parseJSONFile(db.fileName, &db.Cache)
		if err != nil {
			return nil, fmt.Errorf("in internal/db/jsondb/jsondb.go/New(): error while `parseJSONFile()` calling: %w", err)
		}
	}

	if db.Cache.Values == nil {
		db.Cache.Values = map[string]string{}
	}

	return db, nil
}

// Get returns the value stored under key.
func (db *JSONDB) Get(ctx context.Context, key string) (value string, found bool, err error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	value, found = db.Cache.Values[key]

	return value, found, nil
}

// Set stores value under key and flushes the file.
func (db *JSONDB) Set(ctx context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.Values[key] = value

	return db.flush()
}

// Delete removes key and flushes the file. Deleting a missing key is not an error.
func (db *JSONDB) Delete(ctx context.Context, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.Cache.Values, key)

	return db.flush()
}

// Ping always succeeds.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close writes the cache to disk.
func (db *JSONDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.flush()
}

func (db *JSONDB) flush() error {
	if db.fileName == "" {
		return nil
	}

	err := writeToJSONFile(db.fileName, db.Cache)
	if err != nil {
		return fmt.Errorf("in internal/db/jsondb/jsondb.go/flush(): error while `writeToJSONFile()` calling: %w", err)
	}

	return nil
}
