package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/joseph-ayodele/receipt-extractor/internal/common"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

var artifactBucket = []byte("extractions")

// ArtifactCache keeps the raw extraction that produced each receipt, so
// a record can be re-parsed later without re-running OCR.
type ArtifactCache struct {
	db *bolt.DB
}

func OpenArtifactCache(path string) (*ArtifactCache, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening artifact cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(artifactBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating artifact bucket: %w", err)
	}
	return &ArtifactCache{db: db}, nil
}

func (c *ArtifactCache) Put(id uuid.UUID, raw entity.RawExtraction) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding extraction: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(artifactBucket).Put([]byte(id.String()), payload)
	})
	if err != nil {
		return fmt.Errorf("store extraction: %w", err)
	}
	return nil
}

func (c *ArtifactCache) Get(id uuid.UUID) (entity.RawExtraction, error) {
	var raw entity.RawExtraction
	err := c.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(artifactBucket).Get([]byte(id.String()))
		if payload == nil {
			return fmt.Errorf("extraction %s: %w", id, common.ErrNotFound)
		}
		return json.Unmarshal(payload, &raw)
	})
	if err != nil {
		return entity.RawExtraction{}, err
	}
	return raw, nil
}

func (c *ArtifactCache) Close() error {
	return c.db.Close()
}
