package expense

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const ledgerBucketName = "ledger"

// BoltLedger implements the Ledger interface using BoltDB
type BoltLedger struct {
	db *bbolt.DB
}

// NewBoltLedger opens (or creates) a ledger database file
func NewBoltLedger(path string) (*BoltLedger, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(ledgerBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// AppendRows stores rows under increasing sequence keys in a single transaction
func (b *BoltLedger) AppendRows(ctx context.Context, rows []Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucketName))
		for _, row := range rows {
			seq, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("allocating row key: %w", err)
			}
			data, err := json.Marshal(row)
			if err != nil {
				return fmt.Errorf("marshaling row: %w", err)
			}
			if err := bucket.Put(sequenceKey(seq), data); err != nil {
				return fmt.Errorf("saving row: %w", err)
			}
		}
		return nil
	})
}

// ReadAll returns all rows in append order
func (b *BoltLedger) ReadAll(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := make([]Row, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var row Row
			if err := json.Unmarshal(v, &row); err != nil {
				return fmt.Errorf("unmarshaling row: %w", err)
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close closes the database connection
func (b *BoltLedger) Close() error {
	return b.db.Close()
}

// sequenceKey encodes big-endian so bolt's byte ordering matches insertion order
func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
