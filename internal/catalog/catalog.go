package catalog

import (
	"bytes"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ZaninAndrea/tsfile/internal/chunk"
	"github.com/ZaninAndrea/tsfile/internal/format"
)

// Catalog is a persistent registry of measurement schemas, so that sessions
// writing chunks for the same series across restarts agree on the type and
// encodings. Keys are "schema:<series id>", values the serialised schema.
type Catalog struct {
	badger *badger.DB
	logger log.Logger
}

var ErrSchemaNotFound = fmt.Errorf("schema not found")
var ErrSchemaConflict = fmt.Errorf("schema already registered with a different type or encoding")

const keyPrefix = "schema:"

func Open(path string, logger log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	opts := badger.DefaultOptions(path).WithLogger(nil)
	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	level.Debug(logger).Log("msg", "schema catalog opened", "path", path)
	return &Catalog{badger: badgerDB, logger: logger}, nil
}

func (c *Catalog) Close() error {
	return c.badger.Close()
}

// Register stores the schema. Re-registering an identical schema is a no-op;
// registering a different schema under an existing id fails.
func (c *Catalog) Register(schema *chunk.MeasurementSchema) error {
	return c.badger.Update(func(txn *badger.Txn) error {
		key := []byte(keyPrefix + schema.ID)

		item, err := txn.Get(key)
		if err == nil {
			var existing *chunk.MeasurementSchema
			if err := item.Value(func(val []byte) error {
				parsed, parseErr := unmarshalSchema(schema.ID, val)
				existing = parsed
				return parseErr
			}); err != nil {
				return err
			}
			if *existing != *schema {
				return fmt.Errorf("%w: %s", ErrSchemaConflict, schema.ID)
			}
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		return txn.Set(key, marshalSchema(schema))
	})
}

// Get returns the schema registered under the series id.
func (c *Catalog) Get(seriesID string) (*chunk.MeasurementSchema, error) {
	var schema *chunk.MeasurementSchema
	err := c.badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + seriesID))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrSchemaNotFound, seriesID)
		} else if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			parsed, parseErr := unmarshalSchema(seriesID, val)
			schema = parsed
			return parseErr
		})
	})
	if err != nil {
		return nil, err
	}

	return schema, nil
}

// List returns all registered schemas by prefix iteration.
func (c *Catalog) List() ([]*chunk.MeasurementSchema, error) {
	var schemas []*chunk.MeasurementSchema
	err := c.badger.View(func(txn *badger.Txn) error {
		prefix := []byte(keyPrefix)
		iter := txn.NewIterator(badger.IteratorOptions{
			Prefix: prefix,
		})
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			item := iter.Item()
			seriesID := string(item.Key()[len(prefix):])

			err := item.Value(func(val []byte) error {
				schema, err := unmarshalSchema(seriesID, val)
				if err != nil {
					return err
				}
				schemas = append(schemas, schema)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return schemas, nil
}

func marshalSchema(schema *chunk.MeasurementSchema) []byte {
	var buf bytes.Buffer
	sw := format.NewStructuredWriter(&buf)

	sw.WriteUint8(uint8(schema.Type))
	sw.WriteUint8(uint8(schema.TimeEncoding))
	sw.WriteUint8(uint8(schema.ValueEncoding))

	return buf.Bytes()
}

func unmarshalSchema(seriesID string, val []byte) (*chunk.MeasurementSchema, error) {
	if len(val) != 3 {
		return nil, fmt.Errorf("malformed schema entry for %s", seriesID)
	}

	return chunk.NewMeasurementSchema(
		seriesID,
		format.DataType(val[0]),
		format.Encoding(val[1]),
		format.Encoding(val[2]),
	)
}
