package repository

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is an in-process Collection used by unit tests. All
// operations hold one mutex, so it gives the same single-document
// atomicity guarantees the Mongo implementation does.
type MemoryCollection struct {
	mu   sync.Mutex
	docs []bson.M
}

func NewMemory() *MemoryCollection {
	return &MemoryCollection{}
}

func (m *MemoryCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		if matches(doc, filter) {
			return decodeDoc(doc, out)
		}
	}
	return ErrNoDocuments
}

func (m *MemoryCollection) Find(ctx context.Context, filter bson.M, skip, limit int64, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice, got %T", out)
	}
	slice := outVal.Elem()
	elemType := slice.Type().Elem()

	var seen int64
	for _, doc := range m.docs {
		if !matches(doc, filter) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && int64(slice.Len()) >= limit {
			break
		}
		elem := reflect.New(elemType)
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	outVal.Elem().Set(slice)
	return nil
}

func (m *MemoryCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := toDoc(doc)
	if err != nil {
		return nil, err
	}
	id, ok := d["_id"]
	if !ok || id == primitive.NilObjectID {
		id = primitive.NewObjectID()
		d["_id"] = id
	}
	m.docs = append(m.docs, d)
	return id, nil
}

func (m *MemoryCollection) UpdateOne(ctx context.Context, filter, update bson.M) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		if matches(doc, filter) {
			modified := applyUpdate(doc, update, false)
			if modified {
				return 1, 1, nil
			}
			return 1, 0, nil
		}
	}
	return 0, 0, nil
}

func (m *MemoryCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range m.docs {
		if matches(doc, filter) {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MemoryCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []bson.M
	var deleted int64
	for _, doc := range m.docs {
		if matches(doc, filter) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	m.docs = kept
	return deleted, nil
}

func (m *MemoryCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, doc := range m.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryCollection) FindOneAndUpsert(ctx context.Context, filter, update bson.M, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update, false)
			return decodeDoc(doc, out)
		}
	}

	// Upsert path: seed the new document from the filter's equality
	// fields, the same way Mongo builds an upserted document.
	doc := bson.M{}
	for k, v := range filter {
		if _, isOp := v.(bson.M); !isOp {
			doc[k] = v
		}
	}
	applyUpdate(doc, update, true)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	m.docs = append(m.docs, doc)
	return decodeDoc(doc, out)
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func decodeDoc(d bson.M, out interface{}) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got := doc[k]
		if ops, ok := want.(bson.M); ok {
			for op, operand := range ops {
				switch op {
				case "$ne":
					if valuesEqual(got, operand) {
						return false
					}
				default:
					return false
				}
			}
			continue
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// applyUpdate mutates doc in place and reports whether anything changed.
// setOnInsert fields only apply when inserting a fresh document.
func applyUpdate(doc, update bson.M, inserting bool) bool {
	changed := false
	if inserting {
		if soi, ok := update["$setOnInsert"].(bson.M); ok {
			for k, v := range soi {
				doc[k] = v
				changed = true
			}
		}
	}
	if set, ok := update["$set"].(bson.M); ok {
		for k, v := range set {
			if !valuesEqual(doc[k], v) {
				changed = true
			}
			doc[k] = v
		}
	}
	if inc, ok := update["$inc"].(bson.M); ok {
		for k, v := range inc {
			cur, _ := asFloat(doc[k])
			delta, _ := asFloat(v)
			doc[k] = int64(cur + delta)
			changed = true
		}
	}
	return changed
}
