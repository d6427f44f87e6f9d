// store/memory.go
package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory implements Store entirely in process. It backs the test suite and
// the STORE_DRIVER=memory mode for running without a mongod. Documents are
// normalized through the bson codec so field names and value types behave
// the same as they do against MongoDB.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]bson.M
	subs map[string]map[chan struct{}]bool
}

func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]map[string]bson.M),
		subs: make(map[string]map[chan struct{}]bool),
	}
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return d, nil
}

// normalizeValue runs a single value through the bson codec so that e.g.
// time.Time compares equal to a stored primitive.DateTime.
func normalizeValue(v interface{}) interface{} {
	d, err := toDoc(bson.M{"v": v})
	if err != nil {
		return v
	}
	return d["v"]
}

func (m *Memory) Insert(ctx context.Context, collection string, doc interface{}) (string, error) {
	d, err := toDoc(doc)
	if err != nil {
		return "", err
	}

	id, _ := d["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		d["_id"] = id
	}

	m.mu.Lock()
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]bson.M)
	}
	m.data[collection][id] = d
	m.mu.Unlock()

	m.notify(collection)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	patch, err := toDoc(bson.M(partial))
	if err != nil {
		return err
	}

	m.mu.Lock()
	doc, ok := m.data[collection][id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	if _, ok := m.data[collection][id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.data[collection], id)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *Memory) Get(ctx context.Context, collection, id string, out interface{}) error {
	m.mu.RLock()
	doc, ok := m.data[collection][id]
	if !ok {
		m.mu.RUnlock()
		return ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	m.mu.RUnlock()
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (m *Memory) Find(ctx context.Context, collection string, q Query, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []bson.M
	for _, doc := range m.data[collection] {
		if matchesFilters(doc, q.Filters) {
			matched = append(matched, doc)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			if q.Desc {
				i, j = j, i
			}
			return lessValue(matched[i][q.OrderBy], matched[j][q.OrderBy])
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return decodeAll(matched, out)
}

func matchesFilters(doc bson.M, filters []Filter) bool {
	for _, f := range filters {
		want := normalizeValue(f.Value)
		got := doc[f.Field]
		switch f.Op {
		case OpEq:
			if !reflect.DeepEqual(got, want) {
				return false
			}
		case OpGt:
			if !lessValue(want, got) {
				return false
			}
		case OpLt:
			if !lessValue(got, want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// lessValue orders the scalar types the store actually holds: numbers,
// timestamps, strings, bools. nil sorts first.
func lessValue(a, b interface{}) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		return bok && af < bf
	}
	if as, ok := a.(string); ok {
		bs, bok := b.(string)
		return bok && as < bs
	}
	if ab, ok := a.(bool); ok {
		bb, bok := b.(bool)
		return bok && !ab && bb
	}
	return false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	}
	return 0, false
}

func decodeAll(docs []bson.M, out interface{}) error {
	outv := reflect.ValueOf(out)
	if outv.Kind() != reflect.Ptr || outv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("out must be a pointer to a slice")
	}
	slice := reflect.MakeSlice(outv.Elem().Type(), 0, len(docs))
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		elem := reflect.New(outv.Elem().Type().Elem())
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	outv.Elem().Set(slice)
	return nil
}

type memoryBatch struct {
	m   *Memory
	ops []mongoOp
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{m: m}
}

func (b *memoryBatch) Update(collection, id string, partial map[string]interface{}) {
	b.ops = append(b.ops, mongoOp{collection: collection, id: id, partial: partial})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, mongoOp{collection: collection, id: id})
}

// Commit applies all queued operations under one lock. Every target must
// exist, otherwise nothing is applied.
func (b *memoryBatch) Commit(ctx context.Context) error {
	patches := make([]bson.M, len(b.ops))
	for i, op := range b.ops {
		if op.partial == nil {
			continue
		}
		patch, err := toDoc(bson.M(op.partial))
		if err != nil {
			return err
		}
		patches[i] = patch
	}

	b.m.mu.Lock()
	for _, op := range b.ops {
		if _, ok := b.m.data[op.collection][op.id]; !ok {
			b.m.mu.Unlock()
			return ErrNotFound
		}
	}
	touched := make(map[string]bool)
	for i, op := range b.ops {
		if op.partial == nil {
			delete(b.m.data[op.collection], op.id)
		} else {
			doc := b.m.data[op.collection][op.id]
			for k, v := range patches[i] {
				doc[k] = v
			}
		}
		touched[op.collection] = true
	}
	b.m.mu.Unlock()

	for collection := range touched {
		b.m.notify(collection)
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	if m.subs[collection] == nil {
		m.subs[collection] = make(map[chan struct{}]bool)
	}
	m.subs[collection][ch] = true
	m.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[collection], ch)
			m.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		release()
	}()

	return ch, release, nil
}

func (m *Memory) notify(collection string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
