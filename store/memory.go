package store

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Memory implements DocumentStore on process memory. Documents are
// round-tripped through bson so decode behavior matches the Mongo
// implementation.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.M
}

func NewMemory() *Memory {
	return &Memory{collections: map[string]map[string]bson.M{}}
}

func toDocument(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// toValue normalizes a value the way bson storage would, so that
// equality checks against stored elements behave like Mongo's.
func toValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	m, err := toDocument(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return m["v"], nil
}

func (s *Memory) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.RLock()
	doc, ok := s.collections[collection][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func (s *Memory) Insert(ctx context.Context, collection string, doc interface{}) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	id, ok := m["_id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("memory store: document missing _id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = map[string]bson.M{}
	}
	if _, exists := s.collections[collection][id]; exists {
		return fmt.Errorf("memory store: duplicate id %q in %q", id, collection)
	}
	s.collections[collection][id] = m
	return nil
}

func (s *Memory) Replace(ctx context.Context, collection, id string, doc interface{}) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	m["_id"] = id
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = map[string]bson.M{}
	}
	s.collections[collection][id] = m
	return nil
}

func (s *Memory) Update(ctx context.Context, collection, id string, updates ...FieldUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for _, u := range updates {
		if err := applyUpdate(doc, u); err != nil {
			return err
		}
	}
	return nil
}

func applyUpdate(doc bson.M, u FieldUpdate) error {
	parent, key, err := resolvePath(doc, u.Path, u.Op != OpUnset)
	if err != nil {
		return err
	}
	if parent == nil {
		return nil // unset of a missing intermediate path
	}

	value, err := toValue(u.Value)
	if err != nil {
		return err
	}

	switch u.Op {
	case OpSet:
		parent[key] = value
	case OpUnset:
		delete(parent, key)
	case OpInc:
		delta, ok := asInt64(value)
		if !ok {
			return fmt.Errorf("memory store: non-numeric increment for %q", u.Path)
		}
		current, _ := asInt64(parent[key])
		parent[key] = current + delta
	case OpAddToSet:
		arr := asArray(parent[key])
		for _, elem := range arr {
			if reflect.DeepEqual(elem, value) {
				return nil
			}
		}
		parent[key] = append(arr, value)
	case OpPull:
		arr := asArray(parent[key])
		kept := make(bson.A, 0, len(arr))
		for _, elem := range arr {
			if !reflect.DeepEqual(elem, value) {
				kept = append(kept, elem)
			}
		}
		parent[key] = kept
	case OpPush:
		parent[key] = append(asArray(parent[key]), value)
	default:
		return fmt.Errorf("memory store: unknown op %q", u.Op)
	}
	return nil
}

// resolvePath walks a dotted path to the map holding the final
// segment, creating intermediate documents when create is set. A
// stored null counts as absent: map fields that were never written
// round-trip as null, and a field-path write through them must still
// land.
func resolvePath(doc bson.M, path string, create bool) (bson.M, string, error) {
	segments := strings.Split(path, ".")
	current := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg]
		if !ok || next == nil {
			if !create {
				return nil, "", nil
			}
			child := bson.M{}
			current[seg] = child
			current = child
			continue
		}
		child, ok := next.(bson.M)
		if !ok {
			return nil, "", fmt.Errorf("memory store: path %q crosses a non-document field", path)
		}
		current = child
	}
	return current, segments[len(segments)-1], nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

func asArray(v interface{}) bson.A {
	switch a := v.(type) {
	case bson.A:
		return a
	case []interface{}:
		return bson.A(a)
	case nil:
		return bson.A{}
	default:
		return bson.A{}
	}
}

func (s *Memory) Query(ctx context.Context, collection, field string, value interface{}, out interface{}) error {
	want, err := toValue(value)
	if err != nil {
		return err
	}
	return s.filter(collection, out, func(doc bson.M) bool {
		return reflect.DeepEqual(doc[field], want)
	})
}

func (s *Memory) QueryIn(ctx context.Context, collection, field string, values []string, out interface{}) error {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return s.filter(collection, out, func(doc bson.M) bool {
		str, ok := doc[field].(string)
		return ok && set[str]
	})
}

func (s *Memory) Find(ctx context.Context, collection string, filter Filter, out interface{}) error {
	equals := make(map[string]interface{}, len(filter.Equals))
	for field, value := range filter.Equals {
		want, err := toValue(value)
		if err != nil {
			return err
		}
		equals[field] = want
	}
	patterns := make(map[string]*regexp.Regexp, len(filter.Regex))
	for field, pattern := range filter.Regex {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return err
		}
		patterns[field] = re
	}

	return s.filter(collection, out, func(doc bson.M) bool {
		for field, want := range equals {
			if !fieldMatches(doc[field], want) {
				return false
			}
		}
		for field, re := range patterns {
			str, ok := doc[field].(string)
			if !ok || !re.MatchString(str) {
				return false
			}
		}
		return true
	})
}

// fieldMatches applies Mongo's equality semantics: an array field
// matches when any element equals the value.
func fieldMatches(stored, want interface{}) bool {
	if arr, ok := stored.(bson.A); ok {
		for _, elem := range arr {
			if reflect.DeepEqual(elem, want) {
				return true
			}
		}
		return false
	}
	return reflect.DeepEqual(stored, want)
}

func (s *Memory) List(ctx context.Context, collection string, out interface{}) error {
	return s.filter(collection, out, func(bson.M) bool { return true })
}

func (s *Memory) filter(collection string, out interface{}, match func(bson.M) bool) error {
	s.mu.RLock()
	var matched []bson.M
	for _, doc := range s.collections[collection] {
		if match(doc) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	slicePtr := reflect.ValueOf(out)
	if slicePtr.Kind() != reflect.Ptr || slicePtr.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("memory store: out must be a pointer to a slice")
	}
	slice := slicePtr.Elem()
	slice.SetLen(0)
	elemType := slice.Type().Elem()
	for _, doc := range matched {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	slicePtr.Elem().Set(slice)
	return nil
}
