// Package mongotest is an in-memory implementation of the mongo interfaces for
// tests. It understands the filter subset the repositories use: equality,
// $in, $regex/$options and $or.
package mongotest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/scorecatalog/mutopia-catalog/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Database holds named in-memory collections.
type Database struct {
	mu          sync.Mutex
	collections map[string]*Collection
	client      *Client
}

func NewDatabase() *Database {
	d := &Database{collections: make(map[string]*Collection)}
	d.client = &Client{db: d}
	return d
}

func (d *Database) Collection(name string) mongo.Collection {
	return d.Coll(name)
}

// Coll returns the concrete collection so tests can seed and inspect it.
func (d *Database) Coll(name string) *Collection {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.collections[name]
	if !ok {
		c = &Collection{}
		d.collections[name] = c
	}
	return c
}

func (d *Database) Client() mongo.Client {
	return d.client
}

// FakeClient exposes the client for ping and disconnect assertions.
func (d *Database) FakeClient() *Client {
	return d.client
}

type Client struct {
	mu           sync.Mutex
	db           *Database
	PingErr      error
	Pings        int
	Disconnected bool
}

func (c *Client) Database(string) mongo.Database { return c.db }

func (c *Client) Connect(context.Context) error { return nil }

func (c *Client) Disconnect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Disconnected = true
	return nil
}

func (c *Client) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Pings++
	return c.PingErr
}

// Collection stores documents in insertion order.
type Collection struct {
	mu      sync.Mutex
	docs    []bson.M
	indexes []*driver.IndexSpecification
	// Err, when set, is returned by every operation.
	Err error
	// FindCalls counts FindOne and Find invocations.
	FindCalls int
	// IterateErr, when set, makes Find cursors stop after IterateErrAfter
	// documents and report IterateErr from Err, like a failed getMore.
	IterateErr      error
	IterateErrAfter int
}

// Seed stores raw documents without any validation; documents without an
// _id get a fresh ObjectID.
func (c *Collection) Seed(docs ...interface{}) {
	for _, doc := range docs {
		if _, err := c.InsertOne(context.Background(), doc); err != nil {
			panic(fmt.Sprintf("mongotest: seed: %v", err))
		}
	}
}

// Docs returns a snapshot of the stored documents.
func (c *Collection) Docs() []bson.M {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bson.M, len(c.docs))
	copy(out, c.docs)
	return out
}

func (c *Collection) InsertOne(_ context.Context, document interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	doc, err := normalize(document)
	if err != nil {
		return nil, err
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	c.docs = append(c.docs, doc)
	return doc["_id"], nil
}

func (c *Collection) FindOne(_ context.Context, filter interface{}) mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FindCalls++
	if c.Err != nil {
		return &singleResult{err: c.Err}
	}
	f, err := asFilter(filter)
	if err != nil {
		return &singleResult{err: err}
	}
	for _, doc := range c.docs {
		if matches(doc, f) {
			return &singleResult{doc: doc}
		}
	}
	return &singleResult{err: driver.ErrNoDocuments}
}

func (c *Collection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (mongo.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.FindCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	matched, err := c.matching(filter)
	if err != nil {
		return nil, err
	}
	cur := &cursor{docs: matched, idx: -1}
	if c.IterateErr != nil && c.IterateErrAfter < len(matched) {
		cur.docs = matched[:c.IterateErrAfter]
		cur.failure = c.IterateErr
	}
	return cur, nil
}

func (c *Collection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	matched, err := c.matching(filter)
	return int64(len(matched)), err
}

func (c *Collection) Distinct(_ context.Context, fieldName string, filter interface{}) ([]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	matched, err := c.matching(filter)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	add := func(v interface{}) {
		for _, existing := range out {
			if reflect.DeepEqual(existing, v) {
				return
			}
		}
		out = append(out, v)
	}
	for _, doc := range matched {
		v, ok := doc[fieldName]
		if !ok {
			continue
		}
		if arr, isArr := v.(primitive.A); isArr {
			for _, item := range arr {
				add(item)
			}
			continue
		}
		add(v)
	}
	return out, nil
}

func (c *Collection) UpdateOne(_ context.Context, filter interface{}, update interface{}, _ ...*options.UpdateOptions) (*driver.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	f, err := asFilter(filter)
	if err != nil {
		return nil, err
	}
	u, err := asFilter(update)
	if err != nil {
		return nil, err
	}
	set, ok := asMap(u["$set"])
	if !ok {
		return nil, errors.New("mongotest: only $set updates are supported")
	}
	for _, doc := range c.docs {
		if !matches(doc, f) {
			continue
		}
		for k, v := range set {
			nv, err := normalizeValue(v)
			if err != nil {
				return nil, err
			}
			doc[k] = nv
		}
		return &driver.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &driver.UpdateResult{}, nil
}

func (c *Collection) DeleteMany(_ context.Context, filter interface{}) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	f, err := asFilter(filter)
	if err != nil {
		return 0, err
	}
	kept := c.docs[:0]
	var deleted int64
	for _, doc := range c.docs {
		if matches(doc, f) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return deleted, nil
}

func (c *Collection) Indexes() mongo.IndexView {
	return &indexView{coll: c}
}

// IndexNames lists the names of created indexes.
func (c *Collection) IndexNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.indexes))
	for _, spec := range c.indexes {
		names = append(names, spec.Name)
	}
	return names
}

func (c *Collection) matching(filter interface{}) ([]bson.M, error) {
	f, err := asFilter(filter)
	if err != nil {
		return nil, err
	}
	var out []bson.M
	for _, doc := range c.docs {
		if matches(doc, f) {
			out = append(out, doc)
		}
	}
	return out, nil
}

type indexView struct{ coll *Collection }

func (iv *indexView) CreateOne(_ context.Context, model driver.IndexModel) (string, error) {
	iv.coll.mu.Lock()
	defer iv.coll.mu.Unlock()
	if iv.coll.Err != nil {
		return "", iv.coll.Err
	}
	name := ""
	if model.Options != nil && model.Options.Name != nil {
		name = *model.Options.Name
	}
	iv.coll.indexes = append(iv.coll.indexes, &driver.IndexSpecification{Name: name})
	return name, nil
}

func (iv *indexView) ListSpecifications(context.Context) ([]*driver.IndexSpecification, error) {
	iv.coll.mu.Lock()
	defer iv.coll.mu.Unlock()
	if iv.coll.Err != nil {
		return nil, iv.coll.Err
	}
	out := make([]*driver.IndexSpecification, len(iv.coll.indexes))
	copy(out, iv.coll.indexes)
	return out, nil
}

type singleResult struct {
	doc bson.M
	err error
}

func (s *singleResult) Decode(v interface{}) error {
	if s.err != nil {
		return s.err
	}
	return decodeInto(s.doc, v)
}

type cursor struct {
	docs    []bson.M
	idx     int
	failure error
	err     error
}

func (c *cursor) Close(context.Context) error { return nil }

func (c *cursor) Next(context.Context) bool {
	c.idx++
	if c.idx < len(c.docs) {
		return true
	}
	c.err = c.failure
	return false
}

func (c *cursor) Err() error { return c.err }

func (c *cursor) Decode(v interface{}) error {
	if c.idx < 0 || c.idx >= len(c.docs) {
		return errors.New("mongotest: cursor not positioned")
	}
	return decodeInto(c.docs[c.idx], v)
}

func (c *cursor) All(_ context.Context, result interface{}) error {
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("mongotest: All needs a pointer to a slice")
	}
	slice := rv.Elem()
	for _, doc := range c.docs {
		elem := reflect.New(slice.Type().Elem())
		if err := decodeInto(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	if c.failure != nil {
		return c.failure
	}
	rv.Elem().Set(slice)
	return nil
}

func decodeInto(doc bson.M, v interface{}) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, v)
}

func normalize(document interface{}) (bson.M, error) {
	data, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	doc, err := normalize(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}

func asFilter(filter interface{}) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}
	if m, ok := asMap(filter); ok {
		return m, nil
	}
	return nil, fmt.Errorf("mongotest: unsupported filter type %T", filter)
}

func asMap(v interface{}) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]interface{}:
		return bson.M(t), true
	case bson.D:
		return t.Map(), true
	default:
		return nil, false
	}
}

func matches(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		if key == "$or" {
			if !matchesAny(doc, cond) {
				return false
			}
			continue
		}
		value, present := doc[key]
		if ops, ok := asMap(cond); ok && isOperatorDoc(ops) {
			if !matchOperators(value, present, ops) {
				return false
			}
			continue
		}
		if !present || !reflect.DeepEqual(value, cond) {
			return false
		}
	}
	return true
}

func matchesAny(doc bson.M, clauses interface{}) bool {
	for _, clause := range toSlice(clauses) {
		if f, ok := asMap(clause); ok && matches(doc, f) {
			return true
		}
	}
	return false
}

func isOperatorDoc(m bson.M) bool {
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return len(m) > 0
}

func matchOperators(value interface{}, present bool, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$in":
			if !present {
				return false
			}
			found := false
			for _, candidate := range toSlice(arg) {
				if reflect.DeepEqual(value, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$regex":
			s, ok := value.(string)
			if !present || !ok {
				return false
			}
			pattern, _ := arg.(string)
			if opts, _ := ops["$options"].(string); strings.Contains(opts, "i") {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil || !re.MatchString(s) {
				return false
			}
		case "$options":
		default:
			return false
		}
	}
	return true
}

func toSlice(v interface{}) []interface{} {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
