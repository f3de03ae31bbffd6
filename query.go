package custody

import (
	"fmt"
	"sort"
)

// Query modes, selected by the path suffix "?<mode>". A key query returns at
// most one model. A prefix query returns every model whose key starts with
// the query data.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a key and its value as returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries on a single path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query paths of one extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to handlers, in the manner of
// net/http.ServeMux but with exact matches only.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register with this router.
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register routes path to h. It panics if the path is taken, as that is a
// wiring mistake.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths returns the registered paths in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
