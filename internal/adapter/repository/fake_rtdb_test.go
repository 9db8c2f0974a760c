package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var wire = jsoniter.ConfigCompatibleWithStandardLibrary

// fakeRTDB serves the part of the Realtime Database REST protocol the Admin
// SDK uses: reads, PUT with If-Match ETags, push, patch, delete and
// orderBy/equalTo queries. Queries on a child without an index get the same
// 400 "Index not defined" the service returns.
type fakeRTDB struct {
	mu       sync.Mutex
	root     map[string]interface{}
	indexed  map[string]bool
	pushSeq  int
	rejected int
	before   func(r *http.Request)
}

func newFakeRTDB(t *testing.T) (*fakeRTDB, *db.Client) {
	t.Helper()
	f := &fakeRTDB{root: map[string]interface{}{}, indexed: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	port := srv.Listener.Addr().(*net.TCPAddr).Port
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   "servicemarket-test",
		DatabaseURL: fmt.Sprintf("localhost:%d?ns=servicemarket-test", port),
	})
	require.NoError(t, err)
	client, err := app.Database(ctx)
	require.NoError(t, err)
	return f, client
}

// index declares ".indexOn" for child under collection.
func (f *fakeRTDB) index(collection, child string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[collection+"/"+child] = true
}

// onRequest installs a hook that runs ahead of every request, outside the lock.
func (f *fakeRTDB) onRequest(hook func(r *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before = hook
}

func (f *fakeRTDB) value(path string) interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(segments(path))
}

func (f *fakeRTDB) rejectedQueries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejected
}

func (f *fakeRTDB) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	hook := f.before
	f.mu.Unlock()
	if hook != nil {
		hook(r)
	}

	segs := segments(strings.TrimSuffix(r.URL.Path, ".json"))
	var body interface{}
	raw, err := io.ReadAll(r.Body)
	if err == nil && len(raw) > 0 {
		if err := wire.Unmarshal(raw, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid data; couldn't parse JSON object"})
			return
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("orderBy") != "" {
			f.query(w, segs, r.URL.Query())
			return
		}
		current := f.read(segs)
		if r.Header.Get("X-Firebase-ETag") == "true" {
			w.Header().Set("ETag", etagOf(current))
		}
		writeJSON(w, http.StatusOK, current)

	case http.MethodPut:
		current := f.read(segs)
		if match := r.Header.Get("If-Match"); match != "" && match != etagOf(current) {
			w.Header().Set("ETag", etagOf(current))
			writeJSON(w, http.StatusPreconditionFailed, current)
			return
		}
		f.write(segs, body)
		reply(w, r, body)

	case http.MethodPost:
		f.pushSeq++
		key := fmt.Sprintf("-Nfake%06d", f.pushSeq)
		f.write(append(append([]string{}, segs...), key), body)
		writeJSON(w, http.StatusOK, map[string]string{"name": key})

	case http.MethodPatch:
		fields, _ := body.(map[string]interface{})
		for k, v := range fields {
			f.write(append(append([]string{}, segs...), segments(k)...), v)
		}
		reply(w, r, fields)

	case http.MethodDelete:
		f.write(segs, nil)
		writeJSON(w, http.StatusOK, nil)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeRTDB) query(w http.ResponseWriter, segs []string, q url.Values) {
	var child string
	_ = wire.Unmarshal([]byte(q.Get("orderBy")), &child)
	collection := strings.Join(segs, "/")
	if !f.indexed[collection+"/"+child] {
		f.rejected++
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf(`Index not defined, add ".indexOn": "%s", for path "/%s", to the rules`, child, collection),
		})
		return
	}

	var want interface{}
	_ = wire.Unmarshal([]byte(q.Get("equalTo")), &want)
	out := map[string]interface{}{}
	if nodes, ok := f.read(segs).(map[string]interface{}); ok {
		for key, node := range nodes {
			if doc, ok := node.(map[string]interface{}); ok && doc[child] == want {
				out[key] = node
			}
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fakeRTDB) read(segs []string) interface{} {
	var node interface{} = f.root
	for _, s := range segs {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		if node, ok = m[s]; !ok {
			return nil
		}
	}
	if m, ok := node.(map[string]interface{}); ok && len(m) == 0 {
		return nil
	}
	return node
}

// write stores value at segs; a nil value deletes the node.
func (f *fakeRTDB) write(segs []string, value interface{}) {
	if len(segs) == 0 {
		m, _ := value.(map[string]interface{})
		if m == nil {
			m = map[string]interface{}{}
		}
		f.root = m
		return
	}
	node := f.root
	for _, s := range segs[:len(segs)-1] {
		child, ok := node[s].(map[string]interface{})
		if !ok {
			if value == nil {
				return
			}
			child = map[string]interface{}{}
			node[s] = child
		}
		node = child
	}
	last := segs[len(segs)-1]
	if value == nil {
		delete(node, last)
		return
	}
	node[last] = value
}

func segments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func etagOf(v interface{}) string {
	data, _ := wire.Marshal(v)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func reply(w http.ResponseWriter, r *http.Request, v interface{}) {
	if r.URL.Query().Get("print") == "silent" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := wire.Marshal(v)
	_, _ = w.Write(data)
}
