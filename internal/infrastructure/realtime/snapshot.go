// Package realtime converts Firebase Realtime Database snapshots into typed records.
package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Node is a keyed snapshot. Firebase db.QueryNode satisfies it.
type Node interface {
	Key() string
	Unmarshal(v interface{}) error
}

// Record is implemented by every entity stored under a generated key.
type Record[T any] interface {
	*T
	SetID(id string)
}

type validator interface {
	Validate() error
}

type rawNode struct {
	key  string
	data []byte
}

// RawNode wraps already-fetched JSON as a Node.
func RawNode(key string, data []byte) Node {
	return rawNode{key: key, data: data}
}

func (n rawNode) Key() string { return n.key }

func (n rawNode) Unmarshal(v interface{}) error {
	if len(n.data) == 0 {
		return codec.Unmarshal([]byte("null"), v)
	}
	return codec.Unmarshal(n.data, v)
}

func isEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ConvertSnapshot returns nil when the node holds no data. Otherwise it decodes
// the value into a T, validates it and, when includeID is set, injects the
// node key as the record id.
func ConvertSnapshot[T any, P Record[T]](node Node, includeID bool) (P, error) {
	if node == nil {
		return nil, nil
	}

	var raw json.RawMessage
	if err := node.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", node.Key(), err)
	}
	if isEmpty(raw) {
		return nil, nil
	}

	record := P(new(T))
	if err := codec.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", node.Key(), err)
	}
	if includeID {
		record.SetID(node.Key())
	}
	if v, ok := any(record).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid snapshot %q: %w", node.Key(), err)
		}
	}
	return record, nil
}

// ConvertSnapshotArray converts every child node, each with its key as id.
// The result is never nil; children holding no data are skipped.
func ConvertSnapshotArray[T any, P Record[T]](nodes []Node) ([]P, error) {
	records := make([]P, 0, len(nodes))
	for _, node := range nodes {
		record, err := ConvertSnapshot[T, P](node, true)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, record)
		}
	}
	return records, nil
}

// Children splits a collection value into one node per child, ordered by key.
// A null or empty collection yields no children.
func Children(raw []byte) ([]Node, error) {
	if isEmpty(raw) {
		return []Node{}, nil
	}

	var children map[string]json.RawMessage
	if err := codec.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nodes := make([]Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, RawNode(k, children[k]))
	}
	return nodes, nil
}
