package repository

import (
	"context"
	"encoding/json"

	"firebase.google.com/go/v4/db"

	"servicemarket/internal/infrastructure/realtime"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
)

const (
	usersPath        = "users"
	providersPath    = "service_providers"
	bookingsPath     = "bookings"
	reviewsPath      = "reviews"
	reviewClaimsPath = "review_claims"
	categoriesPath   = "service_categories"
)

func childPath(collection, id string) string {
	return collection + "/" + id
}

// getDocument reads a single node and returns nil when it holds no data.
func getDocument[T any, P realtime.Record[T]](ctx context.Context, client *db.Client, collection, id string) (P, error) {
	var raw json.RawMessage
	if err := client.NewRef(childPath(collection, id)).Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to read "+collection, err)
	}
	record, err := realtime.ConvertSnapshot[T, P](realtime.RawNode(id, raw), true)
	if err != nil {
		return nil, errors.Internal("Failed to parse "+collection+" data", err)
	}
	return record, nil
}

// scanCollection reads every child of a collection.
func scanCollection[T any, P realtime.Record[T]](ctx context.Context, client *db.Client, collection string) ([]P, error) {
	var raw json.RawMessage
	if err := client.NewRef(collection).Get(ctx, &raw); err != nil {
		return nil, errors.Internal("Failed to read "+collection, err)
	}
	nodes, err := realtime.Children(raw)
	if err != nil {
		return nil, errors.Internal("Failed to parse "+collection+" data", err)
	}
	records, err := realtime.ConvertSnapshotArray[T, P](nodes)
	if err != nil {
		return nil, errors.Internal("Failed to parse "+collection+" data", err)
	}
	return records, nil
}

// queryEqual runs an indexed equality query and falls back to a filtered full
// scan when the query is rejected, which is what happens when the database
// rules lack an ".indexOn" entry for child.
func queryEqual[T any, P realtime.Record[T]](ctx context.Context, client *db.Client, collection, child, value string, keep func(P) bool) ([]P, error) {
	results, err := client.NewRef(collection).OrderByChild(child).EqualTo(value).GetOrdered(ctx)
	if err == nil {
		nodes := make([]realtime.Node, 0, len(results))
		for _, r := range results {
			nodes = append(nodes, r)
		}
		records, err := realtime.ConvertSnapshotArray[T, P](nodes)
		if err != nil {
			return nil, errors.Internal("Failed to parse "+collection+" data", err)
		}
		return records, nil
	}

	logger.Warn("query %s by %s failed, falling back to full scan: %v", collection, child, err)
	all, err := scanCollection[T, P](ctx, client, collection)
	if err != nil {
		return nil, err
	}
	filtered := make([]P, 0, len(all))
	for _, record := range all {
		if keep(record) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// transactDocument runs fn inside a node transaction. fn receives the current
// record (nil when absent) and returns the value to store. An error returned
// by fn aborts the transaction and is returned as is.
func transactDocument[T any, P realtime.Record[T]](ctx context.Context, client *db.Client, collection, id string, fn func(current P) (P, error)) (P, error) {
	var (
		result   P
		abortErr error
	)
	err := client.NewRef(childPath(collection, id)).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var raw json.RawMessage
		if err := node.Unmarshal(&raw); err != nil {
			return nil, err
		}
		current, err := realtime.ConvertSnapshot[T, P](realtime.RawNode(id, raw), true)
		if err != nil {
			abortErr = errors.Internal("Failed to parse "+collection+" data", err)
			return nil, abortErr
		}
		next, err := fn(current)
		if err != nil {
			abortErr = err
			return nil, err
		}
		result = next
		return next, nil
	})
	if abortErr != nil {
		return nil, abortErr
	}
	if err != nil {
		return nil, errors.Internal("Failed to update "+collection, err)
	}
	return result, nil
}
