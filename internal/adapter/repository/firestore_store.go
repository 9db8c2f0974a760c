package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"servicemarket/internal/infrastructure/realtime"
	"servicemarket/pkg/errors"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// decodeDoc converts a Firestore snapshot into a record keyed by the document id.
func decodeDoc[T any, P realtime.Record[T]](doc *firestore.DocumentSnapshot, resource string) (P, error) {
	record := P(new(T))
	if err := doc.DataTo(record); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	record.SetID(doc.Ref.ID)
	return record, nil
}

func getDoc[T any, P realtime.Record[T]](ctx context.Context, ref *firestore.DocumentRef, resource string) (P, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound(resource, err)
		}
		return nil, errors.Internal("Failed to get "+resource, err)
	}
	return decodeDoc[T, P](doc, resource)
}

// collectDocs drains a query iterator and returns records ordered by id.
func collectDocs[T any, P realtime.Record[T]](iter *firestore.DocumentIterator, resource string, id func(P) string) ([]P, error) {
	defer iter.Stop()
	records := make([]P, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to query "+resource, err)
		}
		record, err := decodeDoc[T, P](doc, resource)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return id(records[i]) < id(records[j]) })
	return records, nil
}

func toUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
