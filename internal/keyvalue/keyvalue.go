// Package keyvalue wraps the schemaless secondary store that mirrors the
// relational database and holds the enriched transactions.
//
// Items are keyed by a string "id" attribute. All other attributes are typed
// per field: string, number (stored as a decimal string) or an explicit null
// marker.
package keyvalue

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is a single record in the secondary store.
type Item map[string]types.AttributeValue

// Store is the interface to the secondary store. A Store is safe for
// concurrent use; implementations are stateless per call.
type Store interface {
	// Put inserts or overwrites the item with the same id.
	Put(ctx context.Context, table string, item Item) error

	// Get returns the item with the given id. The second return value
	// reports whether the item exists.
	Get(ctx context.Context, table string, id string) (Item, bool, error)

	// Delete removes the item with the given id. Deleting an id that does
	// not exist is not an error.
	Delete(ctx context.Context, table string, id string) error

	// Scan returns all items of a table.
	Scan(ctx context.Context, table string) ([]Item, error)
}

// S returns a string attribute.
func S(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// N returns a number attribute. Numbers are transported as decimal strings.
func N(v int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

// Null returns the explicit null marker.
func Null() types.AttributeValue {
	return &types.AttributeValueMemberNULL{Value: true}
}

// StringAttr returns the string value of an attribute. Absent attributes,
// null markers and attributes of other types all report ok = false.
func StringAttr(item Item, key string) (string, bool) {
	s, ok := item[key].(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}

	return s.Value, true
}

// NumberAttr returns the raw decimal string of a number attribute.
func NumberAttr(item Item, key string) (string, bool) {
	n, ok := item[key].(*types.AttributeValueMemberN)
	if !ok {
		return "", false
	}

	return n.Value, true
}

// IntAttr parses a number attribute as a base 10 integer. Absent or
// unparseable attributes return 0.
func IntAttr(item Item, key string) int64 {
	raw, ok := NumberAttr(item, key)
	if !ok {
		return 0
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}

	return v
}

// ID returns the id attribute of an item.
func ID(item Item) string {
	id, _ := StringAttr(item, "id")
	return id
}

// Equal reports whether two items carry exactly the same attributes.
// It understands the three attribute types the mirror writes: string,
// number and the null marker.
func Equal(a, b Item) bool {
	if len(a) != len(b) {
		return false
	}

	for key, av := range a {
		bv, ok := b[key]
		if !ok || !attrEqual(av, bv) {
			return false
		}
	}

	return true
}

func attrEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberNULL:
		bv, ok := b.(*types.AttributeValueMemberNULL)
		return ok && av.Value == bv.Value
	}

	return false
}

// Copy returns a deep copy of the item so that callers cannot mutate
// store-internal state.
func Copy(item Item) Item {
	out := make(Item, len(item))
	for key, value := range item {
		switch v := value.(type) {
		case *types.AttributeValueMemberS:
			out[key] = &types.AttributeValueMemberS{Value: v.Value}
		case *types.AttributeValueMemberN:
			out[key] = &types.AttributeValueMemberN{Value: v.Value}
		case *types.AttributeValueMemberNULL:
			out[key] = &types.AttributeValueMemberNULL{Value: v.Value}
		default:
			out[key] = value
		}
	}

	return out
}
