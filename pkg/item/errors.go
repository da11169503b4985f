package item

import (
	"errors"
	"fmt"

	"github.com/opgraph/opgraph/pkg/conf"
)

var (
	// ErrUnsupportedColumn is returned by [Item.Data] for a column the item
	// kind has no value for. It is not a failure: views render an empty cell.
	ErrUnsupportedColumn = errors.New("unsupported column")

	// ErrUnsupportedProperty is returned by [Item.SetProperty] for a key the
	// item kind ignores. Callers usually treat it as a no-op.
	ErrUnsupportedProperty = errors.New("unsupported property")

	// ErrRejectedUpdate is returned by [Item.SetProperty] when the value has
	// the wrong type or shape for the key. The item is left unchanged.
	ErrRejectedUpdate = errors.New("rejected update")
)

func unsupportedColumn(c Column) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedColumn, c)
}

func unsupportedProperty(key string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedProperty, key)
}

func rejected(key, want string, v conf.Value) error {
	return fmt.Errorf("%w: %s wants %s, got %T", ErrRejectedUpdate, key, want, v)
}
