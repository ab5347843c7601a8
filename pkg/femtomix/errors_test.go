package femtomix

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryError(t *testing.T) {
	err := &CategoryError{Category: "3", EventID: "evt-9", Err: ErrUnknownCategory}

	assert.Equal(t, `category "3" (event evt-9): similarity category not registered`, err.Error())
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	wrapped := fmt.Errorf("background: %w", err)
	var catErr *CategoryError
	assert.True(t, errors.As(wrapped, &catErr))
	assert.Equal(t, "3", catErr.Category)
}
