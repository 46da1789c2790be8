package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: DefaultLimit}, Normalize(0, 0))
	assert.Equal(t, Params{Page: 3, Limit: MaxLimit}, Normalize(3, 1000))
	assert.Equal(t, 20, Normalize(3, 10).Offset())
}

func TestNew(t *testing.T) {
	page := New([]int{1, 2}, 21, Params{Page: 2, Limit: 10})
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 21, page.Total)

	empty := New[int](nil, 0, Params{Page: 1, Limit: 10})
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?page=2&limit=5", nil)
	assert.Equal(t, Params{Page: 2, Limit: 5}, FromRequest(r))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, Slice(items, Params{Page: 2, Limit: 2}))
	assert.Equal(t, []int{5}, Slice(items, Params{Page: 3, Limit: 2}))
	assert.Empty(t, Slice(items, Params{Page: 4, Limit: 2}))
}
