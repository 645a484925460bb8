package pagination

import (
	"math"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultSize is the page size used when the client does not send one.
	DefaultSize = 10
	// MaxSize caps the page size a client may request.
	MaxSize = 100
	// MaxPage keeps Page*Size within an int32 row offset for every valid size.
	MaxPage = math.MaxInt32 / MaxSize
)

// Params are zero-based page coordinates bound from the query string.
type Params struct {
	Page int `form:"page,default=0" binding:"min=0,max=21474836"`
	Size int `form:"size,default=10" binding:"min=1,max=100"`
}

// Bind parses ?page&size from the request, applying defaults.
func Bind(c *gin.Context) (Params, error) {
	var p Params
	if err := c.ShouldBindQuery(&p); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Offset is the index of the first row of the page.
func (p Params) Offset() int {
	return p.Page * p.Size
}

// Limit is the maximum number of rows on the page.
func (p Params) Limit() int {
	return p.Size
}

// Range returns the inclusive row range [from, to] covered by the page.
func (p Params) Range() (from, to int) {
	from = p.Offset()
	return from, from + p.Size - 1
}

// Page is the paginated resource envelope returned by every list endpoint.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// NewPage wraps a page of rows with its totals. A nil slice is replaced by an
// empty one so content always serializes as an array.
func NewPage[T any](content []T, total int64, p Params) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    TotalPages(total, p.Size),
		Size:          p.Size,
		Number:        p.Page,
	}
}

// TotalPages is ceil(total/size); zero when size is not positive.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
