package inventory

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Page is a bounded limit/offset window over a list query.
type Page struct {
	number int
	size   int
}

// NewPage clamps the requested window: pages start at 1 and sizes are capped
// so a single request cannot drag the whole table over the wire.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{number: number, size: size}
}

func (p Page) Limit() int {
	if p.size == 0 {
		return defaultPageSize
	}
	return p.size
}

func (p Page) Offset() int {
	if p.number < 1 {
		return 0
	}
	return (p.number - 1) * p.Limit()
}
