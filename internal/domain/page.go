package domain

// PageRequest carries caller-configurable pagination and sorting. Zero values
// fall back to the listing's defaults via Normalize.
type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Normalize clamps the request and fills in the listing's default sort column.
func (p PageRequest) Normalize(defaultSort string) PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Sort == "" {
		p.Sort = defaultSort
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}
