package common

type Pagination struct {
	Total int64 `json:"total"`
}

// ListResponse wraps a result together with the number of items it lists.
type ListResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewListResponse(data any, total int) *ListResponse {
	return &ListResponse{
		Data:       data,
		Pagination: Pagination{Total: int64(total)},
	}
}
