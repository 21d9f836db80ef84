package varlist

// Errors
var (
	ErrInvalidArgument = &ListError{"invalid argument"}
	ErrBufferTooSmall  = &ListError{"buffer too small"}
	ErrCorrupted       = &ListError{"corrupted record"}
	ErrNotFound        = &ListError{"variable not found"}
)

// ListError represents a variable list codec error
type ListError struct {
	Message string
}

func (e *ListError) Error() string {
	return e.Message
}
