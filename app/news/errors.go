package news

import "fmt"

// SourceFetchError reports a failed request to one provider. The
// aggregator absorbs these; they never propagate past it.
type SourceFetchError struct {
	Source string
	Status int
	Err    error
}

func (e *SourceFetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("source %s: HTTP %d", e.Source, e.Status)
	}
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}
