package corpus

import (
	"errors"
	"fmt"
	"io"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// errStop ends a stream scan early without reporting an error.
var errStop = errors.New("stop")

// StrideSample scans a ranked frequency stream and calls fn for every
// stride-th record starting at the 0-based offset. A positive limit caps the
// number of sampled records. It returns the number of records passed to fn.
func StrideSample(r io.Reader, stride, offset, limit int, fn func(domain.FreqInfo) error) (int, error) {
	if stride <= 0 {
		return 0, fmt.Errorf("stride must be positive, got %d: %w", stride, domain.ErrValidation)
	}
	if offset < 0 {
		return 0, fmt.Errorf("offset must not be negative, got %d: %w", offset, domain.ErrValidation)
	}

	i, taken := 0, 0
	err := ReadFreqInfos(r, func(info domain.FreqInfo) error {
		pos := i
		i++
		if pos < offset || (pos-offset)%stride != 0 {
			return nil
		}
		if err := fn(info); err != nil {
			return err
		}
		taken++
		if limit > 0 && taken >= limit {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return taken, err
	}
	return taken, nil
}
