package domain

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrRangeNotSatisfiable means a syntactically valid Range header asked for
// an interval that starts at or beyond the end of the resource.
var ErrRangeNotSatisfiable = errors.New("requested range not satisfiable")

// rangeSpec matches the single-range form "bytes=<start>-<end>" with an
// optional end. Multi-range and suffix-range requests fall through to a
// full-content response.
var rangeSpec = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// ByteRange is a closed byte interval [Start, End] over a resource whose
// total size was known at parse time. Start <= End always holds.
type ByteRange struct {
	Start int64
	End   int64
}

// Length is the number of bytes covered by the range.
func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// ParseRange resolves a raw Range header against a resource of the given
// size. It returns (nil, nil) when no usable range was requested, meaning
// the whole resource should be served. An omitted end resolves to the last
// byte; an end past the last byte is clamped to it. A start at or past the
// end of the resource, or past the requested end, is unsatisfiable.
//
// size must be positive; offsets are non-negative by construction of the
// pattern.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}
	m := rangeSpec.FindStringSubmatch(header)
	if m == nil {
		return nil, nil
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, nil
	}

	end := size - 1
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, nil
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start >= size || start > end {
		return nil, ErrRangeNotSatisfiable
	}
	return &ByteRange{Start: start, End: end}, nil
}
