package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Size string

const (
	SizeXS   Size = "XS"
	SizeS    Size = "S"
	SizeM    Size = "M"
	SizeL    Size = "L"
	SizeXL   Size = "XL"
	SizeXXL  Size = "XXL"
	Size28   Size = "28"
	Size30   Size = "30"
	Size32   Size = "32"
	Size34   Size = "34"
	Size36   Size = "36"
	SizeFree Size = "FREE" // one size, accessories
)

var ErrInvalidSize = errors.New("invalid size")

var sizes = map[Size]struct{}{
	SizeXS: {}, SizeS: {}, SizeM: {}, SizeL: {}, SizeXL: {}, SizeXXL: {},
	Size28: {}, Size30: {}, Size32: {}, Size34: {}, Size36: {}, SizeFree: {},
}

// ParseSize accepts any case of a known size label.
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := sizes[size]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return size, nil
}

// StringList stores a []string as a JSON array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList: unsupported type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}
