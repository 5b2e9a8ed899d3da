package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIDRequired indicates no item id was given.
var ErrIDRequired = errors.New("item id required")

// ErrTitleRequired indicates add got no usable title.
var ErrTitleRequired = errors.New("title required")

// ParseItemID parses the single item id argument.
// A leading '#' is accepted so ids can be pasted from listings.
func ParseItemID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("too many arguments: %s", strings.Join(args[1:], " "))
	}

	raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid item id: %s", args[0])
	}
	return id, nil
}
