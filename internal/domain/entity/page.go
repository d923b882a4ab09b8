package entity

import (
	"fmt"
	"regexp"
	"strconv"
)

var pageNumberRe = regexp.MustCompile(`\d+`)

type PageInfo struct {
	Current int
	Total   int
}

// ParsePageIndicator reads "Page 2 of 10" style text in any language:
// the first integer is the current page and the last one the page count.
func ParsePageIndicator(text string) (PageInfo, error) {
	matches := pageNumberRe.FindAllString(text, -1)
	if len(matches) < 2 {
		return PageInfo{}, fmt.Errorf("page indicator %q: %w", text, ErrElementNotFound)
	}

	current, err := strconv.Atoi(matches[0])
	if err != nil {
		return PageInfo{}, fmt.Errorf("page indicator %q: %w", text, err)
	}
	total, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return PageInfo{}, fmt.Errorf("page indicator %q: %w", text, err)
	}

	if current < 1 || total < 1 || current > total {
		return PageInfo{}, fmt.Errorf("page indicator %q: page %d of %d is out of range", text, current, total)
	}

	return PageInfo{Current: current, Total: total}, nil
}

func (p PageInfo) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return 100 * float64(p.Current) / float64(p.Total)
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
