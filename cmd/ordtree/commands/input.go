package commands

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/ordtree/pkg/rbtree"
)

// ErrNotNumeric is returned when --numeric is set and a line is not a number.
var ErrNotNumeric = errors.New("not a number")

// entry is one input line. In numeric mode num holds the parsed value and
// decides the order; text is kept for printing.
type entry struct {
	text string
	num  float64
}

func (e entry) String() string {
	return e.text
}

func compareText(a, b entry) int {
	return strings.Compare(a.text, b.text)
}

func compareNumeric(a, b entry) int {
	return cmp.Compare(a.num, b.num)
}

// readLines collects the lines of every path, or of stdin when paths is
// empty. "-" also names stdin. Blank lines are skipped.
func readLines(paths []string, stdin io.Reader) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var lines []string

	for _, path := range paths {
		var (
			reader io.Reader
			closer io.Closer
		)

		if path == "-" {
			reader = stdin
		} else {
			file, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open input: %w", err)
			}

			reader, closer = file, file
		}

		scanner := bufio.NewScanner(reader)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				lines = append(lines, line)
			}
		}

		scanErr := scanner.Err()

		if closer != nil {
			_ = closer.Close()
		}

		if scanErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, scanErr)
		}
	}

	return lines, nil
}

func parseEntry(text string, numeric bool) (entry, error) {
	if !numeric {
		return entry{text: text}, nil
	}

	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return entry{}, fmt.Errorf("%w: %q", ErrNotNumeric, text)
	}

	return entry{text: text, num: num}, nil
}

// buildTree loads lines into a tree. With strict set, a second occurrence of
// an item fails the load; otherwise it is dropped.
func buildTree(lines []string, numeric, strict bool) (*rbtree.Tree[entry], error) {
	compare := compareText
	if numeric {
		compare = compareNumeric
	}

	tree := rbtree.NewWithComparator(compare)
	tree.Allocator().Reserve(len(lines))

	for lineNo, line := range lines {
		item, err := parseEntry(line, numeric)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}

		if strict {
			err = tree.AddUnique(item)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}

			continue
		}

		tree.Add(item)
	}

	return tree, nil
}
