package tripsafe

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadLabels reads the class names the Model was trained on from the given
// text file, such as coco.names.  It should contain one label per line, the
// line number being the class index
func LoadLabels(file string) ([]string, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening labels file")
	}

	defer f.Close()

	return ReadLabels(f)
}

// ReadLabels reads one trimmed label per line from r.  Blank lines are kept
// so that class indices stay aligned with line numbers
func ReadLabels(r io.Reader) ([]string, error) {

	scanner := bufio.NewScanner(r)

	var labels []string

	for scanner.Scan() {
		labels = append(labels, strings.TrimSpace(scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading labels")
	}

	if len(labels) == 0 {
		return nil, errors.New("labels file is empty")
	}

	return labels, nil
}
