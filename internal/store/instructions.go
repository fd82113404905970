package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Instructions reads the assistant instruction files that exist among paths.
// Missing files are skipped; with none present the result is empty. When more
// than one file is read each is introduced by a "## <path>" heading.
func Instructions(paths []string) (string, error) {
	type doc struct{ path, content string }
	var docs []doc
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("read instructions %s: %w", p, err)
		}
		docs = append(docs, doc{path: p, content: string(b)})
	}

	switch len(docs) {
	case 0:
		return "", nil
	case 1:
		return docs[0].content, nil
	}

	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("## %s\n\n%s", d.path, strings.TrimRight(d.content, "\n"))
	}
	return strings.Join(parts, "\n\n"), nil
}
