package scanner

import (
	"path/filepath"
	"strings"

	cferrors "centrefind/internal/errors"
)

// NormalizeTarget turns a root identifier into an absolute root path.
// Accepted forms:
//   - a bare letter ("C", "c:", "C:\") — interpreted as a drive root
//   - an absolute directory path
//   - a relative directory path (resolved against the working directory)
func NormalizeTarget(raw string) (string, error) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return "", cferrors.New(cferrors.ErrCodeInvalidTarget, "empty target")
	}

	// Drive-letter shorthand: "E", "E:", "E:/", "E:\".
	stripped := strings.TrimRight(t, ":/\\")
	if len(stripped) == 1 && isLetter(stripped[0]) {
		return strings.ToUpper(stripped) + ":/", nil
	}

	abs, err := filepath.Abs(t)
	if err != nil {
		return "", cferrors.Wrapf(err, cferrors.ErrCodeInvalidTarget, "cannot resolve target %q", raw)
	}
	return Normalize(abs), nil
}

// NormalizeTargets maps raw identifiers to root paths, dropping blanks.
// Invalid targets are returned in the second value so callers can
// report them without aborting the whole rebuild.
func NormalizeTargets(raw []string) (roots []string, skipped []string) {
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		root, err := NormalizeTarget(r)
		if err != nil {
			if strings.TrimSpace(r) != "" {
				skipped = append(skipped, r)
			}
			continue
		}
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}
	return roots, skipped
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
