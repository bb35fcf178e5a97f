package sequence

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/oceanharvest/fishmarket-backend/pkg/errors"
)

// MaxAttempts bounds how many times callers retry identifier generation when
// a concurrent writer claims the same id first.
const MaxAttempts = 3

var idPattern = regexp.MustCompile(`^[A-Z]+\d+$`)

// Next derives the identifier following currentMax for the given prefix.
// currentMax is the highest persisted id matching the prefix, or empty when
// no rows exist yet. The numeric part is zero-padded to width digits and the
// width grows once the counter exceeds capacity (ORD999 is followed by
// ORD1000, never ORD000).
func Next(prefix string, width int, currentMax string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("prefix required")
	}
	if width <= 0 {
		return "", fmt.Errorf("width must be positive")
	}

	// A currentMax that doesn't parse restarts the sequence at 1; the unique
	// constraint on the id column catches any collision with real rows.
	next := 1
	if currentMax != "" {
		if n, err := Counter(prefix, currentMax); err == nil {
			next = n + 1
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, width, next), nil
}

// Counter extracts the numeric counter from an identifier with the given
// prefix.
func Counter(prefix, id string) (int, error) {
	if !strings.HasPrefix(id, prefix) {
		return 0, pkgerrors.Newf(pkgerrors.CodeInternal, "identifier %q does not match prefix %q", id, prefix)
	}
	if !idPattern.MatchString(id) {
		return 0, pkgerrors.Newf(pkgerrors.CodeInternal, "malformed identifier %q", id)
	}
	n, err := strconv.Atoi(id[len(prefix):])
	if err != nil {
		return 0, pkgerrors.Newf(pkgerrors.CodeInternal, "malformed identifier %q", id)
	}
	return n, nil
}
