package driver

import (
	"crypto/sha1" //nolint:gosec // integrity pin inherited from the published artifact, not used for signing
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// fileSHA1 returns the lowercase hex SHA-1 digest of the file at path.
func fileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// checksumMatches reports whether the file at path digests to pinned.
// A missing file is simply reported as not matching.
func checksumMatches(path, pinned string) bool {
	sum, err := fileSHA1(path)
	if err != nil {
		return false
	}
	return strings.EqualFold(sum, pinned)
}
