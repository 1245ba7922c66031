package fs

import (
	"fmt"
	iofs "io/fs"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/recomp/internal/core/domain"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Fingerprinter = (*ModTimeFingerprinter)(nil)
	_ ports.Fingerprinter = (*ContentFingerprinter)(nil)
)

// ModTimeFingerprinter fingerprints a unit by its modification time.
type ModTimeFingerprinter struct{}

// NewModTimeFingerprinter creates a new ModTimeFingerprinter.
func NewModTimeFingerprinter() *ModTimeFingerprinter {
	return &ModTimeFingerprinter{}
}

// Fingerprint returns the modification time of info in Unix nanoseconds.
func (m *ModTimeFingerprinter) Fingerprint(path string, info iofs.FileInfo) (domain.Fingerprint, error) {
	if info == nil {
		return "", zerr.With(zerr.New("missing file info"), "path", path)
	}
	return domain.Fingerprint(strconv.FormatInt(info.ModTime().UnixNano(), 10)), nil
}

// ContentFingerprinter fingerprints a unit by an xxhash digest of its contents.
// Touching a file without changing it keeps the fingerprint stable.
type ContentFingerprinter struct {
	src ports.SourceFS
}

// NewContentFingerprinter creates a ContentFingerprinter reading through src.
func NewContentFingerprinter(src ports.SourceFS) *ContentFingerprinter {
	return &ContentFingerprinter{src: src}
}

// Fingerprint returns the hex encoded digest of the file contents.
func (c *ContentFingerprinter) Fingerprint(path string, _ iofs.FileInfo) (domain.Fingerprint, error) {
	data, err := c.src.ReadFile(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return domain.Fingerprint(FormatDigest(Digest(data))), nil
}

// Digest computes the xxhash of data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// FormatDigest renders a digest as fixed-width hex.
func FormatDigest(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// NewFingerprinter returns the fingerprinter for mode.
func NewFingerprinter(mode domain.FingerprintMode, src ports.SourceFS) (ports.Fingerprinter, error) {
	switch mode {
	case "", domain.FingerprintModTime:
		return NewModTimeFingerprinter(), nil
	case domain.FingerprintContent:
		return NewContentFingerprinter(src), nil
	default:
		return nil, zerr.With(domain.ErrInvalidFingerprintMode, "mode", string(mode))
	}
}
