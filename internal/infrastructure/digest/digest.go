package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/khanhnv2901/cybertools/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

// Algorithm identifies a supported content hash.
type Algorithm string

const (
	AlgorithmSHA256 Algorithm = "sha256"
	AlgorithmSHA512 Algorithm = "sha512"
	AlgorithmBLAKE3 Algorithm = "blake3"
)

func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm normalizes a configured algorithm name. Empty selects SHA-256.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sha256", "sha-256":
		return AlgorithmSHA256, nil
	case "sha512", "sha-512":
		return AlgorithmSHA512, nil
	case "blake3":
		return AlgorithmBLAKE3, nil
	}
	return "", fmt.Errorf("%w: %s", sharedErrors.ErrInvalidHashAlgorithm, value)
}

// New returns a fresh hash accumulator for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case AlgorithmSHA256, "":
		return sha256.New(), nil
	case AlgorithmSHA512:
		return sha512.New(), nil
	case AlgorithmBLAKE3:
		return blake3.New(), nil
	}
	return nil, fmt.Errorf("%w: %s", sharedErrors.ErrInvalidHashAlgorithm, a)
}

// HexLen is the length of a lowercase hex digest produced by the algorithm.
func (a Algorithm) HexLen() int {
	if a == AlgorithmSHA512 {
		return sha512.Size * 2
	}
	return sha256.Size * 2
}

// Digester streams file content through a hash in fixed-size chunks so memory
// use does not grow with file size.
type Digester struct {
	Algorithm Algorithm
	ChunkSize int
}

// NewDigester creates a digester with the default chunk size.
func NewDigester(algorithm Algorithm) *Digester {
	return &Digester{
		Algorithm: algorithm,
		ChunkSize: constants.DigestChunkSize,
	}
}

// Digest returns the lowercase hex digest of the file at path.
// A missing file is reported as ErrFileNotFound, any other failure as ErrDigestFailed.
func (d *Digester) Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", sharedErrors.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrDigestFailed, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharedErrors.ErrDigestFailed, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", sharedErrors.ErrDigestFailed, path)
	}

	sum, err := d.DigestReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", sharedErrors.ErrDigestFailed, path, err)
	}
	return sum, nil
}

// DigestReader hashes r until EOF, reading ChunkSize bytes at a time.
func (d *Digester) DigestReader(r io.Reader) (string, error) {
	h, err := d.Algorithm.New()
	if err != nil {
		return "", err
	}

	size := d.ChunkSize
	if size <= 0 {
		size = constants.DigestChunkSize
	}
	buf := make([]byte, size)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", readErr
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestBytes hashes data in a single call.
func (d *Digester) DigestBytes(data []byte) (string, error) {
	h, err := d.Algorithm.New()
	if err != nil {
		return "", err
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
