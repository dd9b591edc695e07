package fs

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"maps"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pave/internal/build"
	"go.trai.ch/pave/internal/core/domain"
	"go.trai.ch/pave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher provides hashing functionality for targets and files.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (string, error) {
	sum, err := h.fileSum(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}

func (h *Hasher) fileSum(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeInputHash computes a single hash over the target's identity, the toolchain
// version, the link command and the given files. Directories are walked; missing
// paths hash as absent.
func (h *Hasher) ComputeInputHash(
	target string,
	kind domain.TargetKind,
	link *domain.Command,
	files []string,
) (string, error) {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(target)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(string(kind))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(build.ToolchainVersion)
	_, _ = hasher.Write([]byte{0})
	hashCommand(link, hasher)

	for _, path := range files {
		if err := h.hashPath(path, hasher); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrInputHashComputationFailed.Error()), "target", target)
		}
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

func (h *Hasher) hashPath(path string, mainHasher io.Writer) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, iofs.ErrNotExist):
		_, _ = mainHasher.Write([]byte(path))
		_, _ = mainHasher.Write([]byte("\x00absent\x00"))
		return nil
	case err != nil:
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}

	if !info.IsDir() {
		return h.hashFile(path, mainHasher)
	}
	for filePath := range h.walker.WalkFiles(path, nil) {
		if err := h.hashFile(filePath, mainHasher); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(path string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(path))
	_, _ = mainHasher.Write([]byte{0})

	sum, err := h.fileSum(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, sum); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

func hashCommand(cmd *domain.Command, w io.Writer) {
	if cmd == nil {
		return
	}
	_, _ = io.WriteString(w, "link\x00")
	for _, arg := range cmd.Args {
		_, _ = io.WriteString(w, arg)
		_, _ = w.Write([]byte{0})
	}
	_, _ = w.Write([]byte{0})

	for _, k := range slices.Sorted(maps.Keys(cmd.Environment)) {
		_, _ = io.WriteString(w, k+"="+cmd.Environment[k])
		_, _ = w.Write([]byte{0})
	}
	_, _ = w.Write([]byte{0})

	_, _ = io.WriteString(w, cmd.WorkingDir)
	_, _ = w.Write([]byte{0})
}
