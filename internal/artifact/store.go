// Package artifact persists the build-once, read-many pipeline artifacts:
// the search index, the emotion results, and the emotion statistics.
//
// Each file is a fixed binary envelope around a JSON payload: magic bytes,
// format version, a kind tag, a CRC32 of the payload, and the payload
// length. The envelope carries no timestamps, so rebuilding from an
// unchanged corpus produces byte-identical files.
package artifact

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"

	pkgerrors "github.com/gutensearch/gutensearch/pkg/errors"
)

const (
	// MagicBytes identifies a valid .gsa artifact file.
	MagicBytes    uint32 = 0x47534131
	FormatVersion uint32 = 1
	headerSize           = 24
)

// Kind tags the payload type so a stage cannot load the wrong artifact.
type Kind uint32

const (
	KindIndex Kind = iota + 1
	KindEmotionResults
	KindEmotionStats
)

// Save marshals v and writes it atomically: the envelope goes to a .tmp
// file which is renamed over the target on success.
func Save(path string, kind Kind, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling artifact payload: %w", err)
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(header[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(kind))
	binary.LittleEndian.PutUint32(header[12:16], crc32.ChecksumIEEE(payload))
	binary.LittleEndian.PutUint64(header[16:24], uint64(len(payload)))

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp artifact file: %w", err)
	}
	if _, err := f.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("writing artifact header: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		return fmt.Errorf("writing artifact payload: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing artifact file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing artifact file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming artifact file: %w", err)
	}
	return nil
}

// Load reads and validates an artifact into v. A missing file maps to
// ErrMissingArtifact; a bad envelope or checksum maps to ErrCorruptArtifact.
// Both are fatal for the stage that needs the artifact.
func Load(path string, kind Kind, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", pkgerrors.ErrMissingArtifact, path)
		}
		return fmt.Errorf("reading artifact %s: %w", path, err)
	}
	if len(data) < headerSize {
		return fmt.Errorf("%w: %s: truncated header", pkgerrors.ErrCorruptArtifact, path)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != MagicBytes {
		return fmt.Errorf("%w: %s: bad magic", pkgerrors.ErrCorruptArtifact, path)
	}
	if version := binary.LittleEndian.Uint32(data[4:8]); version != FormatVersion {
		return fmt.Errorf("%w: %s: unsupported version %d", pkgerrors.ErrCorruptArtifact, path, version)
	}
	if got := Kind(binary.LittleEndian.Uint32(data[8:12])); got != kind {
		return fmt.Errorf("%w: %s: kind %d, want %d", pkgerrors.ErrCorruptArtifact, path, got, kind)
	}

	checksum := binary.LittleEndian.Uint32(data[12:16])
	size := binary.LittleEndian.Uint64(data[16:24])
	payload := data[headerSize:]
	if uint64(len(payload)) != size {
		return fmt.Errorf("%w: %s: payload size %d, want %d", pkgerrors.ErrCorruptArtifact, path, len(payload), size)
	}
	if crc32.ChecksumIEEE(payload) != checksum {
		return fmt.Errorf("%w: %s: checksum mismatch", pkgerrors.ErrCorruptArtifact, path)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", pkgerrors.ErrCorruptArtifact, path, err)
	}
	return nil
}
