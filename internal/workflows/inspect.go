package workflows

import (
	"github.com/PolarWolf314/hexalock/internal/secrets"
)

// InspectResult describes an envelope without decrypting it.
type InspectResult struct {
	Path string

	// Size is the file size in bytes.
	Size int64

	Info *secrets.EnvelopeInfo
}

// Inspect reads the header of an encrypted file. No password is needed and
// nothing is audited.
func (w *Workflow) Inspect(path string) (*InspectResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	info, err := secrets.Inspect(data)
	if err != nil {
		return nil, err
	}

	w.log.Debugf("Inspected %s: kdf time=%d memory=%dKiB threads=%d", path, info.KDF.Time, info.KDF.MemoryKiB, info.KDF.Threads)
	return &InspectResult{Path: path, Size: int64(len(data)), Info: info}, nil
}
