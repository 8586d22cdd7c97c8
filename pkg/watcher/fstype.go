package watcher

import (
	"os"
	"path/filepath"
)

// FilesystemType is a best-effort classification of the filesystem holding a
// watched file. fsnotify is unreliable on network and FUSE filesystems, so
// those are watched by polling.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeSSHFS
	FSTypeFUSE
)

func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeSSHFS:
		return "sshfs"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

// detectFilesystemTypeFunc is swapped out in tests.
var detectFilesystemTypeFunc = detectFilesystemType

// DetectFilesystemType classifies the filesystem of path. A path that does
// not exist yet is classified by its closest existing parent directory.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}
	for p := path; ; {
		if _, err := os.Stat(p); err == nil {
			return detectFilesystemTypeFunc(p)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return FSTypeUnknown
		}
		p = parent
	}
}

func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeSSHFS, FSTypeFUSE:
		return true
	}
	return false
}
