//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Superblock magic numbers from linux/magic.h.
const (
	nfsSuperMagic   = 0x6969
	smbSuperMagic   = 0x517B
	cifsMagicNumber = 0xFF534D42
	smb2MagicNumber = 0xFE534D42
	fuseSuperMagic  = 0x65735546
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsMagicNumber, smb2MagicNumber:
		return FSTypeSMB
	case fuseSuperMagic:
		// sshfs is the most common FUSE filesystem but cannot be told apart
		// from the superblock alone.
		return FSTypeFUSE
	}
	return FSTypeLocal
}
