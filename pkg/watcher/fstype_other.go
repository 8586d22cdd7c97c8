//go:build !linux

package watcher

func detectFilesystemType(string) FilesystemType {
	return FSTypeLocal
}
