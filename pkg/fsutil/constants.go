package fsutil

// Permission bits used when modsync creates files and directories.
const (
	FileModeDefault = 0o644 // -rw-r--r--: manifests, configs, extracted files
	DirModeDefault  = 0o755 // drwxr-xr-x: install directories
)
