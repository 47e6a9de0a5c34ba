package bundle

import "errors"

var (
	ErrFileSystemOperation = errors.New("file system operation failed")
	ErrCopy                = errors.New("copy failed")
	ErrContentMismatch     = errors.New("divergent content across contributing targets")
)
