package syncer

import "errors"

var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionInactive = errors.New("connection is inactive")
	ErrSyncInProgress     = errors.New("sync already in progress for connection")
)
