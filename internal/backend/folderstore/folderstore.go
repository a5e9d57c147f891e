// Package folderstore keeps the folder name that scopes every upload.
package folderstore

import "context"

// FolderNameKey is the key the folder name is stored under
const FolderNameKey = "folderName"

type FolderStore interface {
	// GetFolderName returns "" when no folder name has been set
	GetFolderName(ctx context.Context) (string, error)
	SetFolderName(ctx context.Context, name string) error
	Close() error
}
