package folderstore

import (
	"fmt"
	"log"
)

func NewFolderStore(storeType, connectionString, seed string) (store FolderStore, err error) {
	switch storeType {
	case "", "memory":
		store = NewMemoryFolderStore(seed)
	case "redis":
		store, err = NewRedisFolderStore(connectionString)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported folder store type: %s", storeType)
	}

	log.Printf("using %s folder store", storeTypeName(storeType))
	return store, nil
}

func storeTypeName(storeType string) string {
	if storeType == "" {
		return "memory"
	}
	return storeType
}
