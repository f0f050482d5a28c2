package tui

import "github.com/papapumpkin/igmguesses/internal/linelist"

// MsgCatalogReloaded carries a catalog re-read after its file changed.
type MsgCatalogReloaded struct {
	Catalog *linelist.Catalog
}

// MsgCatalogError reports a catalog file that changed but failed to load.
// The previous catalog stays in use.
type MsgCatalogError struct {
	Err error
}
