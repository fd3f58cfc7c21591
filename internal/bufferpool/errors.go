package bufferpool

import "errors"

// Error kinds surfaced to callers (spec §7). The taxonomy is intentionally
// flat -- no nested cause chain -- callers distinguish kinds with
// errors.Is against these sentinels; call sites wrap them with fmt.Errorf
// and "%w" to add context.
var (
	// ErrInvalidArgument: null pool/handle/name, negative page number, or
	// non-positive frame count.
	ErrInvalidArgument = errors.New("bufferpool: invalid argument")

	// ErrFileNotFound: the backing file could not be opened or created.
	ErrFileNotFound = errors.New("bufferpool: backing file not found")

	// ErrReadNonExistingPage is surfaced by the storage adapter and
	// propagated unchanged.
	ErrReadNonExistingPage = errors.New("bufferpool: read of a non-existing page")

	// ErrWriteFailed is surfaced by the storage adapter and propagated
	// unchanged.
	ErrWriteFailed = errors.New("bufferpool: write-back failed")

	// ErrPinnedPages: shutdown attempted with at least one pinned frame.
	ErrPinnedPages = errors.New("bufferpool: shutdown attempted with pinned frames outstanding")

	// ErrPageNotFound: unpin/markDirty/forcePage on a page not resident in
	// any frame.
	ErrPageNotFound = errors.New("bufferpool: page not resident in any frame")

	// ErrNoFreeSlot: pin-miss with every frame pinned.
	ErrNoFreeSlot = errors.New("bufferpool: no evictable frame available")
)
