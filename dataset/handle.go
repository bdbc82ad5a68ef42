package dataset

import (
	"sync"

	"github.com/addrnl/postcode/errs"
)

// Handle is the one-shot initialization gate in front of a Dataset.
//
// A generated data package registers its embedded blob in an init
// function; the first call that needs the dataset triggers Parse exactly
// once, and every caller — including concurrent first callers — observes
// the same *Dataset or the same latched error. A parse failure is
// permanent for the life of the process, like a failed sql driver
// registration.
//
// The zero value is ready to use.
type Handle struct {
	mu      sync.Mutex
	blob    []byte
	started bool

	once sync.Once
	ds   *Dataset
	err  error
}

// Register stores the embedded blob for later materialization.
//
// Register must be called before the first Dataset or Init call, normally
// from the data package's init function. Calling it again, or after
// initialization has started, returns ErrAlreadyInitialized; the first
// registration stays in effect.
func (h *Handle) Register(blob []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started || h.blob != nil {
		return errs.ErrAlreadyInitialized
	}

	h.blob = blob

	return nil
}

// Dataset returns the materialized dataset, parsing the registered blob on
// first use.
//
// Returns ErrNoDataset if no blob was registered, or the latched Parse
// error if materialization failed.
func (h *Handle) Dataset() (*Dataset, error) {
	h.once.Do(func() {
		h.mu.Lock()
		blob := h.blob
		h.started = true
		h.mu.Unlock()

		if blob == nil {
			h.err = errs.ErrNoDataset

			return
		}

		h.ds, h.err = Parse(blob)
	})

	return h.ds, h.err
}

// Init materializes the dataset eagerly.
//
// Callers that want to pay the parse cost at startup instead of on the
// first lookup call Init once and check the error.
func (h *Handle) Init() error {
	_, err := h.Dataset()

	return err
}
