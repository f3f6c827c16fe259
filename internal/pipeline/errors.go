package pipeline

import "github.com/pkg/errors"

// Sentinel errors for the run-level failure taxonomy. Callers test with
// errors.Is; call sites attach context with errors.Wrapf.
var (
	// ErrRemoteUnavailable means the object store listing or download
	// transport failed. Fatal for the run; there is no internal retry.
	ErrRemoteUnavailable = errors.New("remote object store unavailable")

	// ErrDownloadFailed means at least one file in the batch could not be
	// staged. The whole batch is abandoned and nothing is ledgered.
	ErrDownloadFailed = errors.New("download failed")

	// ErrMalformedFilename means a truck id could not be parsed from a
	// source filename. The file is skipped; the run continues.
	ErrMalformedFilename = errors.New("malformed source filename")

	// ErrUnknownPaymentMethod means a whitelisted label has no row in the
	// payment method reference table. Reference data has drifted; fatal.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")

	// ErrLoadFailure means the ledger insert was rejected by the store.
	ErrLoadFailure = errors.New("ledger load failed")
)
