// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Validation and consistency errors surfaced to the API layer. Every
// operation either fully applies or returns one of these with the store
// untouched; the only exception is ingestion's storage phase, whose
// orphaned objects are carried on the error for out-of-band cleanup.
var (
	ErrDesignNotFound       = errors.New("design not found")
	ErrDealNotFound         = errors.New("deal not found")
	ErrSlugTaken            = errors.New("design slug is already in use")
	ErrUnknownStatus        = errors.New("unknown production status")
	ErrInvalidTransition    = errors.New("production status cannot move backwards")
	ErrAlreadySettled       = errors.New("deal has already been settled")
	ErrOversold             = errors.New("no editions available")
	ErrEmptyBatch           = errors.New("upload batch contains no files")
	ErrMisconfiguredStorage = errors.New("object storage is not configured")
	ErrValidationFailed     = errors.New("file validation failed")
	ErrStorageWriteFailed   = errors.New("object storage write failed")
	ErrReconciliationFailed = errors.New("batch reconciliation failed")
)

// FileValidationError reports the first file of a batch that failed the
// intake policy. Matching errors.Is(err, ErrValidationFailed).
type FileValidationError struct {
	Filename string
	Reason   string
}

func (e *FileValidationError) Error() string {
	return fmt.Sprintf("file %q rejected: %s", e.Filename, e.Reason)
}

func (e *FileValidationError) Unwrap() error { return ErrValidationFailed }

// StorageWriteError reports a failed credential issuance or byte
// transfer. OrphanedKeys lists objects written earlier in the same
// batch that are now unreferenced.
type StorageWriteError struct {
	Filename     string
	Err          error
	OrphanedKeys []string
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Filename, e.Err)
}

func (e *StorageWriteError) Unwrap() []error {
	return []error{ErrStorageWriteFailed, e.Err}
}

// ReconciliationError reports an aborted reconciliation transaction.
// The design's prior state is retained, but the batch's storage writes
// are durable; OrphanedKeys lists them.
type ReconciliationError struct {
	Err          error
	OrphanedKeys []string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("batch reconciliation aborted: %v", e.Err)
}

func (e *ReconciliationError) Unwrap() []error {
	return []error{ErrReconciliationFailed, e.Err}
}
