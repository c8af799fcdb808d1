package storage

import (
	"log/slog"
)

// Ledger tracks the files touched by one submission attempt so the
// filesystem can be reconciled with the transaction outcome. It is not
// safe for concurrent use; each request builds its own.
//
//	Consume    raw staged uploads, deleted on both outcomes
//	Stage      provisional derived files, deleted on Abort
//	Supersede  previously stored files being replaced, deleted on Commit
type Ledger struct {
	store *Store
	log   *slog.Logger

	consumed   []string // absolute staged paths
	staged     []string // stored relative paths
	superseded []string // stored relative paths
	resolved   bool
}

// NewLedger creates a Ledger over the given store.
func NewLedger(store *Store, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, log: logger}
}

// Consume records a staged upload that must not outlive the request,
// whatever the outcome. A consumed file that was already moved or
// deleted is skipped silently.
func (l *Ledger) Consume(abs string) {
	l.consumed = append(l.consumed, abs)
}

// Stage records a provisionally written stored file. It is kept on
// Commit and deleted on Abort.
func (l *Ledger) Stage(rel string) {
	l.staged = append(l.staged, rel)
}

// Supersede records a stored file that a successful update replaces.
// It is deleted on Commit and kept on Abort.
func (l *Ledger) Supersede(rel string) {
	l.superseded = append(l.superseded, rel)
}

// Commit reconciles the filesystem after the database transaction
// succeeded: consumed staging files and superseded files are removed,
// staged files stay.
func (l *Ledger) Commit() {
	if l.resolved {
		return
	}
	l.resolved = true

	l.removeConsumed()
	for _, rel := range l.superseded {
		if err := l.store.Remove(rel); err != nil {
			l.log.Warn("failed to remove superseded file", slog.String("path", rel), slog.Any("error", err))
		}
	}
}

// Abort reconciles the filesystem after a failed submission: consumed
// staging files and provisional staged files are removed, superseded
// files stay because the rows referencing them were not changed.
func (l *Ledger) Abort() {
	if l.resolved {
		return
	}
	l.resolved = true

	l.removeConsumed()
	for _, rel := range l.staged {
		if err := l.store.Remove(rel); err != nil {
			l.log.Warn("failed to remove staged file", slog.String("path", rel), slog.Any("error", err))
		}
	}
}

func (l *Ledger) removeConsumed() {
	for _, abs := range l.consumed {
		if err := l.store.RemoveAbs(abs); err != nil {
			l.log.Warn("failed to remove staged upload", slog.String("path", abs), slog.Any("error", err))
		}
	}
}
