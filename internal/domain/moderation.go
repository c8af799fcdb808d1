package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Moderation state machine. pending, approved and rejected are the
// only states; these methods are the only legal way to change Status.
//
//	submit            -> pending   (forced on create, reason cleared)
//	pending  approve  -> approved  (reason cleared)
//	rejected approve  -> approved  (reason cleared)
//	approved approve  -> Conflict
//	pending  reject   -> rejected  (reason set)
//	rejected reject   -> rejected  (reason replaced)
//	approved reject   -> Conflict
//	owner edit        -> pending   (reason cleared; approved -> Conflict)

// Approve moves the diary to approved and clears any rejection reason.
// Approving an already approved diary is a conflict; the stored state
// is left untouched.
func (d *Diary) Approve() error {
	if d.Status == StatusApproved {
		return fmt.Errorf("diary already approved: %w", ErrConflict)
	}
	d.Status = StatusApproved
	d.RejectReason = nil
	return nil
}

// Reject moves the diary to rejected with the given reason, replacing
// any previous reason. An approved diary cannot be rejected.
// The reason is assumed validated (non-empty, bounded) by the caller.
func (d *Diary) Reject(reason string) error {
	if d.Status == StatusApproved {
		return fmt.Errorf("cannot reject an approved diary: %w", ErrConflict)
	}
	d.Status = StatusRejected
	d.RejectReason = &reason
	return nil
}

// EditableBy checks whether the given account may edit the diary's
// content. Only the owner may edit, and never while approved: an
// approved diary is immutable to its owner.
func (d *Diary) EditableBy(accountID uuid.UUID) error {
	if d.AuthorID != accountID {
		return fmt.Errorf("diary belongs to another account: %w", ErrForbidden)
	}
	if d.Status == StatusApproved {
		return fmt.Errorf("approved diary cannot be edited: %w", ErrConflict)
	}
	return nil
}

// ResetForReview re-queues the diary for moderation after an owner
// edit. Any content change invalidates a prior decision.
func (d *Diary) ResetForReview() {
	d.Status = StatusPending
	d.RejectReason = nil
}

// DeletableBy checks whether the account may logically delete the
// diary: the owner or an administrator.
func (d *Diary) DeletableBy(accountID uuid.UUID, role Role) error {
	if d.AuthorID == accountID || role == RoleAdmin {
		return nil
	}
	return fmt.Errorf("diary belongs to another account: %w", ErrForbidden)
}
