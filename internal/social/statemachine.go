package social

import (
	"errors"
	"time"

	"campusmatch/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// acceptMaxAttempts bounds the optimistic retry loop in Accept.
const acceptMaxAttempts = 3

// requestKey is the composite primary key of FriendRequest, used for
// upserts on the (from, to) pair.
var requestKey = []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}}

// SendResult reports what Send did.
type SendResult struct {
	// Requested is true when a pending request now exists.
	Requested bool `json:"requested"`

	// AlreadyFriends is true when the pair was already connected in
	// either direction; nothing was written.
	AlreadyFriends bool `json:"already_friends"`

	// IncomingPending is true when the other user already has a pending
	// request towards the sender; nothing was written. The sender
	// should accept that request instead.
	IncomingPending bool `json:"incoming_pending"`
}

// Send creates (or re-arms) a pending request from fromID to toID.
// Sending to yourself is rejected before any I/O. If the pair is
// already friends in either direction, or the other user already has a
// pending request towards the sender, the call is an idempotent no-op.
// Otherwise the (from -> to) record is upserted to pending, merging
// over a prior pending or declined record under the same key.
func Send(db *gorm.DB, fromID, toID uint) (SendResult, error) {
	if fromID == 0 || toID == 0 {
		return SendResult{}, ErrMissingUser
	}
	if fromID == toID {
		return SendResult{}, ErrSelfRelation
	}

	out, err := RequestStatus(db, fromID, toID)
	if err != nil {
		return SendResult{}, err
	}
	if out != nil && out.Status == models.StatusAccepted {
		return SendResult{AlreadyFriends: true}, nil
	}

	inc, err := RequestStatus(db, toID, fromID)
	if err != nil {
		return SendResult{}, err
	}
	if inc != nil {
		switch inc.Status {
		case models.StatusAccepted:
			return SendResult{AlreadyFriends: true}, nil
		case models.StatusPending:
			// A crossing send would leave both orderings pending. Only
			// one ordering may ever be pending or accepted, so the
			// sender is pointed at the existing incoming request.
			return SendResult{IncomingPending: true}, nil
		}
	}

	req := models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.StatusPending,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   requestKey,
		DoUpdates: clause.Assignments(map[string]interface{}{"status": models.StatusPending, "updated_at": time.Now()}),
	}).Create(&req).Error
	if err != nil {
		return SendResult{}, err
	}

	return SendResult{Requested: true}, nil
}

// Cancel deletes the (from -> to) record. Calling it on a record that
// does not exist is a no-op, not an error.
func Cancel(db *gorm.DB, fromID, toID uint) error {
	return db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Delete(&models.FriendRequest{}).Error
}

// Accept marks the request sent from fromID to toID as accepted. It is
// called by the recipient (toID). The read-validate-write sequence is
// optimistic: the update is conditioned on the record still being
// pending, and a lost race triggers a re-read, up to acceptMaxAttempts
// times. A missing record yields ErrRequestNotFound, a non-pending one
// ErrRequestNotPending; exhausting the retries yields ErrWriteConflict.
func Accept(db *gorm.DB, fromID, toID uint) error {
	for attempt := 0; attempt < acceptMaxAttempts; attempt++ {
		var req models.FriendRequest
		err := db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		if err != nil {
			return err
		}
		if req.Status != models.StatusPending {
			return ErrRequestNotPending
		}

		result := db.Model(&models.FriendRequest{}).
			Where("from_user_id = ? AND to_user_id = ? AND status = ?",
				fromID, toID, models.StatusPending).
			Update("status", models.StatusAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			return nil
		}
		// A concurrent accept/decline/cancel got there first; re-read
		// to report the state it left behind.
	}
	return ErrWriteConflict
}

// Decline marks the request sent from fromID to toID as declined. The
// record is upserted, so a decline that races with a cancel still
// leaves a declined marker behind.
func Decline(db *gorm.DB, fromID, toID uint) error {
	req := models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.StatusDeclined,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   requestKey,
		DoUpdates: clause.Assignments(map[string]interface{}{"status": models.StatusDeclined, "updated_at": time.Now()}),
	}).Create(&req).Error
}
