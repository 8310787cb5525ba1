// Package social owns the relationship state between pairs of users.
//
// A relationship is persisted as at most one FriendRequest record per
// ordered (from, to) pair. The resolver derives the symmetric state
// between two users from up to two such records; the state machine in
// statemachine.go is the only writer. Every function takes the *gorm.DB
// handle explicitly so callers control the connection (and tests can
// pass their own).
package social

import (
	"errors"

	"campusmatch/backend/internal/models"

	"gorm.io/gorm"
)

// RelationshipState is the symmetric state between two users, as seen
// from the querying side.
type RelationshipState string

const (
	StateFriends         RelationshipState = "friends"
	StatePendingOutgoing RelationshipState = "pending_outgoing"
	StatePendingIncoming RelationshipState = "pending_incoming"
	StateNone            RelationshipState = "none"
)

// Relationship is the resolver's result: the derived state plus the
// record it was derived from (nil when the state is none).
type Relationship struct {
	State   RelationshipState
	Request *models.FriendRequest
}

// incomingRequestsLimit caps how many pending requests are listed at
// once.
const incomingRequestsLimit = 50

// RequestStatus fetches the (from -> to) record. It returns nil without
// an error when no record exists.
func RequestStatus(db *gorm.DB, fromID, toID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := db.Where("from_user_id = ? AND to_user_id = ?", fromID, toID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Resolve derives the symmetric relationship state between meID and
// otherID. The (me -> other) record is checked strictly before
// (other -> me); the state machine guarantees only one of the two can
// be pending or accepted, so the order only fixes the read cost at two
// point reads.
func Resolve(db *gorm.DB, meID, otherID uint) (Relationship, error) {
	out, err := RequestStatus(db, meID, otherID)
	if err != nil {
		return Relationship{}, err
	}
	if out != nil {
		switch out.Status {
		case models.StatusAccepted:
			return Relationship{State: StateFriends, Request: out}, nil
		case models.StatusPending:
			return Relationship{State: StatePendingOutgoing, Request: out}, nil
		}
	}

	inc, err := RequestStatus(db, otherID, meID)
	if err != nil {
		return Relationship{}, err
	}
	if inc != nil {
		switch inc.Status {
		case models.StatusAccepted:
			return Relationship{State: StateFriends, Request: inc}, nil
		case models.StatusPending:
			return Relationship{State: StatePendingIncoming, Request: inc}, nil
		}
	}

	return Relationship{State: StateNone}, nil
}

// FriendIDSet returns the ids of everyone uid is friends with: the
// union of recipients of accepted requests uid sent and senders of
// accepted requests uid received. Two indexed queries, no full scan.
func FriendIDSet(db *gorm.DB, uid uint) (map[uint]struct{}, error) {
	var sent []uint
	err := db.Model(&models.FriendRequest{}).
		Where("from_user_id = ? AND status = ?", uid, models.StatusAccepted).
		Pluck("to_user_id", &sent).Error
	if err != nil {
		return nil, err
	}

	var received []uint
	err = db.Model(&models.FriendRequest{}).
		Where("to_user_id = ? AND status = ?", uid, models.StatusAccepted).
		Pluck("from_user_id", &received).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint]struct{}, len(sent)+len(received))
	for _, id := range sent {
		set[id] = struct{}{}
	}
	for _, id := range received {
		set[id] = struct{}{}
	}
	return set, nil
}

// ListFriendIDs returns the friend set as a slice.
func ListFriendIDs(db *gorm.DB, uid uint) ([]uint, error) {
	set, err := FriendIDSet(db, uid)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

// ListFriends returns the full profiles of uid's friends, interests
// preloaded.
func ListFriends(db *gorm.DB, uid uint) ([]models.User, error) {
	ids, err := ListFriendIDs(db, uid)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var friends []models.User
	if err := db.Preload("Interests").Find(&friends, ids).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// FriendCount counts uid's friendships over both record orderings.
func FriendCount(db *gorm.DB, uid uint) (int64, error) {
	var sent, received int64
	err := db.Model(&models.FriendRequest{}).
		Where("from_user_id = ? AND status = ?", uid, models.StatusAccepted).
		Count(&sent).Error
	if err != nil {
		return 0, err
	}
	err = db.Model(&models.FriendRequest{}).
		Where("to_user_id = ? AND status = ?", uid, models.StatusAccepted).
		Count(&received).Error
	if err != nil {
		return 0, err
	}
	return sent + received, nil
}

// ListIncomingRequests returns pending requests addressed to uid,
// sender profile preloaded, oldest first, capped at 50.
func ListIncomingRequests(db *gorm.DB, uid uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := db.Where("to_user_id = ? AND status = ?", uid, models.StatusPending).
		Order("created_at").
		Limit(incomingRequestsLimit).
		Preload("FromUser").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
