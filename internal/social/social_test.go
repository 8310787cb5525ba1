package social

import (
	"fmt"
	"testing"

	"campusmatch/backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Interest{}, &models.UsernameIndex{}, &models.FriendRequest{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{
		Email:        username + "@college.edu",
		PasswordHash: "x",
		Username:     username,
		FullName:     username,
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestResolveNone(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	rel, err := Resolve(db, a, b)
	require.NoError(t, err)
	require.Equal(t, StateNone, rel.State)
	require.Nil(t, rel.Request)
}

func TestResolvePendingDirections(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	_, err := Send(db, a, b)
	require.NoError(t, err)

	rel, err := Resolve(db, a, b)
	require.NoError(t, err)
	require.Equal(t, StatePendingOutgoing, rel.State)
	require.NotNil(t, rel.Request)
	require.Equal(t, a, rel.Request.FromUserID)

	rel, err = Resolve(db, b, a)
	require.NoError(t, err)
	require.Equal(t, StatePendingIncoming, rel.State)
}

func TestResolveFriendsIsSymmetric(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	_, err := Send(db, a, b)
	require.NoError(t, err)
	require.NoError(t, Accept(db, a, b))

	// The same accepted record answers from either direction.
	rel, err := Resolve(db, a, b)
	require.NoError(t, err)
	require.Equal(t, StateFriends, rel.State)

	rel, err = Resolve(db, b, a)
	require.NoError(t, err)
	require.Equal(t, StateFriends, rel.State)
}

func TestResolveDeclinedIsNone(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	_, err := Send(db, a, b)
	require.NoError(t, err)
	require.NoError(t, Decline(db, a, b))

	rel, err := Resolve(db, a, b)
	require.NoError(t, err)
	require.Equal(t, StateNone, rel.State)
}

func TestRequestStatusMissingIsNil(t *testing.T) {
	db := newTestDB(t)
	a := seedUser(t, db, "alice")
	b := seedUser(t, db, "bob")

	req, err := RequestStatus(db, a, b)
	require.NoError(t, err)
	require.Nil(t, req)
}

func TestFriendIDSetUnionsBothDirections(t *testing.T) {
	db := newTestDB(t)
	me := seedUser(t, db, "me")
	sentTo := seedUser(t, db, "sent.to")
	receivedFrom := seedUser(t, db, "received.from")
	pendingOnly := seedUser(t, db, "pending.only")

	_, err := Send(db, me, sentTo)
	require.NoError(t, err)
	require.NoError(t, Accept(db, me, sentTo))

	_, err = Send(db, receivedFrom, me)
	require.NoError(t, err)
	require.NoError(t, Accept(db, receivedFrom, me))

	_, err = Send(db, me, pendingOnly)
	require.NoError(t, err)

	set, err := FriendIDSet(db, me)
	require.NoError(t, err)
	require.Len(t, set, 2)
	require.Contains(t, set, sentTo)
	require.Contains(t, set, receivedFrom)
	require.NotContains(t, set, pendingOnly)
}

func TestListFriendsReturnsProfiles(t *testing.T) {
	db := newTestDB(t)
	me := seedUser(t, db, "me")
	friend := seedUser(t, db, "friend")

	_, err := Send(db, me, friend)
	require.NoError(t, err)
	require.NoError(t, Accept(db, me, friend))

	friends, err := ListFriends(db, me)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, "friend", friends[0].Username)

	none, err := ListFriends(db, friend+100)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestFriendCount(t *testing.T) {
	db := newTestDB(t)
	me := seedUser(t, db, "me")
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	_, err := Send(db, me, a)
	require.NoError(t, err)
	require.NoError(t, Accept(db, me, a))

	_, err = Send(db, b, me)
	require.NoError(t, err)
	require.NoError(t, Accept(db, b, me))

	count, err := FriendCount(db, me)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestListIncomingRequests(t *testing.T) {
	db := newTestDB(t)
	me := seedUser(t, db, "me")

	var senders []uint
	for i := 0; i < 3; i++ {
		senders = append(senders, seedUser(t, db, fmt.Sprintf("sender%d", i)))
	}
	for _, s := range senders {
		_, err := Send(db, s, me)
		require.NoError(t, err)
	}
	// Accepted requests are not incoming anymore.
	require.NoError(t, Accept(db, senders[0], me))

	requests, err := ListIncomingRequests(db, me)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	for _, req := range requests {
		require.Equal(t, models.StatusPending, req.Status)
		require.NotZero(t, req.FromUser.ID, "sender profile should be preloaded")
	}
}
