package auth

import (
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/AttendFlow/AF-Backend/internal/utils"
)

// SessionInfo adapts the store to the middleware's fetcher interfaces.
type SessionInfo struct {
	Store store.Store
}

func (si SessionInfo) FindSessionByID(id string) (utils.SessionData, error) {
	session, err := si.Store.FindSessionByID(id)
	if err != nil {
		return utils.SessionData{}, err
	}

	return utils.SessionData{
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (si SessionInfo) FindRoleByUserID(id string) (string, error) {
	user, err := si.Store.FindUserByID(id)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
