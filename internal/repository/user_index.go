package repository

import (
	"strings"

	"titanchat/core/internal/models"
)

// userIndex is a loaded user collection with lookups by id and by the
// lower-cased unique keys. Positions refer to users.
type userIndex struct {
	users      []models.User
	byID       map[string]int
	byEmail    map[string][]int
	byNickname map[string][]int
}

func indexUsers(users []models.User) *userIndex {
	ix := &userIndex{
		users:      users,
		byID:       make(map[string]int, len(users)),
		byEmail:    make(map[string][]int, len(users)),
		byNickname: make(map[string][]int, len(users)),
	}
	for i, u := range users {
		ix.byID[u.ID] = i
		ix.byEmail[fold(u.Email)] = append(ix.byEmail[fold(u.Email)], i)
		ix.byNickname[fold(u.Nickname)] = append(ix.byNickname[fold(u.Nickname)], i)
	}
	return ix
}

func fold(s string) string {
	return strings.ToLower(s)
}

func (ix *userIndex) get(id string) (models.User, int, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return models.User{}, -1, false
	}
	return ix.users[i], i, true
}

func (ix *userIndex) byEmailFold(email string) (models.User, bool) {
	positions := ix.byEmail[fold(email)]
	if len(positions) == 0 {
		return models.User{}, false
	}
	return ix.users[positions[0]], true
}

func (ix *userIndex) emailTaken(email string) bool {
	return len(ix.byEmail[fold(email)]) > 0
}

// nicknameTaken ignores the record with id exceptID.
func (ix *userIndex) nicknameTaken(nickname string, exceptID string) bool {
	for _, i := range ix.byNickname[fold(nickname)] {
		if ix.users[i].ID != exceptID {
			return true
		}
	}
	return false
}
