package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicate = errors.New("record already exists")
	ErrNotFound  = errors.New("record not found")
)

// translate maps driver errors onto the package sentinels. gorm only
// translates what its dialector knows about, so unique violations are also
// recognised by the message each driver produces.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry")
}
