package service

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// errNotSelected signals a mutation against a record the store no longer has.
var errNotSelected = apperrors.NewNotFound("record", nil)

func newEventID() string {
	return uuid.NewString()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
