package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// ErrBankAlreadyConnected is returned when a second bank connection is
	// created for an owner. The data model allows one connection per owner.
	ErrBankAlreadyConnected = errors.New("a bank is already connected for this user")
)
