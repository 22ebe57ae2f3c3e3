package services

import "errors"

var (
	ErrInvalidVehicle = errors.New("invalid vehicle category")
	ErrInvalidMode    = errors.New("invalid service mode")
	ErrUnknownItem    = errors.New("service not available for current vehicle")
	ErrKeyNotFound    = errors.New("key not found")
)
