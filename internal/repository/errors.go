package repository

import "errors"

var ErrInsufficientStock = errors.New("insufficient stock")
