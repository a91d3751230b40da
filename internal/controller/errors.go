package controller

import (
	"errors"

	"github.com/rpggio/gridview/internal/domain/table"
)

var (
	// ErrUnknownColumn indicates a key that is not part of the table.
	ErrUnknownColumn = table.ErrUnknownColumn
	// ErrUnknownRow indicates a row id that is not part of the dataset.
	ErrUnknownRow = errors.New("unknown row")
	// ErrUnknownAction indicates a menu action the table cannot run.
	ErrUnknownAction = errors.New("unknown menu action")
)
