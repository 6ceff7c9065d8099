package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Kevingarzon94/coffe-shop-bck/pos"
)

func TestMapTxError(t *testing.T) {
	serialization := &pgconn.PgError{Code: codeSerializationFailure, Message: "could not serialize access"}
	deadlock := &pgconn.PgError{Code: codeDeadlockDetected, Message: "deadlock detected"}
	unique := &pgconn.PgError{Code: "23505", Message: "duplicate key"}

	assert.ErrorIs(t, mapTxError(serialization), pos.ErrTxConflict)
	assert.ErrorIs(t, mapTxError(deadlock), pos.ErrTxConflict)

	// wrapped pg errors are still recognized
	wrapped := fmt.Errorf("commit transaction: %w", deadlock)
	assert.ErrorIs(t, mapTxError(wrapped), pos.ErrTxConflict)

	// anything else passes through untouched
	assert.NotErrorIs(t, mapTxError(unique), pos.ErrTxConflict)
	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapTxError(plain))

	// rejections from the processor must survive unmapped so errors.As
	// still finds them at the boundary
	rej := &pos.Rejection{Code: pos.CodeInsufficientStock, Message: "nope"}
	var got *pos.Rejection
	assert.ErrorAs(t, mapTxError(rej), &got)
}
