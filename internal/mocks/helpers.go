package mocks

import (
	"context"
	"testing"

	"github.com/cyphera/passkey-wallet/internal/db"
	"go.uber.org/mock/gomock"
)

// NewMockStoreForTest creates a MockStore whose controller is finished on test cleanup.
func NewMockStoreForTest(t *testing.T) *MockStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockStore(ctrl)
}

// PassThroughTx makes every ExecTx call run its callback against the store itself,
// so queries issued inside a transaction hit the same expectations.
func PassThroughTx(store *MockStore) *gomock.Call {
	return store.EXPECT().ExecTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(db.Querier) error) error {
			return fn(store)
		},
	).AnyTimes()
}
