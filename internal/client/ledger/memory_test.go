package ledger

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskledger/internal/client/keys"
	"github.com/dmitrijs2005/taskledger/internal/client/models"
	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T) keys.Signer {
	t.Helper()
	kp, err := keys.Generate()
	require.NoError(t, err)
	s, err := keys.NewSigner(kp.PrivateKey)
	require.NoError(t, err)
	return s
}

func bindMemory(t *testing.T, l *MemoryLedger) Client {
	t.Helper()
	c, err := l.Bind(context.Background(), newTestSigner(t))
	require.NoError(t, err)
	return c
}

func mustConfirm(t *testing.T, tx Transaction, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotEmpty(t, tx.Hash())
	require.NoError(t, tx.Confirm(context.Background()))
}

func TestMemoryLedger_BindNilSigner(t *testing.T) {
	_, err := NewMemoryLedger().Bind(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrDisconnected)
}

func TestMemoryLedger_AddGetCount(t *testing.T) {
	ctx := context.Background()
	c := bindMemory(t, NewMemoryLedger())

	tx, err := c.Add(ctx, "Buy milk")
	mustConfirm(t, tx, err)
	tx, err = c.Add(ctx, "Write tests")
	mustConfirm(t, tx, err)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	got, err := c.Get(ctx, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(models.Task{ID: 1, Content: "Write tests"}, got); diff != "" {
		t.Fatalf("task mismatch (-want +got):\n%s", diff)
	}

	_, err = c.Get(ctx, 2)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryLedger_ToggleUpdate(t *testing.T) {
	ctx := context.Background()
	c := bindMemory(t, NewMemoryLedger())

	tx, err := c.Add(ctx, "draft")
	mustConfirm(t, tx, err)

	tx, err = c.Toggle(ctx, 0)
	mustConfirm(t, tx, err)
	tx, err = c.Update(ctx, 0, "final")
	mustConfirm(t, tx, err)

	got, err := c.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, models.Task{ID: 0, Content: "final", Completed: true}, got)

	tx, err = c.Toggle(ctx, 0)
	mustConfirm(t, tx, err)
	got, err = c.Get(ctx, 0)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestMemoryLedger_DeleteKeepsIDsMonotonic(t *testing.T) {
	ctx := context.Background()
	c := bindMemory(t, NewMemoryLedger())

	for _, s := range []string{"a", "b", "c"} {
		tx, err := c.Add(ctx, s)
		mustConfirm(t, tx, err)
	}

	tx, err := c.Delete(ctx, 1)
	mustConfirm(t, tx, err)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)

	second, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.Task{ID: 2, Content: "c"}, second)

	tx, err = c.Add(ctx, "d")
	mustConfirm(t, tx, err)
	last, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last.ID)

	_, err = c.Delete(ctx, 1)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryLedger_NonOwnerWritesRejected(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	alice := bindMemory(t, l)
	bob := bindMemory(t, l)

	tx, err := alice.Add(ctx, "mine")
	mustConfirm(t, tx, err)

	_, err = bob.Toggle(ctx, 0)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = bob.Update(ctx, 0, "theirs")
	require.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = bob.Delete(ctx, 0)
	require.ErrorIs(t, err, common.ErrUnauthorized)

	got, err := bob.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Content)
}

func TestMemoryLedger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := bindMemory(t, NewMemoryLedger())
	cancel()

	_, err := c.Count(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, err = c.Add(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryTx_HashesDistinct(t *testing.T) {
	ctx := context.Background()
	c := bindMemory(t, NewMemoryLedger())

	a, err := c.Add(ctx, "same")
	require.NoError(t, err)
	b, err := c.Add(ctx, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), b.Hash())
}
