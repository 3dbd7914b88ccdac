package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplebooks/books-contract-tests/framework"
)

type failingBackend struct {
	loadErr, saveErr error
	saved            map[string]string
}

func (f *failingBackend) Load(ctx context.Context) (map[string]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return copyEntries(f.saved), nil
}

func (f *failingBackend) Save(ctx context.Context, entries map[string]string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = copyEntries(entries)
	return nil
}

type nilSnapshotBackend struct{ saved map[string]string }

func (n *nilSnapshotBackend) Load(ctx context.Context) (map[string]string, error) { return nil, nil }

func (n *nilSnapshotBackend) Save(ctx context.Context, entries map[string]string) error {
	n.saved = entries
	return nil
}

func TestGetAfterSetReturnsTextualValue(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend(), nil)

	require.NoError(t, s.Set(ctx, "bookId", 3))
	require.NoError(t, s.Set(ctx, "timestamp", int64(1609459200000)))
	require.NoError(t, s.Set(ctx, "accessToken", "abc123"))

	assert.Equal(t, "3", s.Get(ctx, "bookId"))
	assert.Equal(t, "1609459200000", s.Get(ctx, "timestamp"))
	assert.Equal(t, "abc123", s.Get(ctx, "accessToken"))
}

func TestOverwriteLeavesOtherKeysAlone(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend(), nil)

	require.NoError(t, s.Set(ctx, "customerName", "first"))
	require.NoError(t, s.Set(ctx, "orderId", "o-1"))
	require.NoError(t, s.Set(ctx, "customerName", "second"))

	snapshot, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"customerName": "second", "orderId": "o-1"}, snapshot)
}

func TestAbsentKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend(), nil)

	assert.Equal(t, "", s.Get(ctx, "orderId"))
	_, err := s.Lookup(ctx, "orderId")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnreadableBackendIsDistinguishableFromAbsentKey(t *testing.T) {
	ctx := context.Background()
	var logger framework.CapturingLogger
	ioErr := errors.New("disk on fire")
	s := NewStore(&failingBackend{loadErr: ioErr}, &logger)

	assert.Equal(t, "", s.Get(ctx, "orderId"))

	_, err := s.Lookup(ctx, "orderId")
	require.Error(t, err)
	assert.ErrorIs(t, err, ioErr)
	assert.NotErrorIs(t, err, ErrNotFound)

	output := logger.Output()
	require.Len(t, output, 2)
	assert.Contains(t, output[0].Message, "disk on fire")
}

func TestSetFailuresAreReturnedAndLogged(t *testing.T) {
	ctx := context.Background()
	var logger framework.CapturingLogger
	saveErr := errors.New("read-only filesystem")
	s := NewStore(&failingBackend{saveErr: saveErr}, &logger)

	err := s.Set(ctx, "orderId", "o-1")
	assert.ErrorIs(t, err, saveErr)
	require.Len(t, logger.Output(), 1)
	assert.Contains(t, logger.Output()[0].Message, `state set "orderId"`)
}

func TestSetWithNilSnapshotFromBackend(t *testing.T) {
	b := &nilSnapshotBackend{}
	s := NewStore(b, nil)
	require.NoError(t, s.Set(context.Background(), "quantity", 1))
	assert.Equal(t, map[string]string{"quantity": "1"}, b.saved)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryBackend(), nil)
	require.NoError(t, s.Set(ctx, "orderId", "o-1"))
	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, "", s.Get(ctx, "orderId"))
}

func TestStoresSharingABackendSeeEachOthersWrites(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	writer := NewStore(backend, nil)
	reader := NewStore(backend, nil)

	require.NoError(t, writer.Set(ctx, "occupiedEmail", "someone@example.com"))
	assert.Equal(t, "someone@example.com", reader.Get(ctx, "occupiedEmail"))
}

type stringerValue struct{}

func (stringerValue) String() string { return "from-stringer" }

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "x", Text("x"))
	assert.Equal(t, "-1", Text(-1))
	assert.Equal(t, "876506400000", Text(int64(876506400000)))
	assert.Equal(t, "2.5", Text(2.5))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "from-stringer", Text(stringerValue{}))
	assert.Equal(t, "7", Text(uint8(7)))
}
