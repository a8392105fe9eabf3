package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymorita/solventory/internal/db"
	"github.com/ymorita/solventory/internal/domain"
	"github.com/ymorita/solventory/internal/store"
)

type lookupFixture struct {
	lookup  *LookupService
	catalog *CatalogService
	logs    *store.LogStore
}

func newLookupFixture(t *testing.T) *lookupFixture {
	t.Helper()

	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })

	rooms := store.NewRoomStore(d)
	solvents := store.NewSolventStore(d)
	inventory := store.NewInventoryStore(d)
	logs := store.NewLogStore(d)

	return &lookupFixture{
		lookup:  NewLookupService(inventory, logs, rooms, solvents),
		catalog: NewCatalogService(rooms, solvents, inventory),
		logs:    logs,
	}
}

func (fx *lookupFixture) seed(t *testing.T, ctx context.Context) {
	t.Helper()

	d105, err := fx.catalog.CreateRoom(ctx, "D105")
	require.NoError(t, err)
	b201, err := fx.catalog.CreateRoom(ctx, "B201")
	require.NoError(t, err)

	methanol, err := fx.catalog.CreateSolvent(ctx, "Methanol", "67-56-1", "CH3OH", "32.04")
	require.NoError(t, err)
	acetone, err := fx.catalog.CreateSolvent(ctx, "Acetone", "67-64-1", "C3H6O", "58.08")
	require.NoError(t, err)

	_, err = fx.catalog.EnsureInventory(ctx, d105.ID, methanol.ID, domain.Liters(5050))
	require.NoError(t, err)
	_, err = fx.catalog.EnsureInventory(ctx, b201.ID, acetone.ID, domain.Liters(1800))
	require.NoError(t, err)
}

func TestLookupListInventory_All(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()
	fx.seed(t, ctx)

	details, err := fx.lookup.ListInventory(ctx, SearchByName, "")
	require.NoError(t, err)
	assert.Len(t, details, 2)
}

func TestLookupListInventory_ByName(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()
	fx.seed(t, ctx)

	details, err := fx.lookup.ListInventory(ctx, SearchByName, "meth")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Methanol", details[0].SolventName)

	// Case-insensitive.
	details, err = fx.lookup.ListInventory(ctx, SearchByName, "METH")
	require.NoError(t, err)
	assert.Len(t, details, 1)
}

func TestLookupListInventory_ByCASIgnoresHyphens(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()
	fx.seed(t, ctx)

	details, err := fx.lookup.ListInventory(ctx, SearchByCAS, "67561")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Methanol", details[0].SolventName)

	details, err = fx.lookup.ListInventory(ctx, SearchByCAS, "67-64")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Acetone", details[0].SolventName)
}

func TestLookupListInventory_ByRoom(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()
	fx.seed(t, ctx)

	details, err := fx.lookup.ListInventory(ctx, SearchByRoom, "b2")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "B201", details[0].RoomName)
}

func TestLookupDetail(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()
	fx.seed(t, ctx)

	all, err := fx.lookup.ListInventory(ctx, SearchByName, "Methanol")
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].ID

	_, err = fx.logs.Append(ctx, id, domain.Liters(1800), "staff")
	require.NoError(t, err)
	_, err = fx.logs.Append(ctx, id, domain.Liters(-380), "staff")
	require.NoError(t, err)

	detail, entries, err := fx.lookup.Detail(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "Methanol", detail.SolventName)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.Liters(-380), entries[0].Change)
}

func TestLookupDetail_Missing(t *testing.T) {
	fx := newLookupFixture(t)

	detail, entries, err := fx.lookup.Detail(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, detail)
	assert.Nil(t, entries)
}

func TestLookupCandidates(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()
	fx.seed(t, ctx)

	rooms, err := fx.lookup.Candidates(ctx, SearchByRoom, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"D105"}, rooms)

	names, err := fx.lookup.Candidates(ctx, SearchByName, "o")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Methanol", "Acetone"}, names)

	cas, err := fx.lookup.Candidates(ctx, SearchByCAS, "67561")
	require.NoError(t, err)
	assert.Equal(t, []string{"67-56-1"}, cas)

	none, err := fx.lookup.Candidates(ctx, SearchByName, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLookupCandidates_CappedAtFive(t *testing.T) {
	fx := newLookupFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Ethanol", "Methanol", "Propanol", "Butanol", "Pentanol", "Hexanol", "Heptanol"} {
		_, err := fx.catalog.CreateSolvent(ctx, name, "", "", "")
		require.NoError(t, err)
	}

	names, err := fx.lookup.Candidates(ctx, SearchByName, "anol")
	require.NoError(t, err)
	assert.Len(t, names, 5)
}

func TestLookupCandidates_UnknownKind(t *testing.T) {
	fx := newLookupFixture(t)

	_, err := fx.lookup.Candidates(context.Background(), SearchKind("color"), "blue")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
