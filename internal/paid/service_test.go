package paid_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/docstore"
	"github.com/MrJamesThe3rd/caixa/internal/paid"
)

func newService(t *testing.T) (*paid.Service, *docstore.Store) {
	t.Helper()

	docs := docstore.New(filepath.Join(t.TempDir(), "finance-data"), nil)

	return paid.NewService(docs), docs
}

func TestService_SetAllAndList(t *testing.T) {
	svc, docs := newService(t)
	ctx := context.Background()

	ids, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)

	require.NoError(t, svc.SetAll(ctx, []string{"fixed-a-2025-01", "installment-b-0", "fixed-a-2025-01"}))

	ids, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fixed-a-2025-01", "installment-b-0"}, ids)

	require.NoError(t, svc.SetAll(ctx, nil))

	raw, err := os.ReadFile(docs.Path(paid.Document))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestService_NonArrayReadsEmpty(t *testing.T) {
	svc, docs := newService(t)
	require.NoError(t, docs.EnsureDirs())
	require.NoError(t, os.WriteFile(docs.Path(paid.Document), []byte(`{"fixed-a":true}`), 0o644))

	ids, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestService_Toggle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	marked, err := svc.Toggle(ctx, "installment-b-1")
	require.NoError(t, err)
	assert.True(t, marked)

	ids, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"installment-b-1"}, ids)

	marked, err = svc.Toggle(ctx, "installment-b-1")
	require.NoError(t, err)
	assert.False(t, marked)

	ids, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
