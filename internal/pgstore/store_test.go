package pgstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

func newTestStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock, logger.New(logger.LevelOff, nil)), mock
}

func TestStore_LoadRecipes(t *testing.T) {
	store, mock := newTestStore(t)

	rows := pgxmock.NewRows([]string{"id", "name", "inputrecipe", "imgurl", "portnum", "style", "instruction", "ingredient", "category", "time"}).
		AddRow("1001", "감자조림", "감자300g|간장30ml", "a.jpg", 2, "한식", "졸인다", "감자", "반찬", "30분").
		AddRow("1002", "당근라페", "당근200g", "", 0, "", "", "", "", "")
	mock.ExpectQuery("SELECT id, name").WillReturnRows(rows)

	got, err := store.LoadRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "감자조림", got[0].Name)
	assert.Equal(t, 2, got[0].PortionCount)
	assert.Equal(t, "감자", got[0].MainIngredient)
	assert.Empty(t, got[0].Ingredients, "ingredient text is parsed by the catalog, not the store")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadProducts(t *testing.T) {
	store, mock := newTestStore(t)

	rows := pgxmock.NewRows([]string{"id", "domain", "division", "category", "name", "brand", "weight", "unit", "price", "image"}).
		AddRow("P1", "식품", "채소", "당근/뿌리채소", "흙당근", "없음", 500.0, "g", 2490, "carrot.jpg")
	mock.ExpectQuery("FROM product").WillReturnRows(rows)

	got, err := store.LoadProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 500.0, got[0].Weight)
	assert.Equal(t, 2490, got[0].Price)
	assert.Equal(t, "", got[0].DisplayBrand())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadProductsQueryError(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery("FROM product").WillReturnError(errors.New("connection reset"))

	_, err := store.LoadProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying products")
}

func TestStore_Similarities(t *testing.T) {
	store, mock := newTestStore(t)

	rows := pgxmock.NewRows([]string{"usernum", "id", "name", "similarity", "exception", "partitiondate"}).
		AddRow(7, "1001", "감자조림", 0.62, false, "2026-10-18").
		AddRow(7, "1008", "애호박전", 0.44, true, "2026-10-18")
	mock.ExpectQuery("FROM similarity").WithArgs(7).WillReturnRows(rows)

	got, err := store.Similarities(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 7, got[0].UserID)
	assert.True(t, got[1].Exception)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Record(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantErr bool
	}{
		{"inserted", nil, false},
		{"database error", errors.New("disk full"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newTestStore(t)
			ts := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
			ev := domain.Event{
				UserID: 7, OSType: "ios", Type: domain.EventWebsiteOpen, Timestamp: ts,
				Parameter:     map[string]any{"order": 1},
				PartitionDate: "2026-10-19",
			}

			exp := mock.ExpectExec("INSERT INTO user_logs").
				WithArgs(7, "websiteOpen", ts, `{"order":1}`, "ios", "2026-10-19")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := store.Record(context.Background(), ev)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE EXTENSION IF NOT EXISTS vector").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`vector\(1024\)`).WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, EnsureSchema(context.Background(), mock, 1024))
	assert.NoError(t, mock.ExpectationsWereMet())
}
