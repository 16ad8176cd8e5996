package store

import (
    "context"
    "database/sql"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNameForCity(t *testing.T) {
    assert.Equal(t, Filial1, NameForCity("Moscow"))
    assert.Equal(t, Filial2, NameForCity("Saint Petersburg"))
    assert.Equal(t, Filial3, NameForCity("Kazan"))
    assert.Equal(t, Central, NameForCity("Novosibirsk"))
    assert.Equal(t, Central, NameForCity(""))
}

func TestClusterLookup(t *testing.T) {
    central, _, err := sqlmock.New()
    require.NoError(t, err)
    filial, _, err := sqlmock.New()
    require.NoError(t, err)
    defer central.Close()
    defer filial.Close()

    c := NewCluster(map[string]*sql.DB{
        Central: central,
        Filial1: filial,
    })

    assert.Same(t, central, c.Central())
    assert.Same(t, filial, c.Get(Filial1))

    db, name := c.ForCity("Moscow")
    assert.Same(t, filial, db)
    assert.Equal(t, Filial1, name)

    db, name = c.ForCity("Samara")
    assert.Same(t, central, db)
    assert.Equal(t, Central, name)
}

func TestResolverStoreNameForHotel(t *testing.T) {
    central, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer central.Close()

    r := NewResolver(NewCluster(map[string]*sql.DB{Central: central}))

    mock.ExpectQuery("SELECT c.city_name").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"city_name"}).AddRow("Kazan"))
    assert.Equal(t, Filial3, r.StoreNameForHotel(context.Background(), 7))

    // Unknown hotel: the lookup errors and the resolver degrades to central.
    mock.ExpectQuery("SELECT c.city_name").
        WithArgs(uint64(99)).
        WillReturnError(sql.ErrNoRows)
    assert.Equal(t, Central, r.StoreNameForHotel(context.Background(), 99))

    assert.NoError(t, mock.ExpectationsWereMet())
}
