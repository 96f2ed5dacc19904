package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bher20/tariffmanager/internal/config"
	"github.com/bher20/tariffmanager/internal/tariff"
)

func TestCompanies_SendsBearerAndDecodesArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","name":"Repsol","type":"gas"},{"id":"2","name":"","type":"gas"}]`))
	}))
	defer srv.Close()

	c := New(config.BackendConfig{BaseURL: srv.URL + "/", Token: "secret", Timeout: 2}, nil)
	list, err := c.Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tariff.Company{ID: "1", Name: "Repsol", Type: tariff.TypeGas}, list[0])
}

func TestCompanies_WrappedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"7","name":"TotalEnergies","type":"electricity"}]}`))
	}))
	defer srv.Close()

	list, err := New(config.BackendConfig{BaseURL: srv.URL}, nil).Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "TotalEnergies", list[0].Name)
}

func TestCompanies_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(config.BackendConfig{BaseURL: srv.URL}, nil).Companies(context.Background())
	assert.Error(t, err)
}

func TestCompaniesOrDefault_FallsBack(t *testing.T) {
	t.Setenv("TARIFFMANAGER_COMPANIES_JSON", `[{"id":"x","name":"Holaluz","type":"electricity"}]`)

	c := New(config.BackendConfig{}, nil)
	_, err := c.Companies(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	list := c.CompaniesOrDefault(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Holaluz", list[0].Name)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()
	list = New(config.BackendConfig{BaseURL: srv.URL}, nil).CompaniesOrDefault(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Holaluz", list[0].Name)
}
