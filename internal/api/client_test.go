package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, nil)
}

func TestLoginDecodesResponse(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])

		json.NewEncoder(w).Encode(LoginResponse{
			Access:  "acc",
			Refresh: "ref",
			User:    User{ID: 3, Username: "ana", Email: "a@b.c", Role: "user"},
		})
	})

	res, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "acc", res.Access)
	assert.Equal(t, "ref", res.Refresh)
	assert.Equal(t, uint(3), res.User.ID)
}

func TestErrorDetailFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantDetail string
	}{
		{"detail field", 400, `{"detail":"already in cart"}`, KindConflict, "already in cart"},
		{"message field", 404, `{"message":"product not found"}`, KindNotFound, "product not found"},
		{"bare string", 403, `"account blocked"`, KindForbidden, "account blocked"},
		{"unparseable", 500, `<html>boom</html>`, KindServer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Cart(context.Background())
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
		})
	}
}

func TestNetworkFailureIsKindNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	c := New(srv.URL, nil)
	_, err := c.Cart(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestProductsQueryEncoding(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "shoes", q.Get("category"))
		assert.Equal(t, "running", q.Get("search"))
		json.NewEncoder(w).Encode(ProductPage{
			Results: []Product{{ID: 1, Name: "trail runner"}},
			Count:   41,
		})
	})

	res, err := c.Products(context.Background(), ProductQuery{Page: 2, Category: "shoes", Search: "running"})
	require.NoError(t, err)
	assert.Equal(t, int64(41), res.Count)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "trail runner", res.Results[0].Name)
}

func TestDeleteToleratesNoContent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/cart/12/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.RemoveCartItem(context.Background(), 12))
}
