package pincode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `[{"Message":"Number of pincode(s) found:2","Status":"Success","PostOffice":[
 {"Name":"Andheri East","Block":"NA","Division":"Mumbai North","District":"Mumbai","State":"Maharashtra","Pincode":"400069"},
 {"Name":"Chakala","Block":"NA","Division":"Mumbai North","District":"Mumbai","State":"Maharashtra","Pincode":"400069"}]}]`

func TestClient_Lookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pincode/400069", r.URL.Path)
		w.Write([]byte(successBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	place, err := client.Lookup(context.Background(), "400069")
	require.NoError(t, err)

	assert.Equal(t, "400069", place.PinCode)
	assert.Equal(t, "Mumbai", place.City)
	assert.Equal(t, "Mumbai", place.District)
	assert.Equal(t, "Maharashtra", place.State)
	assert.Equal(t, []string{"Andheri East", "Chakala"}, place.PostOffices)
}

func TestClient_Lookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Message":"No records found","Status":"Error","PostOffice":null}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Lookup(context.Background(), "999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Lookup_InvalidCode(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, err := client.Lookup(context.Background(), code)
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}
}

func TestClient_Lookup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Lookup(context.Background(), "400069")
	assert.Error(t, err)
}
