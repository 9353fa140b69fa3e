// backend/scraper/aqi_index_checker_test.go
package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexPage = `<html><body><h1>Index of /aqi</h1><ul>
<li><a href="../">../</a></li>
<li><a href="aqi_2019-11-11T16.csv">aqi_2019-11-11T16.csv</a></li>
<li><a href="/data/aqi_2019-11-11T17.csv">aqi_2019-11-11T17.csv</a></li>
<li><a href="readme.txt">readme.txt</a></li>
</ul></body></html>`

func TestListRemoteAqiFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexPage))
	}))
	defer server.Close()

	files, err := ListRemoteAqiFiles(server.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{"aqi_2019-11-11T16.csv", "aqi_2019-11-11T17.csv"}, files)
}

func TestRemoteAqiFileAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexPage))
	}))
	defer server.Close()

	available, err := RemoteAqiFileAvailable(server.URL, "aqi_2019-11-11T17.csv")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = RemoteAqiFileAvailable(server.URL, "aqi_2019-11-11T18.csv")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestListRemoteAqiFiles_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := ListRemoteAqiFiles(server.URL)

	assert.Error(t, err)
}

func TestListRemoteAqiFiles_NoURL(t *testing.T) {
	_, err := ListRemoteAqiFiles("")

	assert.Error(t, err)
}
