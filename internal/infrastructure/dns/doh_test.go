package dns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoHServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TXT", r.URL.Query().Get("type"))
		assert.Equal(t, "application/dns-json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDoHResolver_LookupTXT(t *testing.T) {
	srv := newDoHServer(t, http.StatusOK, `{"Status":0,"Answer":[
		{"name":"_aeobro-verify.acme.com.","type":16,"data":"\"aeobro-site-verify=abc\""},
		{"name":"_aeobro-verify.acme.com.","type":16,"data":"\"v=spf1 \" \"include:x\""},
		{"name":"_aeobro-verify.acme.com.","type":5,"data":"alias.acme.com."}
	]}`)
	r := NewDoHResolver(srv.URL, "test-agent", time.Second)

	records, err := r.LookupTXT(context.Background(), "_aeobro-verify.acme.com")
	require.NoError(t, err)
	require.Equal(t, []string{"aeobro-site-verify=abc", "v=spf1 include:x"}, records)
}

func TestDoHResolver_NXDomainAndEmpty(t *testing.T) {
	nx := newDoHServer(t, http.StatusOK, `{"Status":3}`)
	_, err := NewDoHResolver(nx.URL, "test-agent", time.Second).LookupTXT(context.Background(), "missing.acme.com")
	require.ErrorIs(t, err, ErrNoRecords)

	empty := newDoHServer(t, http.StatusOK, `{"Status":0,"Answer":[]}`)
	_, err = NewDoHResolver(empty.URL, "test-agent", time.Second).LookupTXT(context.Background(), "acme.com")
	require.ErrorIs(t, err, ErrNoRecords)
}

func TestDoHResolver_Failures(t *testing.T) {
	servfail := newDoHServer(t, http.StatusOK, `{"Status":2}`)
	_, err := NewDoHResolver(servfail.URL, "test-agent", time.Second).LookupTXT(context.Background(), "acme.com")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoRecords)

	badStatus := newDoHServer(t, http.StatusBadGateway, ``)
	_, err = NewDoHResolver(badStatus.URL, "test-agent", time.Second).LookupTXT(context.Background(), "acme.com")
	require.ErrorContains(t, err, "status 502")

	badBody := newDoHServer(t, http.StatusOK, `not json`)
	_, err = NewDoHResolver(badBody.URL, "test-agent", time.Second).LookupTXT(context.Background(), "acme.com")
	require.ErrorContains(t, err, "doh decode")
}

func TestDoHResolver_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := NewDoHResolver(srv.URL, "", 20*time.Millisecond).LookupTXT(context.Background(), "acme.com")
	require.Error(t, err)
}

func TestJoinTXTData(t *testing.T) {
	require.Equal(t, "plain", joinTXTData("plain"))
	require.Equal(t, "ab", joinTXTData(`"a" "b"`))
	require.Equal(t, `say "hi"`, joinTXTData(`"say \"hi\""`))
}
