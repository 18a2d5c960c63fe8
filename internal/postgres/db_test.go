package postgres

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDSN(t *testing.T) {
	o := Options{
		Host:           "db.local",
		Port:           "5433",
		Name:           "korzinka",
		User:           "postgres",
		Password:       "p@ss:w/rd",
		ConnectTimeout: 7 * time.Second,
	}

	u, err := url.Parse(o.DSN())
	require.NoError(t, err)

	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.local:5433", u.Host)
	assert.Equal(t, "/korzinka", u.Path)
	assert.Equal(t, "postgres", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss:w/rd", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "7", u.Query().Get("connect_timeout"))
}

func TestOptionsDSNWithoutTimeout(t *testing.T) {
	u, err := url.Parse(Options{Host: "localhost", Port: "5432", Name: "x", User: "u"}.DSN())
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("connect_timeout"))
}
