package serverinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleServerInfo = `<?xml version="1.0" standalone="no"?>
<serverinfo>
	<host>caldav.example.com</host>
	<nonsslport>8008</nonsslport>
	<sslport>8443</sslport>
	<authtype>basic</authtype>
</serverinfo>
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serverinfo.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleServerInfo), 0o644))

	info, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "caldav.example.com", info.Host)
	assert.Equal(t, 8008, info.Port)
	assert.Equal(t, 8443, info.SSLPort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "serverinfo.xml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serverinfo.xml")
	require.NoError(t, os.WriteFile(path, []byte("<serverinfo><host>"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	info := &Info{Host: "caldav.example.com", Port: 8008, SSLPort: 8443}

	assert.Equal(t, "caldav.example.com:8008", info.Addr(false))
	assert.Equal(t, "caldav.example.com:8443", info.Addr(true))
}
