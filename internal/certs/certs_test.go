package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.NotEmpty(t, cert.Certificate)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestFileManager_CreatesAndReuses(t *testing.T) {
	m := NewFileManager(t.TempDir(), "192.168.1.20", "spicewatch.lan")

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	cert := leaf(t, first)
	for _, host := range []string{"localhost", "127.0.0.1", "192.168.1.20", "spicewatch.lan"} {
		assert.NoError(t, cert.VerifyHostname(host), host)
	}

	info, err := os.Stat(m.keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.Equal(t, cert.SerialNumber.String(), leaf(t, second).SerialNumber.String(), "valid certificate is reused")
}

func TestFileManager_RegeneratesNearExpiry(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)

	first, err := m.GetOrCreateCertificate()
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(validity - renewalMargin/2) }
	second, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NotEqual(t, leaf(t, first).SerialNumber.String(), leaf(t, second).SerialNumber.String())
}

func TestFileManager_RegeneratesForNewHost(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileManager(dir).GetOrCreateCertificate()
	require.NoError(t, err)

	second, err := NewFileManager(dir, "10.0.0.5").GetOrCreateCertificate()
	require.NoError(t, err)

	assert.NotEqual(t, leaf(t, first).SerialNumber.String(), leaf(t, second).SerialNumber.String())
	assert.NoError(t, leaf(t, second).VerifyHostname("10.0.0.5"))
}

func TestFileManager_ReplacesCorruptFiles(t *testing.T) {
	m := NewFileManager(t.TempDir())
	require.NoError(t, os.WriteFile(m.certFile, []byte("not a cert"), 0600))
	require.NoError(t, os.WriteFile(m.keyFile, []byte("not a key"), 0600))

	cert, err := m.GetOrCreateCertificate()
	require.NoError(t, err)
	assert.NoError(t, leaf(t, cert).VerifyHostname("localhost"))
}

func TestFileManager_TLSConfig(t *testing.T) {
	cfg, err := NewFileManager(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}
