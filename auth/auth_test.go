package auth

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type prompterMock struct {
	mock.Mock
}

func (o *prompterMock) Username() (string, error) {
	args := o.Called()
	return args.String(0), args.Error(1)
}

func (o *prompterMock) Password() (string, error) {
	args := o.Called()
	return args.String(0), args.Error(1)
}

func writeTokenFile(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "dhwebapi")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "token")
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestResolveTokenFirst(t *testing.T) {
	prompter := &prompterMock{}
	creds, err := Resolve(Options{
		Username:  "alice",
		Password:  "secret",
		Token:     "abc123",
		TokenFile: "/does/not/exist",
	}, prompter)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "abc123"}, creds)
	prompter.AssertNotCalled(t, "Username")
}

func TestResolveTokenFile(t *testing.T) {
	path := writeTokenFile(t, "abc123\r\nignored\n")

	creds, err := Resolve(Options{Username: "alice", TokenFile: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "abc123"}, creds)

	_, err = Resolve(Options{TokenFile: filepath.Join(filepath.Dir(path), "missing")}, nil)
	assert.Error(t, err)
}

func TestResolvePrompts(t *testing.T) {
	prompter := &prompterMock{}
	prompter.On("Password").Return("secret", nil)

	creds, err := Resolve(Options{Username: "alice"}, prompter)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Password: "secret"}, creds)
	prompter.AssertExpectations(t)
	prompter.AssertNotCalled(t, "Username")

	prompter = &prompterMock{}
	prompter.On("Username").Return("", errors.New("interrupt"))
	_, err = Resolve(Options{}, prompter)
	assert.EqualError(t, err, "unable to read username: interrupt")
}

func TestResolveWithoutPrompter(t *testing.T) {
	_, err := Resolve(Options{Username: "alice"}, nil)
	assert.Equal(t, ErrNoCredentials, err)

	creds, err := ResolveLogin(Options{Username: "alice", Password: "secret", Token: "ignored"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Password: "secret"}, creds)
}

func TestReadToken(t *testing.T) {
	token, err := ReadToken(strings.NewReader("abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	token, err = ReadToken(strings.NewReader("abc123\n"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ReadToken(strings.NewReader("\nabc123\n"))
	assert.Error(t, err)
}
