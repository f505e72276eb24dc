// Package auth resolves which credentials the command line tool authenticates with.
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Options are the credential sources as given by the user, in any combination.
type Options struct {
	Username  string
	Password  string
	Token     string
	TokenFile string
}

// Credentials are the resolved values. Token is set when an existing token is used, otherwise
// Username and Password are.
type Credentials struct {
	Username string
	Password string
	Token    string
}

type Prompter interface {
	Username() (string, error)
	Password() (string, error)
}

var ErrNoCredentials = errors.New("no credentials given: use --token, --tokenfile or --username and --password")

// Resolve picks a token over a token file over username and password. Missing username or password
// is asked for through prompter; a nil prompter turns that into ErrNoCredentials.
func Resolve(opts Options, prompter Prompter) (Credentials, error) {
	if opts.Token != "" {
		return Credentials{Token: opts.Token}, nil
	}

	if opts.TokenFile != "" {
		token, err := ReadTokenFile(opts.TokenFile)
		if err != nil {
			return Credentials{}, err
		}
		return Credentials{Token: token}, nil
	}

	return ResolveLogin(opts, prompter)
}

// ResolveLogin ignores tokens and always produces a username and password.
func ResolveLogin(opts Options, prompter Prompter) (Credentials, error) {
	creds := Credentials{Username: opts.Username, Password: opts.Password}

	if creds.Username == "" {
		if prompter == nil {
			return Credentials{}, ErrNoCredentials
		}
		username, err := prompter.Username()
		if err != nil {
			return Credentials{}, fmt.Errorf("unable to read username: %w", err)
		}
		creds.Username = username
	}

	if creds.Password == "" {
		if prompter == nil {
			return Credentials{}, ErrNoCredentials
		}
		password, err := prompter.Password()
		if err != nil {
			return Credentials{}, fmt.Errorf("unable to read password: %w", err)
		}
		creds.Password = password
	}
	return creds, nil
}

func ReadTokenFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open token file: %w", err)
	}
	defer file.Close()

	token, err := ReadToken(file)
	if err != nil {
		return "", fmt.Errorf("unable to read token file %s: %w", path, err)
	}
	return token, nil
}

// ReadToken returns the first line of r without its line terminator.
func ReadToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	token := strings.TrimRight(line, "\r\n")
	if token == "" {
		return "", errors.New("token is empty")
	}
	return token, nil
}
