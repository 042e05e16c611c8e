/*
 * ShedReport - Copyright (C) 2022 Zane van Iperen.
 *    Contact: zane@zanevaniperen.com
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io/ioutil"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/howeyc/gopass"
	"golang.org/x/oauth2"

	"github.com/vs49688/shedreport/imap"
)

var (
	errInvalidScheme = errors.New("invalid uri scheme")
)

func extractUrl(u *url.URL) (string, bool, error) {
	var defaultPort string
	var useTLS bool
	switch strings.ToLower(u.Scheme) {
	case "imap":
		defaultPort = "143"
		useTLS = false
	case "imaps":
		defaultPort = "993"
		useTLS = true
	default:
		return "", false, errInvalidScheme
	}

	host := u.Hostname()
	port := u.Port()

	if port == "" {
		port = defaultPort
	}

	return net.JoinHostPort(host, port), useTLS, nil
}

func promptPassword() (string, error) {
	pass, err := gopass.GetPasswdPrompt("IMAP password: ", false, os.Stdin, os.Stderr)
	if err != nil {
		return "", err
	}

	return string(pass), nil
}

func (cfg *IMAPConfig) resolvePassword(prompt func() (string, error)) (string, error) {
	if cfg.Password != "" {
		return cfg.Password, nil
	}

	if cfg.PasswordFile != "" {
		pass, err := ioutil.ReadFile(cfg.PasswordFile)
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(pass)), nil
	}

	if prompt == nil {
		return "", fmt.Errorf("one of the \"password\" or \"password-file\" flags is required")
	}

	return prompt()
}

func (cfg *IMAPConfig) resolveConnection(connConfig *imap.ConnectionConfig, prompt func() (string, error)) error {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return err
	}

	hostPort, wantTLS, err := extractUrl(u)
	if err != nil {
		return err
	}

	connConfig.HostPort = hostPort

	switch strings.ToUpper(cfg.AuthMethod) {
	case "LOGIN":
		pass, err := cfg.resolvePassword(prompt)
		if err != nil {
			return err
		}

		connConfig.Auth = imap.NewNormalAuthenticator(cfg.Email, pass)
	case sasl.Plain:
		pass, err := cfg.resolvePassword(prompt)
		if err != nil {
			return err
		}

		connConfig.Auth = imap.NewSASLAuthenticator(sasl.NewPlainClient("", cfg.Email, pass))
	case sasl.OAuthBearer:
		if cfg.AccessTokenFile == "" {
			return fmt.Errorf("the \"access-token-file\" flag is required when using %v auth", cfg.AuthMethod)
		}

		tok, err := ioutil.ReadFile(cfg.AccessTokenFile)
		if err != nil {
			return err
		}

		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(string(tok))})
		connConfig.Auth = imap.NewOAuthBearerAuthenticator(cfg.Email, source)
	default:
		return fmt.Errorf("unsupported auth method: %v", cfg.AuthMethod)
	}

	connConfig.TLS = wantTLS
	connConfig.TLSConfig = nil
	if cfg.TLSSkipVerify {
		// #nosec G402
		connConfig.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	connConfig.Debug = cfg.Debug
	return nil
}
