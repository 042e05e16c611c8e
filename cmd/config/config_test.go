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
	"io/ioutil"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	mock_imap "github.com/vs49688/shedreport/imap/mocks"
)

func TestExtractUrl(t *testing.T) {
	tests := []struct {
		url      string
		hostPort string
		tls      bool
		err      error
	}{
		{url: "imap://imap.example.com", hostPort: "imap.example.com:143", tls: false},
		{url: "imaps://imap.example.com", hostPort: "imap.example.com:993", tls: true},
		{url: "imaps://imap.example.com:31337", hostPort: "imap.example.com:31337", tls: true},
		{url: "https://imap.example.com", err: errInvalidScheme},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if !assert.NoError(t, err) {
				t.FailNow()
			}

			hostPort, useTLS, err := extractUrl(u)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.hostPort, hostPort)
			assert.Equal(t, tt.tls, useTLS)
		})
	}
}

func baseConfig() CliConfig {
	cfg := DefaultConfig()
	cfg.IMAP.Email = "curator@example.com"
	cfg.Mailbox = "Tool Shed"
	cfg.SentSince = "01-Dec-2014"
	cfg.PasswordPrompt = nil
	return cfg
}

func TestResolveLoginWithPasswordFile(t *testing.T) {
	cfg := baseConfig()
	cfg.IMAP.PasswordFile = filepath.Join("testdata", "testpass.txt")
	cfg.ToEmail = "notices@example.com"
	cfg.SentBefore = "01-Jan-2015"

	dcfg, err := cfg.Resolve()
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.Equal(t, "imap.gmail.com:993", dcfg.Scanner.Connection.HostPort)
	assert.True(t, dcfg.Scanner.Connection.TLS)
	assert.Nil(t, dcfg.Scanner.Connection.TLSConfig)
	assert.Equal(t, "Tool Shed", dcfg.Scanner.Mailbox)
	assert.Equal(t, "notices@example.com", dcfg.Scanner.To)
	assert.Equal(t, time.Date(2014, time.December, 1, 0, 0, 0, 0, time.UTC), dcfg.Scanner.SentSince)
	assert.Equal(t, time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), dcfg.Scanner.SentBefore)

	// The file's trailing newline must be trimmed.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock_imap.NewMockAuthenticatable(ctrl)
	client.EXPECT().Login("curator@example.com", "hunter2").Return(nil)
	assert.NoError(t, dcfg.Scanner.Connection.Auth.Authenticate(client))
}

func TestResolvePasswordPrompt(t *testing.T) {
	cfg := baseConfig()
	cfg.PasswordPrompt = func() (string, error) { return "prompted", nil }

	dcfg, err := cfg.Resolve()
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock_imap.NewMockAuthenticatable(ctrl)
	client.EXPECT().Login("curator@example.com", "prompted").Return(nil)
	assert.NoError(t, dcfg.Scanner.Connection.Auth.Authenticate(client))
}

func TestResolveNoPasswordNoPrompt(t *testing.T) {
	cfg := baseConfig()

	_, err := cfg.Resolve()
	assert.Error(t, err)
}

func TestResolvePlain(t *testing.T) {
	cfg := baseConfig()
	cfg.IMAP.AuthMethod = "plain"
	cfg.IMAP.Password = "hunter2"

	dcfg, err := cfg.Resolve()
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock_imap.NewMockAuthenticatable(ctrl)
	client.EXPECT().Authenticate(gomock.Any()).Return(nil)
	assert.NoError(t, dcfg.Scanner.Connection.Auth.Authenticate(client))
}

func TestResolveOAuthBearer(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := ioutil.WriteFile(tokenFile, []byte("squirrel\n"), 0600); err != nil {
		t.FailNow()
	}

	cfg := baseConfig()
	cfg.IMAP.AuthMethod = "oauthbearer"
	cfg.IMAP.AccessTokenFile = tokenFile

	dcfg, err := cfg.Resolve()
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock_imap.NewMockAuthenticatable(ctrl)
	client.EXPECT().Authenticate(gomock.Any()).Return(nil)
	assert.NoError(t, dcfg.Scanner.Connection.Auth.Authenticate(client))
}

func TestResolveOAuthBearerNoTokenFile(t *testing.T) {
	cfg := baseConfig()
	cfg.IMAP.AuthMethod = "oauthbearer"

	_, err := cfg.Resolve()
	assert.Error(t, err)
}

func TestResolveUnknownAuthMethod(t *testing.T) {
	cfg := baseConfig()
	cfg.IMAP.AuthMethod = "xoauth3"

	_, err := cfg.Resolve()
	assert.Error(t, err)
}

func TestResolveTLSSkipVerify(t *testing.T) {
	cfg := baseConfig()
	cfg.IMAP.Password = "hunter2"
	cfg.IMAP.TLSSkipVerify = true

	dcfg, err := cfg.Resolve()
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	if assert.NotNil(t, dcfg.Scanner.Connection.TLSConfig) {
		assert.True(t, dcfg.Scanner.Connection.TLSConfig.InsecureSkipVerify)
	}
}

func TestResolveBadDates(t *testing.T) {
	cfg := baseConfig()
	cfg.IMAP.Password = "hunter2"
	cfg.SentSince = "2014-12-01"

	_, err := cfg.Resolve()
	assert.Error(t, err)

	cfg = baseConfig()
	cfg.IMAP.Password = "hunter2"
	cfg.SentBefore = "not-a-date"

	_, err = cfg.Resolve()
	assert.Error(t, err)
}
