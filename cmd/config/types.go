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

import "time"

type IMAPConfig struct {
	URL             string `json:"url"`
	AuthMethod      string `json:"auth_method"`
	Email           string `json:"email"`
	Password        string `json:"-"`
	PasswordFile    string `json:"password_file"`
	AccessTokenFile string `json:"access_token_file"`
	TLSSkipVerify   bool   `json:"tls_skip_verify"`
	Debug           bool   `json:"debug"`
}

type CliConfig struct {
	IMAP IMAPConfig `json:"imap"`

	Mailbox    string `json:"mailbox"`
	ToEmail    string `json:"to_email"`
	SentSince  string `json:"sent_since"`
	SentBefore string `json:"sent_before"`

	StripPlanemoCommitText bool `json:"strip_planemo_commit_text"`

	Sender      string        `json:"sender"`
	ShedURL     string        `json:"shed_url"`
	ShedTimeout time.Duration `json:"shed_timeout"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// PasswordPrompt is consulted when neither a password flag nor a
	// password file is given. Defaults to an interactive no-echo prompt.
	PasswordPrompt func() (string, error) `json:"-"`
}
