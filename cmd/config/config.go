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
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vs49688/shedreport/digest"
	"github.com/vs49688/shedreport/imap/client"
	"github.com/vs49688/shedreport/notification"
	"github.com/vs49688/shedreport/shed"
)

// DateFormat is the DD-Mon-YYYY layout IMAP SENTSINCE/SENTBEFORE use.
const DateFormat = "02-Jan-2006"

func DefaultConfig() CliConfig {
	return CliConfig{
		IMAP: IMAPConfig{
			URL:           "imaps://imap.gmail.com:993",
			AuthMethod:    "login",
			TLSSkipVerify: false,
			Debug:         false,
		},
		Sender:         notification.ToolShedSender,
		ShedURL:        shed.DefaultRootURL,
		ShedTimeout:    30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
		PasswordPrompt: promptPassword,
	}
}

func (cfg *CliConfig) Parameters() []cli.Flag {
	def := DefaultConfig()

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "email",
			Aliases:     []string{"e"},
			Usage:       "account to pull tool shed update notices from",
			EnvVars:     []string{"SHEDREPORT_EMAIL"},
			Destination: &cfg.IMAP.Email,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "toemail",
			Usage:       "filter by recipient. use if the account differs from the address notifications are sent to",
			EnvVars:     []string{"SHEDREPORT_TOEMAIL"},
			Destination: &cfg.ToEmail,
		},
		&cli.StringFlag{
			Name:        "mailbox",
			Usage:       "mailbox containing tool shed update emails, e.g. 'Tool Shed'",
			EnvVars:     []string{"SHEDREPORT_MAILBOX"},
			Destination: &cfg.Mailbox,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "sentsince",
			Usage:       "only look at email sent on or after this date. format: DD-Mon-YYYY, e.g. 01-Dec-2014",
			EnvVars:     []string{"SHEDREPORT_SENTSINCE"},
			Destination: &cfg.SentSince,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "sentbefore",
			Usage:       "only look at email sent before this date. format: DD-Mon-YYYY",
			EnvVars:     []string{"SHEDREPORT_SENTBEFORE"},
			Destination: &cfg.SentBefore,
		},
		&cli.BoolFlag{
			Name:        "stripplanemocommittext",
			Usage:       "remove commit text generated by planemo uploads",
			EnvVars:     []string{"SHEDREPORT_STRIP_PLANEMO_COMMIT_TEXT"},
			Destination: &cfg.StripPlanemoCommitText,
		},
		&cli.StringFlag{
			Name:        "url",
			Usage:       "imap url",
			EnvVars:     []string{"SHEDREPORT_URL"},
			Destination: &cfg.IMAP.URL,
			Value:       def.IMAP.URL,
		},
		&cli.StringFlag{
			Name:        "auth-method",
			Usage:       "imap auth method (login, plain, oauthbearer)",
			EnvVars:     []string{"SHEDREPORT_AUTH_METHOD"},
			Destination: &cfg.IMAP.AuthMethod,
			Value:       def.IMAP.AuthMethod,
		},
		&cli.StringFlag{
			Name:        "password",
			Usage:       "imap password. prefer the interactive prompt",
			EnvVars:     []string{"SHEDREPORT_PASSWORD"},
			Destination: &cfg.IMAP.Password,
		},
		&cli.StringFlag{
			Name:        "password-file",
			Usage:       "imap password file",
			EnvVars:     []string{"SHEDREPORT_PASSWORD_FILE"},
			Destination: &cfg.IMAP.PasswordFile,
		},
		&cli.StringFlag{
			Name:        "access-token-file",
			Usage:       "oauth access token file, for oauthbearer auth",
			EnvVars:     []string{"SHEDREPORT_ACCESS_TOKEN_FILE"},
			Destination: &cfg.IMAP.AccessTokenFile,
		},
		&cli.BoolFlag{
			Name:        "tls-skip-verify",
			Usage:       "skip imap tls verification",
			EnvVars:     []string{"SHEDREPORT_TLS_SKIP_VERIFY"},
			Destination: &cfg.IMAP.TLSSkipVerify,
			Value:       def.IMAP.TLSSkipVerify,
		},
		&cli.BoolFlag{
			Name:        "imap-debug",
			Usage:       "display imap debug info",
			EnvVars:     []string{"SHEDREPORT_IMAP_DEBUG"},
			Destination: &cfg.IMAP.Debug,
			Value:       def.IMAP.Debug,
		},
		&cli.StringFlag{
			Name:        "sender",
			Usage:       "address tool shed notifications are sent from",
			EnvVars:     []string{"SHEDREPORT_SENDER"},
			Destination: &cfg.Sender,
			Value:       def.Sender,
		},
		&cli.StringFlag{
			Name:        "shed-url",
			Usage:       "tool shed api root url",
			EnvVars:     []string{"SHEDREPORT_SHED_URL"},
			Destination: &cfg.ShedURL,
			Value:       def.ShedURL,
		},
		&cli.DurationFlag{
			Name:        "shed-timeout",
			Usage:       "tool shed api request timeout",
			EnvVars:     []string{"SHEDREPORT_SHED_TIMEOUT"},
			Destination: &cfg.ShedTimeout,
			Value:       def.ShedTimeout,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "logging level",
			EnvVars:     []string{"SHEDREPORT_LOG_LEVEL"},
			Destination: &cfg.LogLevel,
			Value:       def.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "logging format (text/json)",
			EnvVars:     []string{"SHEDREPORT_LOG_FORMAT"},
			Destination: &cfg.LogFormat,
			Value:       def.LogFormat,
		},
	}
}

// Resolve validates the flag values and builds the runtime
// configuration. It may prompt for a password.
func (cfg *CliConfig) Resolve() (digest.Config, error) {
	var dcfg digest.Config

	if err := cfg.IMAP.resolveConnection(&dcfg.Scanner.Connection, cfg.PasswordPrompt); err != nil {
		return digest.Config{}, err
	}

	dcfg.Scanner.Mailbox = cfg.Mailbox
	dcfg.Scanner.Sender = cfg.Sender
	dcfg.Scanner.To = cfg.ToEmail

	sentSince, err := time.Parse(DateFormat, cfg.SentSince)
	if err != nil {
		return digest.Config{}, fmt.Errorf("invalid \"sentsince\" date: %w", err)
	}
	dcfg.Scanner.SentSince = sentSince

	if cfg.SentBefore != "" {
		sentBefore, err := time.Parse(DateFormat, cfg.SentBefore)
		if err != nil {
			return digest.Config{}, fmt.Errorf("invalid \"sentbefore\" date: %w", err)
		}
		dcfg.Scanner.SentBefore = sentBefore
	}

	dcfg.Factory = &client.Factory{}
	dcfg.ShedURL = cfg.ShedURL
	dcfg.ShedTimeout = cfg.ShedTimeout
	dcfg.StripPlanemoCommitText = cfg.StripPlanemoCommitText

	return dcfg, nil
}
